package fleet

import "time"

const (
	VehicleStatusAvailable   = "available"
	VehicleStatusDeployed    = "deployed"
	VehicleStatusMaintenance = "maintenance"
)

const (
	AllocationStatusActive   = "active"
	AllocationStatusReturned = "returned"
)

const (
	TripStatusScheduled  = "scheduled"
	TripStatusInProgress = "in_progress"
	TripStatusCompleted  = "completed"
)

type Vehicle struct {
	ID                string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	LicensePlate      string     `json:"license_plate" gorm:"column:license_plate;uniqueIndex;not null"`
	VIN               string     `json:"vin" gorm:"column:vin;uniqueIndex;not null"`
	Model             string     `json:"model" gorm:"column:model;not null"`
	Manufacturer      string     `json:"manufacturer" gorm:"column:manufacturer;not null"`
	CapacityKg        int        `json:"capacity_kg" gorm:"column:capacity_kg;not null"`
	PassengerCapacity int        `json:"passenger_capacity" gorm:"column:passenger_capacity;default:4"`
	Status            string     `json:"status" gorm:"column:status;default:available"`
	Mileage           int        `json:"mileage" gorm:"column:mileage;default:0"`
	LastMaintenance   *time.Time `json:"last_maintenance_date,omitempty" gorm:"column:last_maintenance_date"`
	CreatedAt         time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Vehicle) TableName() string {
	return "armored_cars"
}

type CarAllocation struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CarID              string     `json:"car_id" gorm:"column:car_id;index;not null"`
	ClientID           string     `json:"client_id" gorm:"column:client_id;not null"`
	AllocationDate     time.Time  `json:"allocation_date" gorm:"column:allocation_date"`
	ReturnDate         *time.Time `json:"return_date,omitempty" gorm:"column:return_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty" gorm:"column:expected_return_date"`
	Status             string     `json:"status" gorm:"column:status;default:active"`
	Notes              *string    `json:"notes,omitempty" gorm:"column:notes"`
	CreatedAt          time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (CarAllocation) TableName() string {
	return "car_allocations"
}

// Trip links a vehicle and driver to a window. Trips created by mission
// assignment carry the mission ID; nothing correlates by calendar date.
type Trip struct {
	ID          string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CarID       string     `json:"car_id" gorm:"column:car_id;index;not null"`
	DriverID    string     `json:"driver_id" gorm:"column:driver_id;index;not null"`
	MissionID   *string    `json:"mission_id,omitempty" gorm:"column:mission_id;index"`
	Destination string     `json:"destination" gorm:"column:destination;not null"`
	StartTime   time.Time  `json:"start_time" gorm:"column:start_time;not null"`
	EndTime     *time.Time `json:"end_time,omitempty" gorm:"column:end_time"`
	DistanceKm  *float64   `json:"distance_km,omitempty" gorm:"column:distance_km"`
	Status      string     `json:"status" gorm:"column:status;default:scheduled"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Trip) TableName() string {
	return "trips"
}
