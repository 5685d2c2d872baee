package armory

import "time"

// Firearm unit statuses. A unit is `allocated` exactly while one open
// allocation references it; the reservation engine enforces the invariant
// with conditional updates keyed on the current status.
const (
	FirearmStatusAvailable   = "available"
	FirearmStatusAllocated   = "allocated"
	FirearmStatusMaintenance = "maintenance"
)

const (
	AllocationStatusActive   = "active"
	AllocationStatusReturned = "returned"
)

const (
	PermitStatusActive = "active"

	TrainingStatusValid     = "valid"
	TrainingFirearmHandling = "firearms_handling"
)

type Firearm struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" gorm:"column:name;not null"`
	SerialNumber string    `json:"serial_number" gorm:"column:serial_number;uniqueIndex;not null"`
	Model        string    `json:"model" gorm:"column:model;not null"`
	Caliber      string    `json:"caliber" gorm:"column:caliber;not null"`
	Status       string    `json:"status" gorm:"column:status;default:available"`
	CreatedAt    time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Firearm) TableName() string {
	return "firearms"
}

type Allocation struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GuardID            string     `json:"guard_id" gorm:"column:guard_id;index;not null"`
	FirearmID          string     `json:"firearm_id" gorm:"column:firearm_id;index;not null"`
	MissionID          *string    `json:"mission_id,omitempty" gorm:"column:mission_id;index"`
	AllocationDate     time.Time  `json:"allocation_date" gorm:"column:allocation_date"`
	ReturnDate         *time.Time `json:"return_date,omitempty" gorm:"column:return_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty" gorm:"column:expected_return_date"`
	Status             string     `json:"status" gorm:"column:status;default:active"`
	CreatedAt          time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Allocation) TableName() string {
	return "firearm_allocations"
}

type Permit struct {
	ID         string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GuardID    string    `json:"guard_id" gorm:"column:guard_id;index;not null"`
	FirearmID  *string   `json:"firearm_id,omitempty" gorm:"column:firearm_id"`
	PermitType string    `json:"permit_type" gorm:"column:permit_type;not null"`
	IssuedDate time.Time `json:"issued_date" gorm:"column:issued_date;not null"`
	ExpiryDate time.Time `json:"expiry_date" gorm:"column:expiry_date;not null"`
	Status     string    `json:"status" gorm:"column:status;default:active"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Permit) TableName() string {
	return "guard_firearm_permits"
}

type TrainingRecord struct {
	ID                string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GuardID           string     `json:"guard_id" gorm:"column:guard_id;index;not null"`
	TrainingType      string     `json:"training_type" gorm:"column:training_type;not null"`
	CompletedDate     time.Time  `json:"completed_date" gorm:"column:completed_date;not null"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty" gorm:"column:expiry_date"`
	CertificateNumber *string    `json:"certificate_number,omitempty" gorm:"column:certificate_number"`
	Status            string     `json:"status" gorm:"column:status;default:valid"`
	Notes             *string    `json:"notes,omitempty" gorm:"column:notes"`
	CreatedAt         time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (TrainingRecord) TableName() string {
	return "training_records"
}
