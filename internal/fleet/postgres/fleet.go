package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
	fleetmodel "github.com/aegisops/guardops/internal/core/datamodel/fleet"
	"github.com/aegisops/guardops/internal/core/reservation"
	"github.com/aegisops/guardops/internal/fleet"
)

// FleetRepository implements fleet.RepositoryAPI using GORM
type FleetRepository struct {
	db *gorm.DB
}

func NewFleetRepository(db *gorm.DB) fleet.RepositoryAPI {
	return &FleetRepository{db: db}
}

func (r *FleetRepository) VehicleExists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&fleetmodel.Vehicle{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *FleetRepository) GetVehicle(id string) (*fleetmodel.Vehicle, error) {
	var v fleetmodel.Vehicle
	err := r.db.Where("id = ?", id).First(&v).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *FleetRepository) AvailableVehicles(limit int) ([]*fleetmodel.Vehicle, error) {
	var vehicles []*fleetmodel.Vehicle
	q := r.db.Where("status = ?", fleetmodel.VehicleStatusAvailable).Order("license_plate")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&vehicles).Error
	return vehicles, err
}

func (r *FleetRepository) Allocate(alloc *fleetmodel.CarAllocation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := reservation.Reserve(tx, &fleetmodel.Vehicle{}, alloc.CarID,
			fleetmodel.VehicleStatusAvailable, fleetmodel.VehicleStatusDeployed); err != nil {
			return err
		}
		return tx.Create(alloc).Error
	})
}

func (r *FleetRepository) ReturnCar(allocationID string, returnedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var alloc fleetmodel.CarAllocation
		if err := tx.Where("id = ?", allocationID).First(&alloc).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return internal.ErrAllocationNotFound
			}
			return err
		}

		res := tx.Model(&fleetmodel.CarAllocation{}).
			Where("id = ? AND status = ?", allocationID, fleetmodel.AllocationStatusActive).
			Updates(map[string]interface{}{
				"status":      fleetmodel.AllocationStatusReturned,
				"return_date": returnedAt,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrAlreadyReturned
		}

		return reservation.Release(tx, &fleetmodel.Vehicle{}, alloc.CarID,
			fleetmodel.VehicleStatusDeployed, fleetmodel.VehicleStatusAvailable)
	})
}

func (r *FleetRepository) GetCarAllocation(id string) (*fleetmodel.CarAllocation, error) {
	var alloc fleetmodel.CarAllocation
	err := r.db.Where("id = ?", id).First(&alloc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrAllocationNotFound
		}
		return nil, err
	}
	return &alloc, nil
}

func (r *FleetRepository) ActiveCarAllocations() ([]*fleetmodel.CarAllocation, error) {
	var allocs []*fleetmodel.CarAllocation
	err := r.db.Where("status = ?", fleetmodel.AllocationStatusActive).
		Order("allocation_date DESC").
		Find(&allocs).Error
	return allocs, err
}

func (r *FleetRepository) CreateTrip(trip *fleetmodel.Trip) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := reservation.Reserve(tx, &fleetmodel.Vehicle{}, trip.CarID,
			fleetmodel.VehicleStatusAvailable, fleetmodel.VehicleStatusDeployed); err != nil {
			return err
		}
		return tx.Create(trip).Error
	})
}

func (r *FleetRepository) GetTrip(id string) (*fleetmodel.Trip, error) {
	var trip fleetmodel.Trip
	err := r.db.Where("id = ?", id).First(&trip).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrTripNotFound
		}
		return nil, err
	}
	return &trip, nil
}

func (r *FleetRepository) ActiveTrips() ([]*fleetmodel.Trip, error) {
	var trips []*fleetmodel.Trip
	err := r.db.Where("status IN ?", []string{fleetmodel.TripStatusScheduled, fleetmodel.TripStatusInProgress}).
		Order("start_time").
		Find(&trips).Error
	return trips, err
}

func (r *FleetRepository) TripsByMission(missionID string) ([]*fleetmodel.Trip, error) {
	var trips []*fleetmodel.Trip
	err := r.db.Where("mission_id = ?", missionID).
		Order("start_time").
		Find(&trips).Error
	return trips, err
}

func (r *FleetRepository) CompleteTrip(tripID string, endedAt time.Time, distanceKm *float64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var trip fleetmodel.Trip
		if err := tx.Where("id = ?", tripID).First(&trip).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return internal.ErrTripNotFound
			}
			return err
		}

		updates := map[string]interface{}{
			"status":     fleetmodel.TripStatusCompleted,
			"end_time":   endedAt,
			"updated_at": time.Now(),
		}
		if distanceKm != nil {
			updates["distance_km"] = *distanceKm
		}

		res := tx.Model(&fleetmodel.Trip{}).
			Where("id = ? AND status IN ?", tripID,
				[]string{fleetmodel.TripStatusScheduled, fleetmodel.TripStatusInProgress}).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrAlreadyReturned
		}

		return reservation.Release(tx, &fleetmodel.Vehicle{}, trip.CarID,
			fleetmodel.VehicleStatusDeployed, fleetmodel.VehicleStatusAvailable)
	})
}
