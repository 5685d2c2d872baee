package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
	"github.com/aegisops/guardops/internal/armory"
	armorymodel "github.com/aegisops/guardops/internal/core/datamodel/armory"
	"github.com/aegisops/guardops/internal/core/reservation"
)

// ArmoryRepository implements armory.RepositoryAPI using GORM. Issue and
// Return wrap the unit status flip and the allocation change in one
// transaction so a crash can never leave an allocated unit without an
// open allocation.
type ArmoryRepository struct {
	db *gorm.DB
}

func NewArmoryRepository(db *gorm.DB) armory.RepositoryAPI {
	return &ArmoryRepository{db: db}
}

func (r *ArmoryRepository) FirearmExists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&armorymodel.Firearm{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *ArmoryRepository) GetFirearm(id string) (*armorymodel.Firearm, error) {
	var f armorymodel.Firearm
	err := r.db.Where("id = ?", id).First(&f).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrFirearmNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *ArmoryRepository) AvailableFirearms(limit int) ([]*armorymodel.Firearm, error) {
	var firearms []*armorymodel.Firearm
	q := r.db.Where("status = ?", armorymodel.FirearmStatusAvailable).Order("serial_number")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&firearms).Error
	return firearms, err
}

func (r *ArmoryRepository) Issue(alloc *armorymodel.Allocation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := reservation.Reserve(tx, &armorymodel.Firearm{}, alloc.FirearmID,
			armorymodel.FirearmStatusAvailable, armorymodel.FirearmStatusAllocated); err != nil {
			return err
		}
		return tx.Create(alloc).Error
	})
}

func (r *ArmoryRepository) Return(allocationID string, returnedAt time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var alloc armorymodel.Allocation
		if err := tx.Where("id = ?", allocationID).First(&alloc).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return internal.ErrAllocationNotFound
			}
			return err
		}

		// Keyed on the active status so a concurrent or repeated return
		// of the same allocation reports Conflict.
		res := tx.Model(&armorymodel.Allocation{}).
			Where("id = ? AND status = ?", allocationID, armorymodel.AllocationStatusActive).
			Updates(map[string]interface{}{
				"status":      armorymodel.AllocationStatusReturned,
				"return_date": returnedAt,
				"updated_at":  time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrAlreadyReturned
		}

		return reservation.Release(tx, &armorymodel.Firearm{}, alloc.FirearmID,
			armorymodel.FirearmStatusAllocated, armorymodel.FirearmStatusAvailable)
	})
}

func (r *ArmoryRepository) GetAllocation(id string) (*armorymodel.Allocation, error) {
	var alloc armorymodel.Allocation
	err := r.db.Where("id = ?", id).First(&alloc).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrAllocationNotFound
		}
		return nil, err
	}
	return &alloc, nil
}

func (r *ArmoryRepository) GuardAllocations(guardID string) ([]*armorymodel.Allocation, error) {
	var allocs []*armorymodel.Allocation
	err := r.db.Where("guard_id = ?", guardID).
		Order("allocation_date DESC").
		Find(&allocs).Error
	return allocs, err
}

func (r *ArmoryRepository) ActiveAllocations() ([]*armorymodel.Allocation, error) {
	var allocs []*armorymodel.Allocation
	err := r.db.Where("status = ?", armorymodel.AllocationStatusActive).
		Order("allocation_date DESC").
		Find(&allocs).Error
	return allocs, err
}

func (r *ArmoryRepository) AllAllocations(limit, offset int) ([]*armorymodel.Allocation, error) {
	var allocs []*armorymodel.Allocation
	err := r.db.Order("allocation_date DESC").
		Limit(limit).Offset(offset).
		Find(&allocs).Error
	return allocs, err
}

func (r *ArmoryRepository) OverdueAllocations(now time.Time) ([]*armorymodel.Allocation, error) {
	var allocs []*armorymodel.Allocation
	err := r.db.Where("status = ? AND expected_return_date IS NOT NULL AND expected_return_date < ?",
		armorymodel.AllocationStatusActive, now).
		Order("expected_return_date").
		Find(&allocs).Error
	return allocs, err
}

func (r *ArmoryRepository) ActivePermit(guardID string, now time.Time) (*armorymodel.Permit, error) {
	var permit armorymodel.Permit
	err := r.db.Where("guard_id = ? AND status = ? AND expiry_date > ?",
		guardID, armorymodel.PermitStatusActive, now).
		Order("expiry_date DESC").
		First(&permit).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &permit, nil
}

func (r *ArmoryRepository) ValidTraining(guardID, trainingType string, now time.Time) (*armorymodel.TrainingRecord, error) {
	var record armorymodel.TrainingRecord
	err := r.db.Where("guard_id = ? AND training_type = ? AND status = ? AND (expiry_date IS NULL OR expiry_date > ?)",
		guardID, trainingType, armorymodel.TrainingStatusValid, now).
		Order("completed_date DESC").
		First(&record).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
