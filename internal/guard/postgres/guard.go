package postgres

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aegisops/guardops/internal"
	guardmodel "github.com/aegisops/guardops/internal/core/datamodel/guard"
	"github.com/aegisops/guardops/internal/guard"
)

// GuardRepository implements guard.RepositoryAPI using GORM
type GuardRepository struct {
	db *gorm.DB
}

func NewGuardRepository(db *gorm.DB) guard.RepositoryAPI {
	return &GuardRepository{db: db}
}

func (r *GuardRepository) GetByID(id string) (*guardmodel.Guard, error) {
	var g guardmodel.Guard
	err := r.db.Where("id = ?", id).First(&g).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrGuardNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GuardRepository) Exists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&guardmodel.Guard{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *GuardRepository) IsVerified(id string) (bool, error) {
	var count int64
	err := r.db.Model(&guardmodel.Guard{}).
		Where("id = ? AND verified = ?", id, true).
		Count(&count).Error
	return count > 0, err
}

func (r *GuardRepository) GetAvailability(guardID string) (*guardmodel.Availability, error) {
	var av guardmodel.Availability
	err := r.db.Where("guard_id = ?", guardID).First(&av).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrGuardNotFound
		}
		return nil, err
	}
	return &av, nil
}

// UpsertAvailability keeps one row per guard; repeated calls overwrite
// the previous window.
func (r *GuardRepository) UpsertAvailability(av *guardmodel.Availability) error {
	av.UpdatedAt = time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "guard_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"available", "available_from", "available_to", "notes", "updated_at",
		}),
	}).Create(av).Error
}
