package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
	guardmodel "github.com/aegisops/guardops/internal/core/datamodel/guard"
	notifmodel "github.com/aegisops/guardops/internal/core/datamodel/notification"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
	"github.com/aegisops/guardops/internal/replacement"
)

// ReplacementRepository implements replacement.RepositoryAPI using GORM
type ReplacementRepository struct {
	db *gorm.DB
}

func NewReplacementRepository(db *gorm.DB) replacement.RepositoryAPI {
	return &ReplacementRepository{db: db}
}

func (r *ReplacementRepository) OverdueShifts(cutoff time.Time) ([]*shiftmodel.Shift, error) {
	var shifts []*shiftmodel.Shift
	err := r.db.
		Where("status = ?", shiftmodel.StatusScheduled).
		Where("start_time <= ?", cutoff).
		Where("replacement_status NOT IN ?", []string{shiftmodel.ReplacementSearching, shiftmodel.ReplacementAccepted}).
		Where("NOT EXISTS (SELECT 1 FROM attendance WHERE attendance.shift_id = shifts.id)").
		Order("start_time").
		Find(&shifts).Error
	return shifts, err
}

func (r *ReplacementRepository) MarkNoShow(shiftID string) error {
	res := r.db.Model(&shiftmodel.Shift{}).
		Where("id = ? AND status = ? AND replacement_status NOT IN ?",
			shiftID, shiftmodel.StatusScheduled,
			[]string{shiftmodel.ReplacementSearching, shiftmodel.ReplacementAccepted}).
		Updates(map[string]interface{}{
			"status":             shiftmodel.StatusNoShow,
			"replacement_status": shiftmodel.ReplacementSearching,
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrReplacementResolved
	}
	return nil
}

func (r *ReplacementRepository) RecordNoShowPunctuality(punct *shiftmodel.PunctualityRecord) error {
	return r.db.Create(punct).Error
}

// EligibleCandidates excludes the original guard, unverified guards,
// guards with an explicit availability opt-out, and guards holding an
// open shift overlapping the window. Ordered by merit score descending;
// guards with no score row yet sort last.
func (r *ReplacementRepository) EligibleCandidates(sh *shiftmodel.Shift, limit int) ([]*replacement.Candidate, error) {
	var candidates []*replacement.Candidate
	err := r.db.Table("users").
		Select("users.id as guard_id, users.username").
		Joins("LEFT JOIN guard_availability ON guard_availability.guard_id = users.id").
		Joins("LEFT JOIN guard_merit_scores ON guard_merit_scores.guard_id = users.id").
		Where("users.role = ?", guardmodel.RoleGuard).
		Where("users.verified = ?", true).
		Where("users.id <> ?", sh.GuardID).
		Where("guard_availability.guard_id IS NULL OR guard_availability.available = ?", true).
		Where(`NOT EXISTS (
			SELECT 1 FROM shifts s
			WHERE s.guard_id = users.id
			AND s.status IN ?
			AND s.start_time < ? AND s.end_time > ?
		)`, []string{shiftmodel.StatusScheduled, shiftmodel.StatusInProgress}, sh.EndTime, sh.StartTime).
		Order("guard_merit_scores.overall_score DESC NULLS LAST, users.username ASC").
		Limit(limit).
		Scan(&candidates).Error
	return candidates, err
}

func (r *ReplacementRepository) HasOverlap(guardID string, start, end time.Time, excludeShiftID string) (bool, error) {
	var count int64
	q := r.db.Model(&shiftmodel.Shift{}).
		Where("guard_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			guardID,
			[]string{shiftmodel.StatusScheduled, shiftmodel.StatusInProgress},
			end, start)
	if excludeShiftID != "" {
		q = q.Where("id <> ?", excludeShiftID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *ReplacementRepository) GetShift(id string) (*shiftmodel.Shift, error) {
	var sh shiftmodel.Shift
	err := r.db.Where("id = ?", id).First(&sh).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrShiftNotFound
		}
		return nil, err
	}
	return &sh, nil
}

func (r *ReplacementRepository) Reassign(shiftID, fromGuardID, toGuardID string) error {
	res := r.db.Model(&shiftmodel.Shift{}).
		Where("id = ? AND guard_id = ?", shiftID, fromGuardID).
		Updates(map[string]interface{}{
			"guard_id":           toGuardID,
			"status":             shiftmodel.StatusScheduled,
			"replacement_status": shiftmodel.ReplacementAccepted,
			"updated_at":         time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrShiftNotFound
	}
	return nil
}

// Accept reassigns the shift and closes the notification fan-out in one
// transaction. The shift update is keyed on replacement_status =
// searching, making the first acceptance the only one to commit.
func (r *ReplacementRepository) Accept(shiftID, guardID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&shiftmodel.Shift{}).
			Where("id = ? AND replacement_status = ?", shiftID, shiftmodel.ReplacementSearching).
			Updates(map[string]interface{}{
				"guard_id":           guardID,
				"status":             shiftmodel.StatusScheduled,
				"replacement_status": shiftmodel.ReplacementAccepted,
				"updated_at":         time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return internal.ErrReplacementResolved
		}

		return tx.Model(&notifmodel.Notification{}).
			Where("related_shift_id = ? AND read = ?", shiftID, false).
			Updates(map[string]interface{}{"read": true, "updated_at": time.Now()}).Error
	})
}
