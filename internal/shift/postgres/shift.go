package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
	"github.com/aegisops/guardops/internal/core/reservation"
	"github.com/aegisops/guardops/internal/shift"
)

// ShiftRepository implements shift.RepositoryAPI using GORM
type ShiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) shift.RepositoryAPI {
	return &ShiftRepository{db: db}
}

// Create inserts the shift behind a write lock on the guard's directory
// row. Two concurrent creators for the same guard serialize on the lock,
// so the overlap re-check inside the transaction sees whatever the first
// writer committed; a read-then-check done by the caller before this
// point can be arbitrarily stale. The exclusion constraint on shifts is
// the backstop and maps to the same Conflict.
func (r *ShiftRepository) Create(s *shiftmodel.Shift) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := reservation.LockGuard(tx, s.GuardID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&shiftmodel.Shift{}).
			Where("guard_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
				s.GuardID,
				[]string{shiftmodel.StatusScheduled, shiftmodel.StatusInProgress},
				s.EndTime, s.StartTime).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return internal.ErrOverlappingShift
		}

		if err := tx.Create(s).Error; err != nil {
			if isOverlapViolation(err) {
				return internal.ErrOverlappingShift
			}
			return err
		}
		return nil
	})
}

// isOverlapViolation recognizes the shifts_guard_window_excl exclusion
// constraint firing (class 23P01).
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23P01"
}

func (r *ShiftRepository) GetByID(id string) (*shiftmodel.Shift, error) {
	var s shiftmodel.Shift
	err := r.db.Where("id = ?", id).First(&s).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrShiftNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShiftRepository) Update(id string, updates map[string]interface{}) error {
	res := r.db.Model(&shiftmodel.Shift{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if isOverlapViolation(res.Error) {
			return internal.ErrOverlappingShift
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrShiftNotFound
	}
	return nil
}

func (r *ShiftRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&shiftmodel.Shift{}).Error
}

func (r *ShiftRepository) GuardShifts(guardID string) ([]*shiftmodel.Shift, error) {
	var shifts []*shiftmodel.Shift
	err := r.db.Where("guard_id = ?", guardID).
		Order("start_time DESC").
		Find(&shifts).Error
	return shifts, err
}

func (r *ShiftRepository) ShiftsByStatus(status string) ([]*shiftmodel.Shift, error) {
	var shifts []*shiftmodel.Shift
	err := r.db.Where("status = ?", status).
		Order("start_time").
		Find(&shifts).Error
	return shifts, err
}

func (r *ShiftRepository) HasOverlap(guardID string, start, end time.Time, excludeID string) (bool, error) {
	var count int64
	q := r.db.Model(&shiftmodel.Shift{}).
		Where("guard_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			guardID,
			[]string{shiftmodel.StatusScheduled, shiftmodel.StatusInProgress},
			end, start)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

// Transition is a keyed status flip. Zero rows affected means the shift
// was not in the expected state, which callers surface as Conflict.
func (r *ShiftRepository) Transition(id, from, to string) error {
	res := r.db.Model(&shiftmodel.Shift{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return internal.NewTransientError("shift transition failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.NewConflictError("shift is not in the expected state", internal.ErrCodeShiftConflict)
	}
	return nil
}

// CheckIn commits the attendance row, the punctuality row and the shift
// status move together. The shift flip is tolerant of an already
// started shift; the attendance insert is not.
func (r *ShiftRepository) CheckIn(att *shiftmodel.Attendance, punct *shiftmodel.PunctualityRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&shiftmodel.Attendance{}).
			Where("shift_id = ?", att.ShiftID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return internal.ErrAlreadyCheckedIn
		}

		if err := tx.Create(att).Error; err != nil {
			return err
		}
		if err := tx.Create(punct).Error; err != nil {
			return err
		}

		return tx.Model(&shiftmodel.Shift{}).
			Where("id = ? AND status = ?", att.ShiftID, shiftmodel.StatusScheduled).
			Updates(map[string]interface{}{
				"status":     shiftmodel.StatusInProgress,
				"updated_at": time.Now(),
			}).Error
	})
}

func (r *ShiftRepository) CheckOut(attendanceID string, at time.Time) error {
	res := r.db.Model(&shiftmodel.Attendance{}).
		Where("id = ? AND status = ?", attendanceID, shiftmodel.AttendanceCheckedIn).
		Updates(map[string]interface{}{
			"status":         shiftmodel.AttendanceCheckedOut,
			"check_out_time": at,
			"updated_at":     time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrAlreadyCheckedOut
	}
	return nil
}

func (r *ShiftRepository) GetAttendance(id string) (*shiftmodel.Attendance, error) {
	var att shiftmodel.Attendance
	err := r.db.Where("id = ?", id).First(&att).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrAttendanceNotFound
		}
		return nil, err
	}
	return &att, nil
}

func (r *ShiftRepository) AttendanceForShift(shiftID string) (*shiftmodel.Attendance, error) {
	var att shiftmodel.Attendance
	err := r.db.Where("shift_id = ?", shiftID).First(&att).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &att, nil
}

func (r *ShiftRepository) GuardAttendance(guardID string) ([]*shiftmodel.Attendance, error) {
	var atts []*shiftmodel.Attendance
	err := r.db.Where("guard_id = ?", guardID).
		Order("check_in_time DESC").
		Find(&atts).Error
	return atts, err
}
