package reservation

import (
	"time"

	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
)

// Reserve claims exclusive use of one resource unit. The claim is a single
// conditional update keyed on the unit's current status, so under N
// concurrent callers exactly one sees RowsAffected == 1; the rest get
// ErrUnitUnavailable. This replaces any read-status-then-update sequence,
// which cannot exclude a concurrent winner between the read and the write.
func Reserve(tx *gorm.DB, model interface{}, unitID, from, to string) error {
	res := tx.Model(model).
		Where("id = ? AND status = ?", unitID, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return internal.NewTransientError("reservation update failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrUnitUnavailable
	}
	return nil
}

// LockGuard takes a write lock on the guard's directory row for the
// rest of the caller's transaction. A guard's schedule has no status
// column to key a conditional update on, so writers that are about to
// insert a shift serialize here instead: the second transaction blocks
// until the first commits, and its overlap re-check then sees every
// committed shift.
func LockGuard(tx *gorm.DB, guardID string) error {
	res := tx.Table("users").
		Where("id = ?", guardID).
		Update("updated_at", gorm.Expr("updated_at"))
	if res.Error != nil {
		return internal.NewTransientError("guard lock failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrGuardNotFound
	}
	return nil
}

// Release is the converse transition. Keyed on the allocated status so a
// double release reports Conflict instead of silently succeeding.
func Release(tx *gorm.DB, model interface{}, unitID, from, to string) error {
	res := tx.Model(model).
		Where("id = ? AND status = ?", unitID, from).
		Updates(map[string]interface{}{"status": to, "updated_at": time.Now()})
	if res.Error != nil {
		return internal.NewTransientError("release update failed", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrUnitUnavailable
	}
	return nil
}
