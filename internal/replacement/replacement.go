package replacement

import (
	"time"

	notifmodel "github.com/aegisops/guardops/internal/core/datamodel/notification"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
)

// Candidate is an eligible substitute guard, ordered by merit when the
// repository produces the list.
type Candidate struct {
	GuardID  string `json:"guard_id"`
	Username string `json:"username"`
}

// RepositoryAPI is the data access surface for no-show detection and
// replacement resolution. MarkNoShow and Accept are conditional updates
// keyed on the current replacement status, so concurrent detectors and
// acceptors resolve to exactly one winner.
type RepositoryAPI interface {
	// OverdueShifts lists scheduled shifts with no attendance whose
	// start time is at or before the cutoff and whose replacement
	// search has not begun.
	OverdueShifts(cutoff time.Time) ([]*shiftmodel.Shift, error)

	// MarkNoShow flips the shift to no_show and its replacement status
	// to searching, keyed on the prior state. Zero rows affected means
	// another detector got there first.
	MarkNoShow(shiftID string) error

	RecordNoShowPunctuality(punct *shiftmodel.PunctualityRecord) error

	// EligibleCandidates returns verified guards with the guard role,
	// excluding the original guard, guards who opted out of
	// availability, and guards with an overlapping open shift, ordered
	// by merit overall score descending, capped at limit.
	EligibleCandidates(sh *shiftmodel.Shift, limit int) ([]*Candidate, error)

	HasOverlap(guardID string, start, end time.Time, excludeShiftID string) (bool, error)

	GetShift(id string) (*shiftmodel.Shift, error)

	// Reassign performs a direct operator reassignment of the shift.
	Reassign(shiftID, fromGuardID, toGuardID string) error

	// Accept is the first-accept-wins transaction: a conditional update
	// keyed on replacement_status = searching reassigns the guard and
	// marks the shift accepted; the same transaction marks every
	// pending notification for the shift read. Zero rows affected on
	// the shift update aborts with ErrReplacementResolved.
	Accept(shiftID, guardID string) error
}

type DirectoryAPI interface {
	GuardExists(id string) (bool, error)
	IsVerified(id string) (bool, error)
}

// Notifier is the enqueue contract of the notification component.
// Delivery is fire and forget; enqueue failures do not abort a scan.
type Notifier interface {
	Enqueue(userID, title, message, notifType string, relatedShiftID *string) (*notifmodel.Notification, error)
}
