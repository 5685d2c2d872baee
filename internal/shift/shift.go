package shift

import (
	"time"

	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
)

// RepositoryAPI is the data access surface for shifts, attendance and
// punctuality. CheckIn is transactional: the attendance row, the
// punctuality row and the shift status transition commit together.
type RepositoryAPI interface {
	Create(s *shiftmodel.Shift) error
	GetByID(id string) (*shiftmodel.Shift, error)
	Update(id string, updates map[string]interface{}) error
	Delete(id string) error
	GuardShifts(guardID string) ([]*shiftmodel.Shift, error)
	ShiftsByStatus(status string) ([]*shiftmodel.Shift, error)

	// HasOverlap reports whether the guard already holds a scheduled or
	// in-progress shift intersecting [start, end). excludeID skips the
	// shift being edited.
	HasOverlap(guardID string, start, end time.Time, excludeID string) (bool, error)

	Transition(id, from, to string) error

	CheckIn(att *shiftmodel.Attendance, punct *shiftmodel.PunctualityRecord) error
	CheckOut(attendanceID string, at time.Time) error
	GetAttendance(id string) (*shiftmodel.Attendance, error)
	AttendanceForShift(shiftID string) (*shiftmodel.Attendance, error)
	GuardAttendance(guardID string) ([]*shiftmodel.Attendance, error)
}

type DirectoryAPI interface {
	GuardExists(id string) (bool, error)
}
