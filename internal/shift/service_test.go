package shift_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aegisops/guardops/internal"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
	"github.com/aegisops/guardops/internal/shift"
)

func TestShiftService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Shift Service Suite")
}

// Mock repository for testing
type mockShiftRepository struct {
	shifts      map[string]*shiftmodel.Shift
	attendance  map[string]*shiftmodel.Attendance
	punctuality []*shiftmodel.PunctualityRecord

	createError  error
	checkInError error
}

func newMockShiftRepository() *mockShiftRepository {
	return &mockShiftRepository{
		shifts:     make(map[string]*shiftmodel.Shift),
		attendance: make(map[string]*shiftmodel.Attendance),
	}
}

func (m *mockShiftRepository) Create(s *shiftmodel.Shift) error {
	if m.createError != nil {
		return m.createError
	}
	m.shifts[s.ID] = s
	return nil
}

func (m *mockShiftRepository) GetByID(id string) (*shiftmodel.Shift, error) {
	s, ok := m.shifts[id]
	if !ok {
		return nil, internal.ErrShiftNotFound
	}
	return s, nil
}

func (m *mockShiftRepository) Update(id string, updates map[string]interface{}) error {
	s, ok := m.shifts[id]
	if !ok {
		return internal.ErrShiftNotFound
	}
	if v, ok := updates["start_time"]; ok {
		s.StartTime = v.(time.Time)
	}
	if v, ok := updates["end_time"]; ok {
		s.EndTime = v.(time.Time)
	}
	if v, ok := updates["client_site"]; ok {
		s.ClientSite = v.(string)
	}
	if v, ok := updates["status"]; ok {
		s.Status = v.(string)
	}
	return nil
}

func (m *mockShiftRepository) Delete(id string) error {
	delete(m.shifts, id)
	return nil
}

func (m *mockShiftRepository) GuardShifts(guardID string) ([]*shiftmodel.Shift, error) {
	var out []*shiftmodel.Shift
	for _, s := range m.shifts {
		if s.GuardID == guardID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockShiftRepository) ShiftsByStatus(status string) ([]*shiftmodel.Shift, error) {
	var out []*shiftmodel.Shift
	for _, s := range m.shifts {
		if s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *mockShiftRepository) HasOverlap(guardID string, start, end time.Time, excludeID string) (bool, error) {
	for _, s := range m.shifts {
		if s.ID == excludeID || s.GuardID != guardID {
			continue
		}
		if s.Status != shiftmodel.StatusScheduled && s.Status != shiftmodel.StatusInProgress {
			continue
		}
		if s.StartTime.Before(end) && s.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockShiftRepository) Transition(id, from, to string) error {
	s, ok := m.shifts[id]
	if !ok || s.Status != from {
		return internal.NewConflictError("shift is not in the expected state", internal.ErrCodeShiftConflict)
	}
	s.Status = to
	return nil
}

func (m *mockShiftRepository) CheckIn(att *shiftmodel.Attendance, punct *shiftmodel.PunctualityRecord) error {
	if m.checkInError != nil {
		return m.checkInError
	}
	for _, a := range m.attendance {
		if a.ShiftID == att.ShiftID {
			return internal.ErrAlreadyCheckedIn
		}
	}
	m.attendance[att.ID] = att
	m.punctuality = append(m.punctuality, punct)
	if s, ok := m.shifts[att.ShiftID]; ok && s.Status == shiftmodel.StatusScheduled {
		s.Status = shiftmodel.StatusInProgress
	}
	return nil
}

func (m *mockShiftRepository) CheckOut(attendanceID string, at time.Time) error {
	a, ok := m.attendance[attendanceID]
	if !ok {
		return internal.ErrAttendanceNotFound
	}
	if a.Status != shiftmodel.AttendanceCheckedIn {
		return internal.ErrAlreadyCheckedOut
	}
	a.Status = shiftmodel.AttendanceCheckedOut
	a.CheckOutTime = &at
	return nil
}

func (m *mockShiftRepository) GetAttendance(id string) (*shiftmodel.Attendance, error) {
	a, ok := m.attendance[id]
	if !ok {
		return nil, internal.ErrAttendanceNotFound
	}
	return a, nil
}

func (m *mockShiftRepository) AttendanceForShift(shiftID string) (*shiftmodel.Attendance, error) {
	for _, a := range m.attendance {
		if a.ShiftID == shiftID {
			return a, nil
		}
	}
	return nil, nil
}

func (m *mockShiftRepository) GuardAttendance(guardID string) ([]*shiftmodel.Attendance, error) {
	var out []*shiftmodel.Attendance
	for _, a := range m.attendance {
		if a.GuardID == guardID {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockShiftDirectory struct {
	guards      map[string]bool
	lookupError error
}

func (m *mockShiftDirectory) GuardExists(id string) (bool, error) {
	if m.lookupError != nil {
		return false, m.lookupError
	}
	return m.guards[id], nil
}

var _ = Describe("ShiftService", func() {
	var (
		service   *shift.Service
		mockRepo  *mockShiftRepository
		directory *mockShiftDirectory
		logger    *slog.Logger
	)

	grace := 15 * time.Minute

	BeforeEach(func() {
		mockRepo = newMockShiftRepository()
		directory = &mockShiftDirectory{guards: map[string]bool{"guard-1": true, "guard-2": true}}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = shift.NewService(mockRepo, directory, grace, logger)
	})

	Describe("CreateShift", func() {
		Context("when the window is free", func() {
			It("should create a scheduled shift", func() {
				start := time.Now().Add(time.Hour)
				sh, err := service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-1",
					StartTime:  start,
					EndTime:    start.Add(8 * time.Hour),
					ClientSite: "Harbor Terminal",
				})

				Expect(err).ToNot(HaveOccurred())
				Expect(sh.Status).To(Equal(shiftmodel.StatusScheduled))
				Expect(sh.ReplacementStatus).To(Equal(shiftmodel.ReplacementNotNeeded))
				Expect(sh.ID).ToNot(BeEmpty())
			})
		})

		Context("when the guard already holds an intersecting shift", func() {
			It("should report an overlap conflict", func() {
				start := time.Now().Add(time.Hour)
				_, err := service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-1",
					StartTime:  start,
					EndTime:    start.Add(8 * time.Hour),
					ClientSite: "Harbor Terminal",
				})
				Expect(err).ToNot(HaveOccurred())

				_, err = service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-1",
					StartTime:  start.Add(4 * time.Hour),
					EndTime:    start.Add(12 * time.Hour),
					ClientSite: "Mall Entrance",
				})

				Expect(err).To(Equal(internal.ErrOverlappingShift))
			})

			It("should surface a conflict the store detected after the overlap check", func() {
				mockRepo.createError = internal.ErrOverlappingShift

				start := time.Now().Add(time.Hour)
				_, err := service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-1",
					StartTime:  start,
					EndTime:    start.Add(8 * time.Hour),
					ClientSite: "Harbor Terminal",
				})

				Expect(err).To(Equal(internal.ErrOverlappingShift))
			})

			It("should allow back-to-back windows", func() {
				start := time.Now().Add(time.Hour)
				_, err := service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-1",
					StartTime:  start,
					EndTime:    start.Add(8 * time.Hour),
					ClientSite: "Harbor Terminal",
				})
				Expect(err).ToNot(HaveOccurred())

				_, err = service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-1",
					StartTime:  start.Add(8 * time.Hour),
					EndTime:    start.Add(16 * time.Hour),
					ClientSite: "Harbor Terminal",
				})

				Expect(err).ToNot(HaveOccurred())
			})

			It("should allow the same window for a different guard", func() {
				start := time.Now().Add(time.Hour)
				_, err := service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-1",
					StartTime:  start,
					EndTime:    start.Add(8 * time.Hour),
					ClientSite: "Harbor Terminal",
				})
				Expect(err).ToNot(HaveOccurred())

				_, err = service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-2",
					StartTime:  start,
					EndTime:    start.Add(8 * time.Hour),
					ClientSite: "Harbor Terminal",
				})

				Expect(err).ToNot(HaveOccurred())
			})
		})

		Context("when validation fails", func() {
			It("should reject an inverted window", func() {
				start := time.Now().Add(time.Hour)
				_, err := service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-1",
					StartTime:  start,
					EndTime:    start.Add(-time.Hour),
					ClientSite: "Harbor Terminal",
				})

				Expect(err).To(HaveOccurred())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			})

			It("should reject an unknown guard", func() {
				start := time.Now().Add(time.Hour)
				_, err := service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "missing",
					StartTime:  start,
					EndTime:    start.Add(8 * time.Hour),
					ClientSite: "Harbor Terminal",
				})

				Expect(err).To(Equal(internal.ErrGuardNotFound))
			})
		})

		Context("when the directory is down", func() {
			It("should wrap the error as transient", func() {
				directory.lookupError = errors.New("connection refused")
				start := time.Now().Add(time.Hour)

				_, err := service.CreateShift(shift.CreateShiftDTO{
					GuardID:    "guard-1",
					StartTime:  start,
					EndTime:    start.Add(8 * time.Hour),
					ClientSite: "Harbor Terminal",
				})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeTransient))
			})
		})
	})

	Describe("UpdateShift", func() {
		var existing *shiftmodel.Shift

		BeforeEach(func() {
			start := time.Now().Add(time.Hour)
			var err error
			existing, err = service.CreateShift(shift.CreateShiftDTO{
				GuardID:    "guard-1",
				StartTime:  start,
				EndTime:    start.Add(8 * time.Hour),
				ClientSite: "Harbor Terminal",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should patch only the provided fields", func() {
			site := "Mall Entrance"
			updated, err := service.UpdateShift(existing.ID, shift.UpdateShiftDTO{ClientSite: &site})

			Expect(err).ToNot(HaveOccurred())
			Expect(updated.ClientSite).To(Equal("Mall Entrance"))
			Expect(updated.StartTime).To(Equal(existing.StartTime))
		})

		It("should reject a patch that inverts the merged window", func() {
			bad := existing.StartTime.Add(-time.Hour)
			_, err := service.UpdateShift(existing.ID, shift.UpdateShiftDTO{EndTime: &bad})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should re-run the overlap check when the window moves", func() {
			other := existing.EndTime.Add(time.Hour)
			_, err := service.CreateShift(shift.CreateShiftDTO{
				GuardID:    "guard-1",
				StartTime:  other,
				EndTime:    other.Add(8 * time.Hour),
				ClientSite: "Mall Entrance",
			})
			Expect(err).ToNot(HaveOccurred())

			newEnd := other.Add(time.Hour)
			_, err = service.UpdateShift(existing.ID, shift.UpdateShiftDTO{EndTime: &newEnd})

			Expect(err).To(Equal(internal.ErrOverlappingShift))
		})

		It("should reject an empty patch", func() {
			_, err := service.UpdateShift(existing.ID, shift.UpdateShiftDTO{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("StartShift and CompleteShift", func() {
		var sh *shiftmodel.Shift

		BeforeEach(func() {
			start := time.Now().Add(time.Hour)
			var err error
			sh, err = service.CreateShift(shift.CreateShiftDTO{
				GuardID:    "guard-1",
				StartTime:  start,
				EndTime:    start.Add(8 * time.Hour),
				ClientSite: "Harbor Terminal",
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("should walk scheduled through in_progress to completed", func() {
			Expect(service.StartShift(sh.ID)).To(Succeed())
			Expect(mockRepo.shifts[sh.ID].Status).To(Equal(shiftmodel.StatusInProgress))

			Expect(service.CompleteShift(sh.ID)).To(Succeed())
			Expect(mockRepo.shifts[sh.ID].Status).To(Equal(shiftmodel.StatusCompleted))
		})

		It("should report a conflict when starting twice", func() {
			Expect(service.StartShift(sh.ID)).To(Succeed())

			err := service.StartShift(sh.ID)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})

		It("should report a conflict when completing a scheduled shift", func() {
			err := service.CompleteShift(sh.ID)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeConflict))
		})
	})

	Describe("CheckIn", func() {
		var sh *shiftmodel.Shift

		newShiftStarting := func(start time.Time) *shiftmodel.Shift {
			s := &shiftmodel.Shift{
				ID:                "shift-fixed",
				GuardID:           "guard-1",
				StartTime:         start,
				EndTime:           start.Add(8 * time.Hour),
				ClientSite:        "Harbor Terminal",
				Status:            shiftmodel.StatusScheduled,
				ReplacementStatus: shiftmodel.ReplacementNotNeeded,
			}
			mockRepo.shifts[s.ID] = s
			return s
		}

		Context("when checking in within the grace window", func() {
			It("should record an on-time punctuality row", func() {
				sh = newShiftStarting(time.Now().Add(-5 * time.Minute))

				att, err := service.CheckIn(shift.CheckInDTO{GuardID: "guard-1", ShiftID: sh.ID})

				Expect(err).ToNot(HaveOccurred())
				Expect(att.Status).To(Equal(shiftmodel.AttendanceCheckedIn))
				Expect(mockRepo.punctuality).To(HaveLen(1))
				Expect(mockRepo.punctuality[0].IsOnTime).To(BeTrue())
				Expect(mockRepo.punctuality[0].Status).To(Equal(shiftmodel.PunctualityPresent))
			})
		})

		Context("when checking in after the grace window", func() {
			It("should record a late punctuality row with minutes late", func() {
				sh = newShiftStarting(time.Now().Add(-40 * time.Minute))

				_, err := service.CheckIn(shift.CheckInDTO{GuardID: "guard-1", ShiftID: sh.ID})

				Expect(err).ToNot(HaveOccurred())
				Expect(mockRepo.punctuality).To(HaveLen(1))
				punct := mockRepo.punctuality[0]
				Expect(punct.IsOnTime).To(BeFalse())
				Expect(punct.Status).To(Equal(shiftmodel.PunctualityLate))
				Expect(punct.MinutesLate).ToNot(BeNil())
				Expect(*punct.MinutesLate).To(BeNumerically(">=", 39))
			})
		})

		Context("when someone else tries to check in", func() {
			It("should deny with a forbidden error", func() {
				sh = newShiftStarting(time.Now())

				_, err := service.CheckIn(shift.CheckInDTO{GuardID: "guard-2", ShiftID: sh.ID})

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeForbidden))
			})
		})

		Context("when the shift already has a check-in", func() {
			It("should report a conflict", func() {
				sh = newShiftStarting(time.Now())
				_, err := service.CheckIn(shift.CheckInDTO{GuardID: "guard-1", ShiftID: sh.ID})
				Expect(err).ToNot(HaveOccurred())

				_, err = service.CheckIn(shift.CheckInDTO{GuardID: "guard-1", ShiftID: sh.ID})

				Expect(err).To(Equal(internal.ErrAlreadyCheckedIn))
			})
		})
	})

	Describe("CheckOut", func() {
		It("should close the attendance record", func() {
			sh := &shiftmodel.Shift{
				ID:        "shift-1",
				GuardID:   "guard-1",
				StartTime: time.Now(),
				EndTime:   time.Now().Add(8 * time.Hour),
				Status:    shiftmodel.StatusScheduled,
			}
			mockRepo.shifts[sh.ID] = sh
			att, err := service.CheckIn(shift.CheckInDTO{GuardID: "guard-1", ShiftID: sh.ID})
			Expect(err).ToNot(HaveOccurred())

			closed, err := service.CheckOut(att.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(closed.Status).To(Equal(shiftmodel.AttendanceCheckedOut))
			Expect(closed.CheckOutTime).ToNot(BeNil())
		})

		It("should report a conflict on double check-out", func() {
			sh := &shiftmodel.Shift{
				ID:        "shift-1",
				GuardID:   "guard-1",
				StartTime: time.Now(),
				EndTime:   time.Now().Add(8 * time.Hour),
				Status:    shiftmodel.StatusScheduled,
			}
			mockRepo.shifts[sh.ID] = sh
			att, err := service.CheckIn(shift.CheckInDTO{GuardID: "guard-1", ShiftID: sh.ID})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CheckOut(att.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.CheckOut(att.ID)

			Expect(err).To(Equal(internal.ErrAlreadyCheckedOut))
		})
	})
})
