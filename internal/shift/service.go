package shift

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aegisops/guardops/internal"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
)

// Service handles the shift and attendance lifecycle
type Service struct {
	repo      RepositoryAPI
	directory DirectoryAPI
	grace     time.Duration
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, directory DirectoryAPI, grace time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		grace:     grace,
		logger:    logger,
	}
}

// CreateShift schedules a guard for a window. A guard cannot hold two
// open shifts that intersect.
func (s *Service) CreateShift(dto CreateShiftDTO) (*shiftmodel.Shift, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.directory.GuardExists(dto.GuardID)
	if err != nil {
		s.logger.Error("create shift: guard lookup failed", "error", err, "guard_id", dto.GuardID)
		return nil, internal.NewTransientError("guard lookup failed", err)
	}
	if !exists {
		return nil, internal.ErrGuardNotFound
	}

	overlap, err := s.repo.HasOverlap(dto.GuardID, dto.StartTime, dto.EndTime, "")
	if err != nil {
		return nil, internal.NewTransientError("overlap check failed", err)
	}
	if overlap {
		return nil, internal.ErrOverlappingShift
	}

	sh := &shiftmodel.Shift{
		ID:                uuid.New().String(),
		GuardID:           dto.GuardID,
		StartTime:         dto.StartTime,
		EndTime:           dto.EndTime,
		ClientSite:        dto.ClientSite,
		Status:            shiftmodel.StatusScheduled,
		ReplacementStatus: shiftmodel.ReplacementNotNeeded,
	}

	if err := s.repo.Create(sh); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("create shift: persist failed", "error", err, "guard_id", dto.GuardID)
		return nil, internal.NewTransientError("shift creation failed", err)
	}

	s.logger.Info("shift created", "shift_id", sh.ID, "guard_id", dto.GuardID, "client_site", dto.ClientSite)
	return sh, nil
}

func (s *Service) GetShift(id string) (*shiftmodel.Shift, error) {
	return s.repo.GetByID(id)
}

func (s *Service) GuardShifts(guardID string) ([]*shiftmodel.Shift, error) {
	exists, err := s.directory.GuardExists(guardID)
	if err != nil {
		return nil, internal.NewTransientError("guard lookup failed", err)
	}
	if !exists {
		return nil, internal.ErrGuardNotFound
	}
	return s.repo.GuardShifts(guardID)
}

// UpdateShift applies a structured patch. Window edits re-run the
// overlap check against the merged window.
func (s *Service) UpdateShift(id string, dto UpdateShiftDTO) (*shiftmodel.Shift, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	start := existing.StartTime
	end := existing.EndTime
	if dto.StartTime != nil {
		start = *dto.StartTime
	}
	if dto.EndTime != nil {
		end = *dto.EndTime
	}
	if !start.Before(end) {
		return nil, internal.NewValidationFieldError("end_time", "end_time must be after start_time", internal.ErrCodeValidationFailed)
	}

	if dto.StartTime != nil || dto.EndTime != nil {
		overlap, err := s.repo.HasOverlap(existing.GuardID, start, end, id)
		if err != nil {
			return nil, internal.NewTransientError("overlap check failed", err)
		}
		if overlap {
			return nil, internal.ErrOverlappingShift
		}
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if dto.StartTime != nil {
		updates["start_time"] = *dto.StartTime
	}
	if dto.EndTime != nil {
		updates["end_time"] = *dto.EndTime
	}
	if dto.ClientSite != nil {
		updates["client_site"] = *dto.ClientSite
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}

	if err := s.repo.Update(id, updates); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewTransientError("shift update failed", err)
	}

	return s.repo.GetByID(id)
}

func (s *Service) DeleteShift(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return internal.NewTransientError("shift delete failed", err)
	}
	s.logger.Info("shift deleted", "shift_id", id)
	return nil
}

// StartShift moves scheduled to in_progress. The transition is keyed on
// the current status so a repeat or a race reports Conflict.
func (s *Service) StartShift(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Transition(id, shiftmodel.StatusScheduled, shiftmodel.StatusInProgress); err != nil {
		return err
	}
	s.logger.Info("shift started", "shift_id", id)
	return nil
}

func (s *Service) CompleteShift(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	if err := s.repo.Transition(id, shiftmodel.StatusInProgress, shiftmodel.StatusCompleted); err != nil {
		return err
	}
	s.logger.Info("shift completed", "shift_id", id)
	return nil
}

// CheckIn records attendance and a punctuality row in one transaction.
// On-time means the check-in landed within the grace window after the
// scheduled start.
func (s *Service) CheckIn(dto CheckInDTO) (*shiftmodel.Attendance, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	sh, err := s.repo.GetByID(dto.ShiftID)
	if err != nil {
		return nil, err
	}
	if sh.GuardID != dto.GuardID {
		return nil, internal.NewForbiddenError("shift is assigned to a different guard", internal.ErrCodeGuardNotEligible)
	}

	if existing, err := s.repo.AttendanceForShift(dto.ShiftID); err != nil {
		return nil, internal.NewTransientError("attendance lookup failed", err)
	} else if existing != nil {
		return nil, internal.ErrAlreadyCheckedIn
	}

	now := time.Now()
	att := &shiftmodel.Attendance{
		ID:          uuid.New().String(),
		GuardID:     dto.GuardID,
		ShiftID:     dto.ShiftID,
		CheckInTime: now,
		Status:      shiftmodel.AttendanceCheckedIn,
	}

	punct := s.buildPunctuality(sh, now)

	if err := s.repo.CheckIn(att, punct); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("check-in failed", "error", err, "shift_id", dto.ShiftID)
		return nil, internal.NewTransientError("check-in failed", err)
	}

	s.logger.Info("guard checked in",
		"attendance_id", att.ID,
		"shift_id", dto.ShiftID,
		"guard_id", dto.GuardID,
		"on_time", punct.IsOnTime)
	return att, nil
}

func (s *Service) buildPunctuality(sh *shiftmodel.Shift, checkedInAt time.Time) *shiftmodel.PunctualityRecord {
	deadline := sh.StartTime.Add(s.grace)
	onTime := !checkedInAt.After(deadline)

	punct := &shiftmodel.PunctualityRecord{
		ID:                 uuid.New().String(),
		GuardID:            sh.GuardID,
		ShiftID:            sh.ID,
		ScheduledStartTime: sh.StartTime,
		ActualCheckInTime:  &checkedInAt,
		IsOnTime:           onTime,
		Status:             shiftmodel.PunctualityPresent,
	}
	if !onTime {
		minutes := int(checkedInAt.Sub(sh.StartTime).Minutes())
		punct.MinutesLate = &minutes
		punct.Status = shiftmodel.PunctualityLate
	}
	return punct
}

// CheckOut closes the attendance record, keyed on checked_in so a
// repeat reports Conflict.
func (s *Service) CheckOut(attendanceID string) (*shiftmodel.Attendance, error) {
	if attendanceID == "" {
		return nil, internal.NewValidationFieldError("attendance_id", "attendance_id is required", internal.ErrCodeValidationFailed)
	}

	if _, err := s.repo.GetAttendance(attendanceID); err != nil {
		return nil, err
	}

	if err := s.repo.CheckOut(attendanceID, time.Now()); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		return nil, internal.NewTransientError("check-out failed", err)
	}

	s.logger.Info("guard checked out", "attendance_id", attendanceID)
	return s.repo.GetAttendance(attendanceID)
}

func (s *Service) GuardAttendance(guardID string) ([]*shiftmodel.Attendance, error) {
	return s.repo.GuardAttendance(guardID)
}
