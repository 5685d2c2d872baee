package replacement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aegisops/guardops/internal"
	notifmodel "github.com/aegisops/guardops/internal/core/datamodel/notification"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
	"github.com/aegisops/guardops/internal/core/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service runs no-show detection and resolves replacement races
type Service struct {
	repo         RepositoryAPI
	directory    DirectoryAPI
	notifier     Notifier
	bus          EventPublisher
	grace        time.Duration
	candidateCap int
	logger       *slog.Logger
}

func NewService(repo RepositoryAPI, directory DirectoryAPI, notifier Notifier, bus EventPublisher, grace time.Duration, candidateCap int, logger *slog.Logger) *Service {
	return &Service{
		repo:         repo,
		directory:    directory,
		notifier:     notifier,
		bus:          bus,
		grace:        grace,
		candidateCap: candidateCap,
		logger:       logger,
	}
}

// DetectNoShows scans for shifts past their grace deadline with no
// check-in, marks them no_show, and fans out replacement notifications
// to eligible guards ordered by merit. The scan is idempotent: a shift
// already searching or accepted is never picked up again, and a lost
// race on the status flip skips the shift without notifying.
func (s *Service) DetectNoShows(ctx context.Context, now time.Time) (*ScanResult, error) {
	cutoff := now.Add(-s.grace)
	overdue, err := s.repo.OverdueShifts(cutoff)
	if err != nil {
		s.logger.Error("detector: overdue scan failed", "error", err)
		return nil, internal.NewTransientError("overdue shift scan failed", err)
	}

	result := &ScanResult{ShiftsScanned: len(overdue)}

	for _, sh := range overdue {
		if err := s.repo.MarkNoShow(sh.ID); err != nil {
			if errors.Is(err, internal.ErrReplacementResolved) {
				continue
			}
			s.logger.Error("detector: no-show mark failed", "error", err, "shift_id", sh.ID)
			continue
		}
		result.NoShowsMarked++

		punct := &shiftmodel.PunctualityRecord{
			ID:                 uuid.New().String(),
			GuardID:            sh.GuardID,
			ShiftID:            sh.ID,
			ScheduledStartTime: sh.StartTime,
			IsOnTime:           false,
			Status:             shiftmodel.PunctualityNoShow,
		}
		if err := s.repo.RecordNoShowPunctuality(punct); err != nil {
			s.logger.Error("detector: punctuality record failed", "error", err, "shift_id", sh.ID)
		}

		sent := s.notifyCandidates(sh)
		result.NotificationsSent += sent

		s.bus.Publish(ctx, events.NewNoShowDetectedEvent(sh.ID, sh.GuardID, sent))
		s.logger.Info("no-show detected",
			"shift_id", sh.ID,
			"guard_id", sh.GuardID,
			"candidates_notified", sent)
	}

	return result, nil
}

func (s *Service) notifyCandidates(sh *shiftmodel.Shift) int {
	candidates, err := s.repo.EligibleCandidates(sh, s.candidateCap)
	if err != nil {
		s.logger.Error("detector: candidate search failed", "error", err, "shift_id", sh.ID)
		return 0
	}

	title := "Replacement shift available"
	message := fmt.Sprintf("A shift at %s from %s to %s needs a replacement guard. First to accept wins.",
		sh.ClientSite,
		sh.StartTime.Format(time.RFC3339),
		sh.EndTime.Format(time.RFC3339))

	sent := 0
	for _, c := range candidates {
		shiftID := sh.ID
		if _, err := s.notifier.Enqueue(c.GuardID, title, message, notifmodel.TypeReplacement, &shiftID); err != nil {
			s.logger.Warn("detector: notification enqueue failed", "error", err, "guard_id", c.GuardID)
			continue
		}
		sent++
	}
	return sent
}

// RequestReplacement is a direct operator reassignment, no search round.
func (s *Service) RequestReplacement(dto RequestReplacementDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	sh, err := s.repo.GetShift(dto.ShiftID)
	if err != nil {
		return err
	}
	if sh.GuardID != dto.OriginalGuardID {
		return internal.NewValidationFieldError("original_guard_id", "shift is not assigned to the original guard", internal.ErrCodeValidationFailed)
	}

	for _, guardID := range []string{dto.OriginalGuardID, dto.ReplacementGuardID} {
		exists, err := s.directory.GuardExists(guardID)
		if err != nil {
			return internal.NewTransientError("guard lookup failed", err)
		}
		if !exists {
			return internal.ErrGuardNotFound
		}
	}

	verified, err := s.directory.IsVerified(dto.ReplacementGuardID)
	if err != nil {
		return internal.NewTransientError("guard lookup failed", err)
	}
	if !verified {
		return internal.ErrGuardNotEligible
	}

	overlap, err := s.repo.HasOverlap(dto.ReplacementGuardID, sh.StartTime, sh.EndTime, sh.ID)
	if err != nil {
		return internal.NewTransientError("overlap check failed", err)
	}
	if overlap {
		return internal.ErrOverlappingShift
	}

	if err := s.repo.Reassign(dto.ShiftID, dto.OriginalGuardID, dto.ReplacementGuardID); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return err
		}
		return internal.NewTransientError("reassignment failed", err)
	}

	s.logger.Info("shift reassigned",
		"shift_id", dto.ShiftID,
		"from", dto.OriginalGuardID,
		"to", dto.ReplacementGuardID)
	return nil
}

// AcceptReplacement resolves the race: first caller to land the
// conditional update wins the shift, everyone after gets Conflict.
func (s *Service) AcceptReplacement(ctx context.Context, dto AcceptReplacementDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	verified, err := s.directory.IsVerified(dto.GuardID)
	if err != nil {
		return internal.NewTransientError("guard lookup failed", err)
	}
	if !verified {
		return internal.ErrGuardNotEligible
	}

	sh, err := s.repo.GetShift(dto.ShiftID)
	if err != nil {
		return err
	}
	if sh.ReplacementStatus != shiftmodel.ReplacementSearching {
		return internal.ErrReplacementResolved
	}

	overlap, err := s.repo.HasOverlap(dto.GuardID, sh.StartTime, sh.EndTime, sh.ID)
	if err != nil {
		return internal.NewTransientError("overlap check failed", err)
	}
	if overlap {
		return internal.ErrOverlappingShift
	}

	if err := s.repo.Accept(dto.ShiftID, dto.GuardID); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return err
		}
		return internal.NewTransientError("replacement acceptance failed", err)
	}

	s.bus.Publish(ctx, events.NewReplacementAcceptedEvent(dto.ShiftID, dto.GuardID))
	s.logger.Info("replacement accepted", "shift_id", dto.ShiftID, "guard_id", dto.GuardID)
	return nil
}
