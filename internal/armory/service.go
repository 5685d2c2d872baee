package armory

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aegisops/guardops/internal"
	armorymodel "github.com/aegisops/guardops/internal/core/datamodel/armory"
	"github.com/aegisops/guardops/internal/core/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service handles firearm issuance and return
type Service struct {
	repo      RepositoryAPI
	directory DirectoryAPI
	gate      *Gate
	bus       EventPublisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, directory DirectoryAPI, gate *Gate, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		gate:      gate,
		bus:       bus,
		logger:    logger,
	}
}

// IssueFirearm validates references, runs the authorization gate (unless
// forced) and claims the unit through the reservation engine. A concurrent
// issuance of the same firearm loses with Conflict, never a double booking.
func (s *Service) IssueFirearm(ctx context.Context, dto IssueFirearmDTO) (*armorymodel.Allocation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.FirearmExists(dto.FirearmID)
	if err != nil {
		s.logger.Error("issue: firearm lookup failed", "error", err, "firearm_id", dto.FirearmID)
		return nil, internal.NewTransientError("firearm lookup failed", err)
	}
	if !exists {
		return nil, internal.ErrFirearmNotFound
	}

	guardExists, err := s.directory.GuardExists(dto.GuardID)
	if err != nil {
		s.logger.Error("issue: guard lookup failed", "error", err, "guard_id", dto.GuardID)
		return nil, internal.NewTransientError("guard lookup failed", err)
	}
	if !guardExists {
		return nil, internal.ErrGuardNotFound
	}

	now := time.Now()
	if dto.Force {
		reason := ""
		if dto.ForceReason != nil {
			reason = *dto.ForceReason
		}
		operatorID := internal.OperatorIDFromContext(ctx)
		s.logger.Warn("issue: authorization gate bypassed",
			"guard_id", dto.GuardID,
			"firearm_id", dto.FirearmID,
			"operator_id", operatorID,
			"reason", reason)
		s.bus.Publish(ctx, events.NewAuthorizationOverriddenEvent(dto.GuardID, dto.FirearmID, operatorID, reason))
	} else {
		if err := s.gate.Authorize(dto.GuardID, now); err != nil {
			return nil, err
		}
	}

	alloc := &armorymodel.Allocation{
		ID:                 uuid.New().String(),
		GuardID:            dto.GuardID,
		FirearmID:          dto.FirearmID,
		AllocationDate:     now,
		ExpectedReturnDate: dto.ExpectedReturnDate,
		Status:             armorymodel.AllocationStatusActive,
	}

	if err := s.repo.Issue(alloc); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("issue: reservation failed", "error", err, "firearm_id", dto.FirearmID)
		return nil, internal.NewTransientError("firearm issuance failed", err)
	}

	s.logger.Info("firearm issued",
		"allocation_id", alloc.ID,
		"firearm_id", dto.FirearmID,
		"guard_id", dto.GuardID,
		"forced", dto.Force)

	return alloc, nil
}

// ReturnFirearm closes the allocation and releases the unit in one
// transaction. Returning an already-returned allocation is a Conflict.
func (s *Service) ReturnFirearm(dto ReturnFirearmDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	if err := s.repo.Return(dto.AllocationID, time.Now()); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return err
		}
		s.logger.Error("return: failed", "error", err, "allocation_id", dto.AllocationID)
		return internal.NewTransientError("firearm return failed", err)
	}

	s.logger.Info("firearm returned", "allocation_id", dto.AllocationID)
	return nil
}

func (s *Service) GuardAllocations(guardID string) ([]*armorymodel.Allocation, error) {
	exists, err := s.directory.GuardExists(guardID)
	if err != nil {
		return nil, internal.NewTransientError("guard lookup failed", err)
	}
	if !exists {
		return nil, internal.ErrGuardNotFound
	}
	return s.repo.GuardAllocations(guardID)
}

func (s *Service) ActiveAllocations() ([]*armorymodel.Allocation, error) {
	return s.repo.ActiveAllocations()
}

func (s *Service) AllAllocations(limit, offset int) ([]*armorymodel.Allocation, error) {
	return s.repo.AllAllocations(limit, offset)
}

// OverdueAllocations lists active allocations whose expected return date
// has passed.
func (s *Service) OverdueAllocations() ([]*armorymodel.Allocation, error) {
	return s.repo.OverdueAllocations(time.Now())
}
