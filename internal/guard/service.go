package guard

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aegisops/guardops/internal"
	guardmodel "github.com/aegisops/guardops/internal/core/datamodel/guard"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GuardExists is the boundary contract consumed by every domain that
// needs a referential check before writing.
func (s *Service) GuardExists(id string) (bool, error) {
	return s.repo.Exists(id)
}

func (s *Service) IsVerified(id string) (bool, error) {
	return s.repo.IsVerified(id)
}

func (s *Service) GetGuard(id string) (*guardmodel.Guard, error) {
	g, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// SetAvailability records a guard's explicit opt-in/out. An explicit
// unavailable flag is authoritative: the dispatcher and the mission
// allocator both exclude such guards from candidate pools.
func (s *Service) SetAvailability(guardID string, dto SetAvailabilityDTO) (*guardmodel.Availability, error) {
	exists, err := s.repo.Exists(guardID)
	if err != nil {
		s.logger.Error("availability: guard lookup failed", "error", err, "guard_id", guardID)
		return nil, err
	}
	if !exists {
		return nil, internal.ErrGuardNotFound
	}

	av := &guardmodel.Availability{
		ID:            uuid.New().String(),
		GuardID:       guardID,
		Available:     dto.Available,
		AvailableFrom: dto.AvailableFrom,
		AvailableTo:   dto.AvailableTo,
		Notes:         dto.Notes,
		UpdatedAt:     time.Now(),
	}

	if err := s.repo.UpsertAvailability(av); err != nil {
		s.logger.Error("availability: upsert failed", "error", err, "guard_id", guardID)
		return nil, err
	}

	s.logger.Info("guard availability updated",
		"guard_id", guardID,
		"available", dto.Available)

	return av, nil
}

func (s *Service) GetAvailability(guardID string) (*guardmodel.Availability, error) {
	return s.repo.GetAvailability(guardID)
}
