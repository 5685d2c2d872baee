package mission

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aegisops/guardops/internal"
	missionmodel "github.com/aegisops/guardops/internal/core/datamodel/mission"
	"github.com/aegisops/guardops/internal/core/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Service orchestrates all-or-nothing multi-resource mission allocation
type Service struct {
	repo   RepositoryAPI
	bus    EventPublisher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus EventPublisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// AssignMission reserves guards, firearms and vehicles for one window
// in a single transaction. A shortfall in any resource type fails the
// whole request with nothing committed.
func (s *Service) AssignMission(ctx context.Context, dto AssignMissionDTO) (*Allocation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m := &missionmodel.Mission{
		ID:                  uuid.New().String(),
		Name:                dto.Name,
		Destination:         dto.Destination,
		StartTime:           dto.StartTime,
		EndTime:             dto.EndTime,
		GuardsRequired:      dto.GuardsRequired,
		FirearmsRequired:    dto.FirearmsRequired,
		VehiclesRequired:    dto.VehiclesRequired,
		Priority:            dto.Priority,
		SpecialRequirements: dto.SpecialRequirements,
		Status:              missionmodel.StatusAllocated,
	}

	alloc, err := s.repo.Allocate(m)
	if err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("mission allocation failed", "error", err, "mission", dto.Name)
		return nil, internal.NewTransientError("mission allocation failed", err)
	}

	s.bus.Publish(ctx, events.NewMissionAllocatedEvent(m.ID,
		len(alloc.Shifts), len(alloc.FirearmAllocations), len(alloc.Trips)))
	s.logger.Info("mission allocated",
		"mission_id", m.ID,
		"guards", len(alloc.Shifts),
		"firearms", len(alloc.FirearmAllocations),
		"vehicles", len(alloc.Trips))

	return alloc, nil
}

func (s *Service) GetMission(id string) (*missionmodel.Mission, error) {
	return s.repo.GetMission(id)
}

func (s *Service) Missions(limit, offset int) ([]*missionmodel.Mission, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.Missions(limit, offset)
}

// MissionAllocation returns the mission with everything it created,
// joined through the mission ID.
func (s *Service) MissionAllocation(id string) (*Allocation, error) {
	return s.repo.MissionAllocation(id)
}
