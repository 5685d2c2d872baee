package fleet

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aegisops/guardops/internal"
	fleetmodel "github.com/aegisops/guardops/internal/core/datamodel/fleet"
)

// Service handles armored car allocation and trip lifecycle
type Service struct {
	repo      RepositoryAPI
	directory DirectoryAPI
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, directory DirectoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

func (s *Service) GetVehicle(id string) (*fleetmodel.Vehicle, error) {
	return s.repo.GetVehicle(id)
}

func (s *Service) AvailableVehicles(limit int) ([]*fleetmodel.Vehicle, error) {
	return s.repo.AvailableVehicles(limit)
}

// AllocateCar claims an available vehicle for a client. A concurrent
// allocation of the same vehicle loses with Conflict.
func (s *Service) AllocateCar(dto AllocateCarDTO) (*fleetmodel.CarAllocation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.VehicleExists(dto.CarID)
	if err != nil {
		s.logger.Error("allocate: vehicle lookup failed", "error", err, "car_id", dto.CarID)
		return nil, internal.NewTransientError("vehicle lookup failed", err)
	}
	if !exists {
		return nil, internal.ErrVehicleNotFound
	}

	alloc := &fleetmodel.CarAllocation{
		ID:                 uuid.New().String(),
		CarID:              dto.CarID,
		ClientID:           dto.ClientID,
		AllocationDate:     time.Now(),
		ExpectedReturnDate: dto.ExpectedReturnDate,
		Notes:              dto.Notes,
		Status:             fleetmodel.AllocationStatusActive,
	}

	if err := s.repo.Allocate(alloc); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("allocate: reservation failed", "error", err, "car_id", dto.CarID)
		return nil, internal.NewTransientError("car allocation failed", err)
	}

	s.logger.Info("car allocated", "allocation_id", alloc.ID, "car_id", dto.CarID, "client_id", dto.ClientID)
	return alloc, nil
}

func (s *Service) ReturnCar(allocationID string) error {
	if allocationID == "" {
		return internal.NewValidationFieldError("allocation_id", "allocation_id is required", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.ReturnCar(allocationID, time.Now()); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return err
		}
		s.logger.Error("return: failed", "error", err, "allocation_id", allocationID)
		return internal.NewTransientError("car return failed", err)
	}

	s.logger.Info("car returned", "allocation_id", allocationID)
	return nil
}

func (s *Service) ActiveCarAllocations() ([]*fleetmodel.CarAllocation, error) {
	return s.repo.ActiveCarAllocations()
}

// CreateTrip deploys a vehicle with a driver. The vehicle flips from
// available to deployed inside the repository transaction.
func (s *Service) CreateTrip(dto CreateTripDTO) (*fleetmodel.Trip, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.VehicleExists(dto.CarID)
	if err != nil {
		return nil, internal.NewTransientError("vehicle lookup failed", err)
	}
	if !exists {
		return nil, internal.ErrVehicleNotFound
	}

	driverExists, err := s.directory.GuardExists(dto.DriverID)
	if err != nil {
		return nil, internal.NewTransientError("driver lookup failed", err)
	}
	if !driverExists {
		return nil, internal.ErrGuardNotFound
	}

	trip := &fleetmodel.Trip{
		ID:          uuid.New().String(),
		CarID:       dto.CarID,
		DriverID:    dto.DriverID,
		Destination: dto.Destination,
		StartTime:   dto.StartTime,
		Status:      fleetmodel.TripStatusScheduled,
	}

	if err := s.repo.CreateTrip(trip); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.Error("trip: creation failed", "error", err, "car_id", dto.CarID)
		return nil, internal.NewTransientError("trip creation failed", err)
	}

	s.logger.Info("trip created", "trip_id", trip.ID, "car_id", dto.CarID, "driver_id", dto.DriverID)
	return trip, nil
}

func (s *Service) GetTrip(id string) (*fleetmodel.Trip, error) {
	return s.repo.GetTrip(id)
}

func (s *Service) ActiveTrips() ([]*fleetmodel.Trip, error) {
	return s.repo.ActiveTrips()
}

func (s *Service) TripsByMission(missionID string) ([]*fleetmodel.Trip, error) {
	return s.repo.TripsByMission(missionID)
}

// CompleteTrip ends the trip and releases the vehicle back to the pool.
func (s *Service) CompleteTrip(tripID string, dto CompleteTripDTO) error {
	if tripID == "" {
		return internal.NewValidationFieldError("trip_id", "trip_id is required", internal.ErrCodeValidationFailed)
	}

	if err := s.repo.CompleteTrip(tripID, time.Now(), dto.DistanceKm); err != nil {
		if _, ok := internal.IsAppError(err); ok {
			return err
		}
		s.logger.Error("trip: completion failed", "error", err, "trip_id", tripID)
		return internal.NewTransientError("trip completion failed", err)
	}

	s.logger.Info("trip completed", "trip_id", tripID)
	return nil
}
