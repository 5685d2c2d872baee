package fleet

import (
	"time"

	fleetmodel "github.com/aegisops/guardops/internal/core/datamodel/fleet"
)

// RepositoryAPI is the data access surface for armored cars, client
// allocations and trips. Allocate and ReturnCar are transactional in the
// same way the armory repository is.
type RepositoryAPI interface {
	VehicleExists(id string) (bool, error)
	GetVehicle(id string) (*fleetmodel.Vehicle, error)
	AvailableVehicles(limit int) ([]*fleetmodel.Vehicle, error)

	Allocate(alloc *fleetmodel.CarAllocation) error
	ReturnCar(allocationID string, returnedAt time.Time) error
	GetCarAllocation(id string) (*fleetmodel.CarAllocation, error)
	ActiveCarAllocations() ([]*fleetmodel.CarAllocation, error)

	CreateTrip(trip *fleetmodel.Trip) error
	GetTrip(id string) (*fleetmodel.Trip, error)
	ActiveTrips() ([]*fleetmodel.Trip, error)
	TripsByMission(missionID string) ([]*fleetmodel.Trip, error)
	CompleteTrip(tripID string, endedAt time.Time, distanceKm *float64) error
}

type DirectoryAPI interface {
	GuardExists(id string) (bool, error)
}
