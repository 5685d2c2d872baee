package armory

import (
	"time"

	armorymodel "github.com/aegisops/guardops/internal/core/datamodel/armory"
)

// RepositoryAPI is the data access surface for firearms and their
// allocations. Issue and Return are transactional: the unit status flip
// and the allocation row change together or not at all.
type RepositoryAPI interface {
	FirearmExists(id string) (bool, error)
	GetFirearm(id string) (*armorymodel.Firearm, error)
	AvailableFirearms(limit int) ([]*armorymodel.Firearm, error)

	Issue(alloc *armorymodel.Allocation) error
	Return(allocationID string, returnedAt time.Time) error
	GetAllocation(id string) (*armorymodel.Allocation, error)
	GuardAllocations(guardID string) ([]*armorymodel.Allocation, error)
	ActiveAllocations() ([]*armorymodel.Allocation, error)
	AllAllocations(limit, offset int) ([]*armorymodel.Allocation, error)
	OverdueAllocations(now time.Time) ([]*armorymodel.Allocation, error)

	ActivePermit(guardID string, now time.Time) (*armorymodel.Permit, error)
	ValidTraining(guardID, trainingType string, now time.Time) (*armorymodel.TrainingRecord, error)
}

// DirectoryAPI is the slice of the guard directory this domain needs.
type DirectoryAPI interface {
	GuardExists(id string) (bool, error)
}
