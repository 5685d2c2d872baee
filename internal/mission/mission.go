package mission

import (
	armorymodel "github.com/aegisops/guardops/internal/core/datamodel/armory"
	fleetmodel "github.com/aegisops/guardops/internal/core/datamodel/fleet"
	missionmodel "github.com/aegisops/guardops/internal/core/datamodel/mission"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
)

// Allocation is everything one assignMission call created. All rows
// reference the mission ID; there is no date-based correlation.
type Allocation struct {
	Mission            *missionmodel.Mission     `json:"mission"`
	Shifts             []*shiftmodel.Shift       `json:"shifts"`
	FirearmAllocations []*armorymodel.Allocation `json:"firearm_allocations"`
	Trips              []*fleetmodel.Trip        `json:"trips"`
}

// RepositoryAPI is the data access surface for mission allocation.
// Allocate runs as one transaction: a shortfall in any resource type or
// a mid-flight loss of a snapshotted unit rolls back everything.
type RepositoryAPI interface {
	Allocate(m *missionmodel.Mission) (*Allocation, error)
	GetMission(id string) (*missionmodel.Mission, error)
	Missions(limit, offset int) ([]*missionmodel.Mission, error)
	MissionAllocation(id string) (*Allocation, error)
}
