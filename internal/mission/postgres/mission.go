package postgres

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
	armorymodel "github.com/aegisops/guardops/internal/core/datamodel/armory"
	fleetmodel "github.com/aegisops/guardops/internal/core/datamodel/fleet"
	guardmodel "github.com/aegisops/guardops/internal/core/datamodel/guard"
	missionmodel "github.com/aegisops/guardops/internal/core/datamodel/mission"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
	"github.com/aegisops/guardops/internal/core/reservation"
	"github.com/aegisops/guardops/internal/mission"
)

// MissionRepository implements mission.RepositoryAPI using GORM
type MissionRepository struct {
	db *gorm.DB
}

func NewMissionRepository(db *gorm.DB) mission.RepositoryAPI {
	return &MissionRepository{db: db}
}

// Allocate snapshots available resources, verifies every count is
// satisfiable, then creates the mission with its shifts, firearm
// allocations and trips inside one transaction. Each unit still goes
// through the conditional reservation, so a unit lost to a concurrent
// caller between snapshot and reserve fails the transaction and rolls
// back everything already claimed for this mission.
func (r *MissionRepository) Allocate(m *missionmodel.Mission) (*mission.Allocation, error) {
	var result *mission.Allocation

	err := r.db.Transaction(func(tx *gorm.DB) error {
		guards, err := availableGuards(tx, m.StartTime, m.EndTime, m.GuardsRequired)
		if err != nil {
			return err
		}
		if len(guards) < m.GuardsRequired {
			return internal.NewInsufficientResourcesError(
				fmt.Sprintf("mission needs %d guards, %d available", m.GuardsRequired, len(guards)),
				internal.ErrCodeInsufficientGuards)
		}

		// Guards are contended units like firearms and vehicles, but their
		// schedule has no status column for a conditional update. Lock the
		// selected directory rows (in ID order, so two missions cannot
		// deadlock on each other) and re-check their schedules; a guard
		// booked by a concurrent writer between snapshot and lock fails
		// the whole transaction.
		guardIDs := make([]string, len(guards))
		for i, g := range guards {
			guardIDs[i] = g.ID
		}
		sort.Strings(guardIDs)
		for _, id := range guardIDs {
			if err := reservation.LockGuard(tx, id); err != nil {
				return err
			}
		}

		var booked int64
		if err := tx.Model(&shiftmodel.Shift{}).
			Where("guard_id IN ? AND status IN ? AND start_time < ? AND end_time > ?",
				guardIDs,
				[]string{shiftmodel.StatusScheduled, shiftmodel.StatusInProgress},
				m.EndTime, m.StartTime).
			Count(&booked).Error; err != nil {
			return err
		}
		if booked > 0 {
			return internal.NewInsufficientResourcesError(
				"a selected guard was booked by a concurrent allocation",
				internal.ErrCodeInsufficientGuards)
		}

		var firearms []*armorymodel.Firearm
		if err := tx.Where("status = ?", armorymodel.FirearmStatusAvailable).
			Order("serial_number").
			Limit(m.FirearmsRequired).
			Find(&firearms).Error; err != nil {
			return err
		}
		if len(firearms) < m.FirearmsRequired {
			return internal.NewInsufficientResourcesError(
				fmt.Sprintf("mission needs %d firearms, %d available", m.FirearmsRequired, len(firearms)),
				internal.ErrCodeInsufficientFirearms)
		}

		var vehicles []*fleetmodel.Vehicle
		if err := tx.Where("status = ?", fleetmodel.VehicleStatusAvailable).
			Order("license_plate").
			Limit(m.VehiclesRequired).
			Find(&vehicles).Error; err != nil {
			return err
		}
		if len(vehicles) < m.VehiclesRequired {
			return internal.NewInsufficientResourcesError(
				fmt.Sprintf("mission needs %d vehicles, %d available", m.VehiclesRequired, len(vehicles)),
				internal.ErrCodeInsufficientVehicles)
		}

		if err := tx.Create(m).Error; err != nil {
			return err
		}

		now := time.Now()
		alloc := &mission.Allocation{Mission: m}

		for _, g := range guards {
			sh := &shiftmodel.Shift{
				ID:                uuid.New().String(),
				GuardID:           g.ID,
				MissionID:         &m.ID,
				StartTime:         m.StartTime,
				EndTime:           m.EndTime,
				ClientSite:        m.Destination,
				Status:            shiftmodel.StatusScheduled,
				ReplacementStatus: shiftmodel.ReplacementNotNeeded,
			}
			if err := tx.Create(sh).Error; err != nil {
				return err
			}
			alloc.Shifts = append(alloc.Shifts, sh)
		}

		// Pairing order is selection order: guard i carries firearm i.
		for i, f := range firearms {
			if err := reservation.Reserve(tx, &armorymodel.Firearm{}, f.ID,
				armorymodel.FirearmStatusAvailable, armorymodel.FirearmStatusAllocated); err != nil {
				return err
			}
			fa := &armorymodel.Allocation{
				ID:                 uuid.New().String(),
				GuardID:            guards[i].ID,
				FirearmID:          f.ID,
				MissionID:          &m.ID,
				AllocationDate:     now,
				ExpectedReturnDate: &m.EndTime,
				Status:             armorymodel.AllocationStatusActive,
			}
			if err := tx.Create(fa).Error; err != nil {
				return err
			}
			alloc.FirearmAllocations = append(alloc.FirearmAllocations, fa)
		}

		for _, v := range vehicles {
			if err := reservation.Reserve(tx, &fleetmodel.Vehicle{}, v.ID,
				fleetmodel.VehicleStatusAvailable, fleetmodel.VehicleStatusDeployed); err != nil {
				return err
			}
			trip := &fleetmodel.Trip{
				ID:          uuid.New().String(),
				CarID:       v.ID,
				DriverID:    guards[0].ID,
				MissionID:   &m.ID,
				Destination: m.Destination,
				StartTime:   m.StartTime,
				Status:      fleetmodel.TripStatusScheduled,
			}
			if err := tx.Create(trip).Error; err != nil {
				return err
			}
			alloc.Trips = append(alloc.Trips, trip)
		}

		result = alloc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// availableGuards ranks verified guards by merit, excluding explicit
// availability opt-outs and guards with an open shift overlapping the
// mission window.
func availableGuards(tx *gorm.DB, start, end time.Time, limit int) ([]*guardmodel.Guard, error) {
	var guards []*guardmodel.Guard
	err := tx.Table("users").
		Select("users.*").
		Joins("LEFT JOIN guard_availability ON guard_availability.guard_id = users.id").
		Joins("LEFT JOIN guard_merit_scores ON guard_merit_scores.guard_id = users.id").
		Where("users.role = ?", guardmodel.RoleGuard).
		Where("users.verified = ?", true).
		Where("guard_availability.guard_id IS NULL OR guard_availability.available = ?", true).
		Where(`NOT EXISTS (
			SELECT 1 FROM shifts s
			WHERE s.guard_id = users.id
			AND s.status IN ?
			AND s.start_time < ? AND s.end_time > ?
		)`, []string{shiftmodel.StatusScheduled, shiftmodel.StatusInProgress}, end, start).
		Order("guard_merit_scores.overall_score DESC NULLS LAST, users.username ASC").
		Limit(limit).
		Find(&guards).Error
	return guards, err
}

func (r *MissionRepository) GetMission(id string) (*missionmodel.Mission, error) {
	var m missionmodel.Mission
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrMissionNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MissionRepository) Missions(limit, offset int) ([]*missionmodel.Mission, error) {
	var missions []*missionmodel.Mission
	err := r.db.Order("start_time DESC").
		Limit(limit).Offset(offset).
		Find(&missions).Error
	return missions, err
}

func (r *MissionRepository) MissionAllocation(id string) (*mission.Allocation, error) {
	m, err := r.GetMission(id)
	if err != nil {
		return nil, err
	}

	alloc := &mission.Allocation{Mission: m}
	if err := r.db.Where("mission_id = ?", id).Find(&alloc.Shifts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("mission_id = ?", id).Find(&alloc.FirearmAllocations).Error; err != nil {
		return nil, err
	}
	if err := r.db.Where("mission_id = ?", id).Find(&alloc.Trips).Error; err != nil {
		return nil, err
	}
	return alloc, nil
}
