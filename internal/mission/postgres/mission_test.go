package postgres

import (
	"fmt"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
	armorymodel "github.com/aegisops/guardops/internal/core/datamodel/armory"
	fleetmodel "github.com/aegisops/guardops/internal/core/datamodel/fleet"
	guardmodel "github.com/aegisops/guardops/internal/core/datamodel/guard"
	meritmodel "github.com/aegisops/guardops/internal/core/datamodel/merit"
	missionmodel "github.com/aegisops/guardops/internal/core/datamodel/mission"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
	"github.com/aegisops/guardops/internal/mission"
)

func TestMissionRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Mission Repository Suite")
}

var _ = Describe("MissionRepository", func() {
	var (
		db   *gorm.DB
		repo mission.RepositoryAPI
	)

	seedGuards := func(n int) {
		for i := 1; i <= n; i++ {
			Expect(db.Create(&guardmodel.Guard{
				ID:       fmt.Sprintf("guard-%d", i),
				Username: fmt.Sprintf("guard%02d", i),
				Email:    fmt.Sprintf("guard%02d@example.com", i),
				Role:     guardmodel.RoleGuard,
				Verified: true,
			}).Error).To(Succeed())
		}
	}

	seedFirearms := func(n int) {
		for i := 1; i <= n; i++ {
			Expect(db.Create(&armorymodel.Firearm{
				ID:           fmt.Sprintf("firearm-%d", i),
				Name:         "Sidearm",
				SerialNumber: fmt.Sprintf("SN-%03d", i),
				Model:        "G17",
				Caliber:      "9mm",
				Status:       armorymodel.FirearmStatusAvailable,
			}).Error).To(Succeed())
		}
	}

	seedVehicles := func(n int) {
		for i := 1; i <= n; i++ {
			Expect(db.Create(&fleetmodel.Vehicle{
				ID:           fmt.Sprintf("vehicle-%d", i),
				LicensePlate: fmt.Sprintf("B %d XYZ", 1000+i),
				VIN:          fmt.Sprintf("VIN-%03d", i),
				Model:        "Land Cruiser",
				Manufacturer: "Toyota",
				CapacityKg:   800,
				Status:       fleetmodel.VehicleStatusAvailable,
			}).Error).To(Succeed())
		}
	}

	newMission := func(guards, firearms, vehicles int) *missionmodel.Mission {
		start := time.Now().Add(24 * time.Hour)
		return &missionmodel.Mission{
			ID:               "mission-1",
			Name:             "Bank transfer escort",
			Destination:      "Central Branch",
			StartTime:        start,
			EndTime:          start.Add(6 * time.Hour),
			GuardsRequired:   guards,
			FirearmsRequired: firearms,
			VehiclesRequired: vehicles,
			Status:           missionmodel.StatusAllocated,
		}
	}

	expectNothingCommitted := func() {
		var missions, shifts, firearmAllocs, trips int64
		Expect(db.Model(&missionmodel.Mission{}).Count(&missions).Error).To(Succeed())
		Expect(db.Model(&shiftmodel.Shift{}).Count(&shifts).Error).To(Succeed())
		Expect(db.Model(&armorymodel.Allocation{}).Count(&firearmAllocs).Error).To(Succeed())
		Expect(db.Model(&fleetmodel.Trip{}).Count(&trips).Error).To(Succeed())
		Expect(missions).To(BeZero())
		Expect(shifts).To(BeZero())
		Expect(firearmAllocs).To(BeZero())
		Expect(trips).To(BeZero())

		var claimed int64
		Expect(db.Model(&armorymodel.Firearm{}).
			Where("status <> ?", armorymodel.FirearmStatusAvailable).
			Count(&claimed).Error).To(Succeed())
		Expect(claimed).To(BeZero())
		Expect(db.Model(&fleetmodel.Vehicle{}).
			Where("status <> ?", fleetmodel.VehicleStatusAvailable).
			Count(&claimed).Error).To(Succeed())
		Expect(claimed).To(BeZero())
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).ToNot(HaveOccurred())
		Expect(db.AutoMigrate(
			&guardmodel.Guard{},
			&guardmodel.Availability{},
			&meritmodel.Score{},
			&missionmodel.Mission{},
			&shiftmodel.Shift{},
			&armorymodel.Firearm{},
			&armorymodel.Allocation{},
			&fleetmodel.Vehicle{},
			&fleetmodel.Trip{},
		)).To(Succeed())

		repo = NewMissionRepository(db)
	})

	Describe("Allocate", func() {
		Context("when every resource count is satisfiable", func() {
			It("should create the mission with its shifts, firearm allocations and trips", func() {
				seedGuards(3)
				seedFirearms(2)
				seedVehicles(1)

				alloc, err := repo.Allocate(newMission(3, 2, 1))

				Expect(err).ToNot(HaveOccurred())
				Expect(alloc.Shifts).To(HaveLen(3))
				Expect(alloc.FirearmAllocations).To(HaveLen(2))
				Expect(alloc.Trips).To(HaveLen(1))

				var claimed int64
				Expect(db.Model(&armorymodel.Firearm{}).
					Where("status = ?", armorymodel.FirearmStatusAllocated).
					Count(&claimed).Error).To(Succeed())
				Expect(claimed).To(Equal(int64(2)))
				Expect(db.Model(&fleetmodel.Vehicle{}).
					Where("status = ?", fleetmodel.VehicleStatusDeployed).
					Count(&claimed).Error).To(Succeed())
				Expect(claimed).To(Equal(int64(1)))
			})

			It("should pair each issued firearm with a mission guard", func() {
				seedGuards(2)
				seedFirearms(2)

				alloc, err := repo.Allocate(newMission(2, 2, 0))

				Expect(err).ToNot(HaveOccurred())
				guardIDs := map[string]bool{}
				for _, sh := range alloc.Shifts {
					guardIDs[sh.GuardID] = true
				}
				for _, fa := range alloc.FirearmAllocations {
					Expect(guardIDs).To(HaveKey(fa.GuardID))
					Expect(fa.ExpectedReturnDate).ToNot(BeNil())
				}
			})

			It("should prefer higher-merit guards", func() {
				seedGuards(3)
				Expect(db.Create(&meritmodel.Score{
					ID: "score-3", GuardID: "guard-3", OverallScore: 95, Rank: meritmodel.RankGold,
				}).Error).To(Succeed())

				alloc, err := repo.Allocate(newMission(1, 0, 0))

				Expect(err).ToNot(HaveOccurred())
				Expect(alloc.Shifts).To(HaveLen(1))
				Expect(alloc.Shifts[0].GuardID).To(Equal("guard-3"))
			})
		})

		Context("when guards fall short", func() {
			It("should fail with insufficient guards and commit nothing", func() {
				seedGuards(2)
				seedFirearms(2)
				seedVehicles(1)

				_, err := repo.Allocate(newMission(3, 2, 1))

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientGuards))
				expectNothingCommitted()
			})
		})

		Context("when firearms fall short", func() {
			It("should roll back the shifts already created", func() {
				seedGuards(3)
				seedFirearms(1)
				seedVehicles(1)

				_, err := repo.Allocate(newMission(3, 2, 1))

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientFirearms))
				expectNothingCommitted()
			})
		})

		Context("when vehicles fall short", func() {
			It("should roll back the firearm reservations already made", func() {
				seedGuards(3)
				seedFirearms(2)

				_, err := repo.Allocate(newMission(3, 2, 1))

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientVehicles))
				expectNothingCommitted()
			})
		})

		Context("when a guard holds an overlapping shift", func() {
			It("should not count that guard toward the mission", func() {
				seedGuards(2)
				m := newMission(2, 0, 0)
				Expect(db.Create(&shiftmodel.Shift{
					ID:         "shift-busy",
					GuardID:    "guard-1",
					StartTime:  m.StartTime,
					EndTime:    m.EndTime,
					ClientSite: "Harbor Terminal",
					Status:     shiftmodel.StatusScheduled,
				}).Error).To(Succeed())

				_, err := repo.Allocate(m)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientGuards))
			})
		})

		Context("when two allocations contend for the same guard", func() {
			It("should book the guard into only one mission for the window", func() {
				seedGuards(1)
				_, err := repo.Allocate(newMission(1, 0, 0))
				Expect(err).ToNot(HaveOccurred())

				second := newMission(1, 0, 0)
				second.ID = "mission-2"
				_, err = repo.Allocate(second)

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientGuards))

				var open int64
				Expect(db.Model(&shiftmodel.Shift{}).
					Where("guard_id = ? AND status IN ?", "guard-1",
						[]string{shiftmodel.StatusScheduled, shiftmodel.StatusInProgress}).
					Count(&open).Error).To(Succeed())
				Expect(open).To(Equal(int64(1)))
			})
		})

		Context("when a guard opted out of availability", func() {
			It("should not count that guard toward the mission", func() {
				seedGuards(2)
				Expect(db.Create(&guardmodel.Availability{
					ID:        "avail-1",
					GuardID:   "guard-1",
					Available: false,
				}).Error).To(Succeed())

				_, err := repo.Allocate(newMission(2, 0, 0))

				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Code).To(Equal(internal.ErrCodeInsufficientGuards))
			})
		})
	})

	Describe("MissionAllocation", func() {
		It("should fetch everything by mission ID", func() {
			seedGuards(2)
			seedFirearms(1)
			seedVehicles(1)
			created, err := repo.Allocate(newMission(2, 1, 1))
			Expect(err).ToNot(HaveOccurred())

			alloc, err := repo.MissionAllocation(created.Mission.ID)

			Expect(err).ToNot(HaveOccurred())
			Expect(alloc.Shifts).To(HaveLen(2))
			Expect(alloc.FirearmAllocations).To(HaveLen(1))
			Expect(alloc.Trips).To(HaveLen(1))
		})

		It("should report not found for an unknown mission", func() {
			_, err := repo.MissionAllocation("missing")
			Expect(err).To(Equal(internal.ErrMissionNotFound))
		})
	})
})
