package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aegisops/guardops/internal"
	"github.com/aegisops/guardops/internal/armory"
	armorymodel "github.com/aegisops/guardops/internal/core/datamodel/armory"
)

func TestArmoryRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Armory Repository Suite")
}

var _ = Describe("ArmoryRepository", func() {
	var (
		db   *gorm.DB
		repo armory.RepositoryAPI
	)

	newAllocation := func(id, firearmID string) *armorymodel.Allocation {
		return &armorymodel.Allocation{
			ID:             id,
			GuardID:        "guard-1",
			FirearmID:      firearmID,
			AllocationDate: time.Now(),
			Status:         armorymodel.AllocationStatusActive,
		}
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).ToNot(HaveOccurred())
		Expect(db.AutoMigrate(
			&armorymodel.Firearm{},
			&armorymodel.Allocation{},
			&armorymodel.Permit{},
			&armorymodel.TrainingRecord{},
		)).To(Succeed())

		repo = NewArmoryRepository(db)

		Expect(db.Create(&armorymodel.Firearm{
			ID:           "firearm-1",
			Name:         "Sidearm",
			SerialNumber: "SN-001",
			Model:        "G17",
			Caliber:      "9mm",
			Status:       armorymodel.FirearmStatusAvailable,
		}).Error).To(Succeed())
	})

	Describe("Issue", func() {
		It("should create the allocation and mark the unit allocated atomically", func() {
			err := repo.Issue(newAllocation("alloc-1", "firearm-1"))

			Expect(err).ToNot(HaveOccurred())

			firearm, err := repo.GetFirearm("firearm-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(firearm.Status).To(Equal(armorymodel.FirearmStatusAllocated))

			alloc, err := repo.GetAllocation("alloc-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(alloc.Status).To(Equal(armorymodel.AllocationStatusActive))
		})

		It("should give a second issuance of the same unit a conflict and no row", func() {
			Expect(repo.Issue(newAllocation("alloc-1", "firearm-1"))).To(Succeed())

			err := repo.Issue(newAllocation("alloc-2", "firearm-1"))

			Expect(err).To(Equal(internal.ErrUnitUnavailable))

			var count int64
			Expect(db.Model(&armorymodel.Allocation{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(1)))
		})
	})

	Describe("Return", func() {
		BeforeEach(func() {
			Expect(repo.Issue(newAllocation("alloc-1", "firearm-1"))).To(Succeed())
		})

		It("should close the allocation and release the unit", func() {
			err := repo.Return("alloc-1", time.Now())

			Expect(err).ToNot(HaveOccurred())

			alloc, err := repo.GetAllocation("alloc-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(alloc.Status).To(Equal(armorymodel.AllocationStatusReturned))
			Expect(alloc.ReturnDate).ToNot(BeNil())

			firearm, err := repo.GetFirearm("firearm-1")
			Expect(err).ToNot(HaveOccurred())
			Expect(firearm.Status).To(Equal(armorymodel.FirearmStatusAvailable))
		})

		It("should report a conflict on double return", func() {
			Expect(repo.Return("alloc-1", time.Now())).To(Succeed())

			err := repo.Return("alloc-1", time.Now())

			Expect(err).To(Equal(internal.ErrAlreadyReturned))
		})

		It("should report not found for an unknown allocation", func() {
			err := repo.Return("missing", time.Now())
			Expect(err).To(Equal(internal.ErrAllocationNotFound))
		})
	})

	Describe("ActivePermit", func() {
		It("should return nil without error when the guard has no permit", func() {
			permit, err := repo.ActivePermit("guard-1", time.Now())

			Expect(err).ToNot(HaveOccurred())
			Expect(permit).To(BeNil())
		})

		It("should skip expired permits", func() {
			Expect(db.Create(&armorymodel.Permit{
				ID:         "permit-1",
				GuardID:    "guard-1",
				PermitType: "standard",
				IssuedDate: time.Now().Add(-2 * 365 * 24 * time.Hour),
				ExpiryDate: time.Now().Add(-24 * time.Hour),
				Status:     armorymodel.PermitStatusActive,
			}).Error).To(Succeed())

			permit, err := repo.ActivePermit("guard-1", time.Now())

			Expect(err).ToNot(HaveOccurred())
			Expect(permit).To(BeNil())
		})

		It("should return the active unexpired permit", func() {
			Expect(db.Create(&armorymodel.Permit{
				ID:         "permit-1",
				GuardID:    "guard-1",
				PermitType: "standard",
				IssuedDate: time.Now(),
				ExpiryDate: time.Now().Add(365 * 24 * time.Hour),
				Status:     armorymodel.PermitStatusActive,
			}).Error).To(Succeed())

			permit, err := repo.ActivePermit("guard-1", time.Now())

			Expect(err).ToNot(HaveOccurred())
			Expect(permit).ToNot(BeNil())
			Expect(permit.ID).To(Equal("permit-1"))
		})
	})

	Describe("ValidTraining", func() {
		It("should treat a record without expiry as current", func() {
			Expect(db.Create(&armorymodel.TrainingRecord{
				ID:            "training-1",
				GuardID:       "guard-1",
				TrainingType:  armorymodel.TrainingFirearmHandling,
				CompletedDate: time.Now().Add(-30 * 24 * time.Hour),
				Status:        armorymodel.TrainingStatusValid,
			}).Error).To(Succeed())

			record, err := repo.ValidTraining("guard-1", armorymodel.TrainingFirearmHandling, time.Now())

			Expect(err).ToNot(HaveOccurred())
			Expect(record).ToNot(BeNil())
		})

		It("should skip an expired record", func() {
			expired := time.Now().Add(-24 * time.Hour)
			Expect(db.Create(&armorymodel.TrainingRecord{
				ID:            "training-1",
				GuardID:       "guard-1",
				TrainingType:  armorymodel.TrainingFirearmHandling,
				CompletedDate: time.Now().Add(-2 * 365 * 24 * time.Hour),
				ExpiryDate:    &expired,
				Status:        armorymodel.TrainingStatusValid,
			}).Error).To(Succeed())

			record, err := repo.ValidTraining("guard-1", armorymodel.TrainingFirearmHandling, time.Now())

			Expect(err).ToNot(HaveOccurred())
			Expect(record).To(BeNil())
		})
	})

	Describe("OverdueAllocations", func() {
		It("should list active allocations past their expected return date", func() {
			past := time.Now().Add(-24 * time.Hour)
			overdue := newAllocation("alloc-1", "firearm-1")
			overdue.ExpectedReturnDate = &past
			Expect(repo.Issue(overdue)).To(Succeed())

			allocs, err := repo.OverdueAllocations(time.Now())

			Expect(err).ToNot(HaveOccurred())
			Expect(allocs).To(HaveLen(1))
			Expect(allocs[0].ID).To(Equal("alloc-1"))
		})

		It("should skip allocations with no expected return date", func() {
			Expect(repo.Issue(newAllocation("alloc-1", "firearm-1"))).To(Succeed())

			allocs, err := repo.OverdueAllocations(time.Now())

			Expect(err).ToNot(HaveOccurred())
			Expect(allocs).To(BeEmpty())
		})
	})
})
