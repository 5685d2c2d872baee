package merit_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aegisops/guardops/internal"
	meritmodel "github.com/aegisops/guardops/internal/core/datamodel/merit"
	"github.com/aegisops/guardops/internal/merit"
)

func TestMeritService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Merit Service Suite")
}

// Mock repository for testing
type mockMeritRepository struct {
	shiftCounts  map[string]merit.ShiftCounts
	punctCounts  map[string]merit.PunctualityCounts
	evalStats    map[string]merit.EvaluationStats
	scores       map[string]*meritmodel.Score
	evaluations  []*meritmodel.ClientEvaluation
	upsertCalls  int
	historyError error
}

func newMockMeritRepository() *mockMeritRepository {
	return &mockMeritRepository{
		shiftCounts: make(map[string]merit.ShiftCounts),
		punctCounts: make(map[string]merit.PunctualityCounts),
		evalStats:   make(map[string]merit.EvaluationStats),
		scores:      make(map[string]*meritmodel.Score),
	}
}

func (m *mockMeritRepository) ShiftCounts(guardID string) (merit.ShiftCounts, error) {
	if m.historyError != nil {
		return merit.ShiftCounts{}, m.historyError
	}
	return m.shiftCounts[guardID], nil
}

func (m *mockMeritRepository) PunctualityCounts(guardID string) (merit.PunctualityCounts, error) {
	if m.historyError != nil {
		return merit.PunctualityCounts{}, m.historyError
	}
	return m.punctCounts[guardID], nil
}

func (m *mockMeritRepository) EvaluationStats(guardID string) (merit.EvaluationStats, error) {
	if m.historyError != nil {
		return merit.EvaluationStats{}, m.historyError
	}
	return m.evalStats[guardID], nil
}

func (m *mockMeritRepository) UpsertScore(score *meritmodel.Score) error {
	m.upsertCalls++
	m.scores[score.GuardID] = score
	return nil
}

func (m *mockMeritRepository) GetScore(guardID string) (*meritmodel.Score, error) {
	s, ok := m.scores[guardID]
	if !ok {
		return nil, internal.ErrMeritScoreNotFound
	}
	return s, nil
}

func (m *mockMeritRepository) RankedGuards() ([]*merit.RankedGuard, error) {
	return nil, nil
}

func (m *mockMeritRepository) OvertimeCandidates(limit int) ([]*merit.RankedGuard, error) {
	var out []*merit.RankedGuard
	for _, s := range m.scores {
		if s.Rank == meritmodel.RankGold || s.Rank == meritmodel.RankSilver {
			out = append(out, &merit.RankedGuard{
				GuardID:      s.GuardID,
				OverallScore: s.OverallScore,
				Rank:         s.Rank,
			})
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockMeritRepository) CreateEvaluation(ev *meritmodel.ClientEvaluation) error {
	m.evaluations = append(m.evaluations, ev)
	return nil
}

func (m *mockMeritRepository) GuardEvaluations(guardID string) ([]*meritmodel.ClientEvaluation, error) {
	var out []*meritmodel.ClientEvaluation
	for _, ev := range m.evaluations {
		if ev.GuardID == guardID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type mockMeritDirectory struct {
	guards map[string]bool
}

func (m *mockMeritDirectory) GuardExists(id string) (bool, error) {
	return m.guards[id], nil
}

var _ = Describe("MeritService", func() {
	var (
		service   *merit.Service
		mockRepo  *mockMeritRepository
		directory *mockMeritDirectory
		logger    *slog.Logger
	)

	overtimeLimit := 20

	BeforeEach(func() {
		mockRepo = newMockMeritRepository()
		directory = &mockMeritDirectory{guards: map[string]bool{"guard-1": true}}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = merit.NewService(mockRepo, directory, overtimeLimit, logger)
	})

	Describe("CalculateMeritScore", func() {
		Context("with an 80% attendance, perfect punctuality and 4.5 average rating", func() {
			It("should compute the weighted composite and rank Gold", func() {
				mockRepo.shiftCounts["guard-1"] = merit.ShiftCounts{Total: 10, Completed: 8}
				mockRepo.punctCounts["guard-1"] = merit.PunctualityCounts{Total: 8, OnTime: 8}
				mockRepo.evalStats["guard-1"] = merit.EvaluationStats{Count: 4, Average: 4.5}

				score, err := service.CalculateMeritScore("guard-1")

				Expect(err).ToNot(HaveOccurred())
				Expect(score.AttendanceScore).To(BeNumerically("~", 80.0, 0.001))
				Expect(score.PunctualityScore).To(BeNumerically("~", 100.0, 0.001))
				Expect(score.ClientRating).To(BeNumerically("~", 90.0, 0.001))
				// 0.30*80 + 0.35*100 + 0.35*90
				Expect(score.OverallScore).To(BeNumerically("~", 90.5, 0.001))
				Expect(score.Rank).To(Equal(meritmodel.RankGold))
			})
		})

		Context("with no history at all", func() {
			It("should score zero across the board and rank Standard", func() {
				score, err := service.CalculateMeritScore("guard-1")

				Expect(err).ToNot(HaveOccurred())
				Expect(score.OverallScore).To(BeZero())
				Expect(score.Rank).To(Equal(meritmodel.RankStandard))
			})
		})

		Context("rank thresholds", func() {
			// Punctuality-only history pins the overall score to
			// 0.35 * punctuality, so pick ratios that land on the edges.
			It("should rank Silver at exactly 80", func() {
				mockRepo.shiftCounts["guard-1"] = merit.ShiftCounts{Total: 10, Completed: 8}
				mockRepo.punctCounts["guard-1"] = merit.PunctualityCounts{Total: 10, OnTime: 8}
				mockRepo.evalStats["guard-1"] = merit.EvaluationStats{Count: 2, Average: 4.0}

				score, err := service.CalculateMeritScore("guard-1")

				Expect(err).ToNot(HaveOccurred())
				// 0.30*80 + 0.35*80 + 0.35*80 = 80
				Expect(score.OverallScore).To(BeNumerically("~", 80.0, 0.001))
				Expect(score.Rank).To(Equal(meritmodel.RankSilver))
			})

			It("should rank Bronze just under 80", func() {
				mockRepo.shiftCounts["guard-1"] = merit.ShiftCounts{Total: 4, Completed: 3}
				mockRepo.punctCounts["guard-1"] = merit.PunctualityCounts{Total: 4, OnTime: 3}
				mockRepo.evalStats["guard-1"] = merit.EvaluationStats{Count: 2, Average: 3.75}

				score, err := service.CalculateMeritScore("guard-1")

				Expect(err).ToNot(HaveOccurred())
				// All three components are 75.
				Expect(score.OverallScore).To(BeNumerically("~", 75.0, 0.001))
				Expect(score.Rank).To(Equal(meritmodel.RankBronze))
			})
		})

		Context("when recomputed over unchanged history", func() {
			It("should produce the identical score and rank", func() {
				mockRepo.shiftCounts["guard-1"] = merit.ShiftCounts{Total: 10, Completed: 8}
				mockRepo.punctCounts["guard-1"] = merit.PunctualityCounts{Total: 8, OnTime: 6, Late: 2}
				mockRepo.evalStats["guard-1"] = merit.EvaluationStats{Count: 3, Average: 4.0}

				first, err := service.CalculateMeritScore("guard-1")
				Expect(err).ToNot(HaveOccurred())

				second, err := service.CalculateMeritScore("guard-1")

				Expect(err).ToNot(HaveOccurred())
				Expect(second.OverallScore).To(Equal(first.OverallScore))
				Expect(second.Rank).To(Equal(first.Rank))
				Expect(mockRepo.upsertCalls).To(Equal(2))
				Expect(mockRepo.scores).To(HaveLen(1))
			})
		})

		Context("when the guard does not exist", func() {
			It("should report not found without upserting", func() {
				_, err := service.CalculateMeritScore("missing")

				Expect(err).To(Equal(internal.ErrGuardNotFound))
				Expect(mockRepo.upsertCalls).To(BeZero())
			})
		})

		It("should carry the raw history counters on the score row", func() {
			mockRepo.shiftCounts["guard-1"] = merit.ShiftCounts{Total: 10, Completed: 7}
			mockRepo.punctCounts["guard-1"] = merit.PunctualityCounts{Total: 10, OnTime: 6, Late: 3, NoShow: 1}
			mockRepo.evalStats["guard-1"] = merit.EvaluationStats{Count: 5, Average: 3.8}

			score, err := service.CalculateMeritScore("guard-1")

			Expect(err).ToNot(HaveOccurred())
			Expect(score.TotalShiftsCompleted).To(Equal(7))
			Expect(score.OnTimeCount).To(Equal(6))
			Expect(score.LateCount).To(Equal(3))
			Expect(score.NoShowCount).To(Equal(1))
			Expect(score.EvaluationCount).To(Equal(5))
			Expect(score.LastCalculatedAt).ToNot(BeNil())
		})
	})

	Describe("GetOvertimeCandidates", func() {
		It("should include Gold and Silver guards only", func() {
			mockRepo.scores["gold"] = &meritmodel.Score{GuardID: "gold", OverallScore: 95, Rank: meritmodel.RankGold}
			mockRepo.scores["silver"] = &meritmodel.Score{GuardID: "silver", OverallScore: 85, Rank: meritmodel.RankSilver}
			mockRepo.scores["bronze"] = &meritmodel.Score{GuardID: "bronze", OverallScore: 75, Rank: meritmodel.RankBronze}

			candidates, err := service.GetOvertimeCandidates()

			Expect(err).ToNot(HaveOccurred())
			Expect(candidates).To(HaveLen(2))
			for _, c := range candidates {
				Expect(c.Rank).To(BeElementOf(meritmodel.RankGold, meritmodel.RankSilver))
			}
		})
	})

	Describe("SubmitEvaluation", func() {
		It("should persist a valid evaluation", func() {
			ev, err := service.SubmitEvaluation(merit.SubmitEvaluationDTO{
				GuardID:       "guard-1",
				EvaluatorName: "Site Manager",
				Rating:        4.5,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(ev.ID).ToNot(BeEmpty())
			Expect(mockRepo.evaluations).To(HaveLen(1))
		})

		It("should reject an out-of-range rating", func() {
			_, err := service.SubmitEvaluation(merit.SubmitEvaluationDTO{
				GuardID:       "guard-1",
				EvaluatorName: "Site Manager",
				Rating:        5.5,
			})

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.evaluations).To(BeEmpty())
		})

		It("should reject an unknown guard", func() {
			_, err := service.SubmitEvaluation(merit.SubmitEvaluationDTO{
				GuardID:       "missing",
				EvaluatorName: "Site Manager",
				Rating:        4.0,
			})

			Expect(err).To(Equal(internal.ErrGuardNotFound))
		})
	})
})
