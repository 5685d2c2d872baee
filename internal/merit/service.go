package merit

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aegisops/guardops/internal"
	meritmodel "github.com/aegisops/guardops/internal/core/datamodel/merit"
)

// Composite score weights. Attendance carries slightly less than
// punctuality and client rating.
const (
	weightAttendance   = 0.30
	weightPunctuality  = 0.35
	weightClientRating = 0.35
)

// Rank thresholds on the overall score.
const (
	thresholdGold   = 90.0
	thresholdSilver = 80.0
	thresholdBronze = 70.0
)

// Service recomputes and serves guard merit scores
type Service struct {
	repo          RepositoryAPI
	directory     DirectoryAPI
	overtimeLimit int
	logger        *slog.Logger
}

func NewService(repo RepositoryAPI, directory DirectoryAPI, overtimeLimit int, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		directory:     directory,
		overtimeLimit: overtimeLimit,
		logger:        logger,
	}
}

// CalculateMeritScore recomputes the composite score from history and
// upserts the single row for the guard. Recomputing over unchanged
// history yields the identical score and rank.
func (s *Service) CalculateMeritScore(guardID string) (*meritmodel.Score, error) {
	exists, err := s.directory.GuardExists(guardID)
	if err != nil {
		return nil, internal.NewTransientError("guard lookup failed", err)
	}
	if !exists {
		return nil, internal.ErrGuardNotFound
	}

	shifts, err := s.repo.ShiftCounts(guardID)
	if err != nil {
		return nil, internal.NewTransientError("shift history lookup failed", err)
	}
	punct, err := s.repo.PunctualityCounts(guardID)
	if err != nil {
		return nil, internal.NewTransientError("punctuality history lookup failed", err)
	}
	evals, err := s.repo.EvaluationStats(guardID)
	if err != nil {
		return nil, internal.NewTransientError("evaluation history lookup failed", err)
	}

	attendanceScore := 0.0
	if shifts.Total > 0 {
		attendanceScore = float64(shifts.Completed) / float64(shifts.Total) * 100
	}

	punctualityScore := 0.0
	if punct.Total > 0 {
		punctualityScore = float64(punct.OnTime) / float64(punct.Total) * 100
	}

	clientRating := 0.0
	if evals.Count > 0 {
		clientRating = evals.Average / 5 * 100
	}

	overall := weightAttendance*attendanceScore +
		weightPunctuality*punctualityScore +
		weightClientRating*clientRating
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}

	now := time.Now()
	score := &meritmodel.Score{
		ID:                   uuid.New().String(),
		GuardID:              guardID,
		AttendanceScore:      attendanceScore,
		PunctualityScore:     punctualityScore,
		ClientRating:         clientRating,
		OverallScore:         overall,
		Rank:                 rankFor(overall),
		TotalShiftsCompleted: shifts.Completed,
		OnTimeCount:          punct.OnTime,
		LateCount:            punct.Late,
		NoShowCount:          punct.NoShow,
		AverageClientRating:  evals.Average,
		EvaluationCount:      evals.Count,
		LastCalculatedAt:     &now,
	}

	if err := s.repo.UpsertScore(score); err != nil {
		s.logger.Error("merit upsert failed", "error", err, "guard_id", guardID)
		return nil, internal.NewTransientError("merit score upsert failed", err)
	}

	s.logger.Info("merit score calculated",
		"guard_id", guardID,
		"overall_score", overall,
		"rank", score.Rank)
	return score, nil
}

func rankFor(overall float64) string {
	switch {
	case overall >= thresholdGold:
		return meritmodel.RankGold
	case overall >= thresholdSilver:
		return meritmodel.RankSilver
	case overall >= thresholdBronze:
		return meritmodel.RankBronze
	default:
		return meritmodel.RankStandard
	}
}

func (s *Service) GetMeritScore(guardID string) (*meritmodel.Score, error) {
	return s.repo.GetScore(guardID)
}

func (s *Service) GetRankedGuards() ([]*RankedGuard, error) {
	return s.repo.RankedGuards()
}

// GetOvertimeCandidates lists Gold and Silver guards only, best first.
func (s *Service) GetOvertimeCandidates() ([]*RankedGuard, error) {
	return s.repo.OvertimeCandidates(s.overtimeLimit)
}

func (s *Service) SubmitEvaluation(dto SubmitEvaluationDTO) (*meritmodel.ClientEvaluation, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.directory.GuardExists(dto.GuardID)
	if err != nil {
		return nil, internal.NewTransientError("guard lookup failed", err)
	}
	if !exists {
		return nil, internal.ErrGuardNotFound
	}

	ev := &meritmodel.ClientEvaluation{
		ID:            uuid.New().String(),
		GuardID:       dto.GuardID,
		ShiftID:       dto.ShiftID,
		MissionID:     dto.MissionID,
		EvaluatorName: dto.EvaluatorName,
		EvaluatorRole: dto.EvaluatorRole,
		Rating:        dto.Rating,
		Comment:       dto.Comment,
	}

	if err := s.repo.CreateEvaluation(ev); err != nil {
		s.logger.Error("evaluation create failed", "error", err, "guard_id", dto.GuardID)
		return nil, internal.NewTransientError("evaluation create failed", err)
	}

	return ev, nil
}

func (s *Service) GuardEvaluations(guardID string) ([]*meritmodel.ClientEvaluation, error) {
	exists, err := s.directory.GuardExists(guardID)
	if err != nil {
		return nil, internal.NewTransientError("guard lookup failed", err)
	}
	if !exists {
		return nil, internal.ErrGuardNotFound
	}
	return s.repo.GuardEvaluations(guardID)
}
