package merit

import (
	meritmodel "github.com/aegisops/guardops/internal/core/datamodel/merit"
)

// ShiftCounts summarizes a guard's shift history for scoring.
type ShiftCounts struct {
	Total     int
	Completed int
}

// PunctualityCounts summarizes a guard's punctuality history.
type PunctualityCounts struct {
	Total  int
	OnTime int
	Late   int
	NoShow int
}

// EvaluationStats summarizes client evaluations for a guard.
type EvaluationStats struct {
	Count   int
	Average float64
}

// RankedGuard is a scoring row joined with the guard's directory entry.
type RankedGuard struct {
	GuardID          string  `json:"guard_id"`
	Username         string  `json:"username"`
	FullName         *string `json:"full_name,omitempty"`
	OverallScore     float64 `json:"overall_score"`
	Rank             string  `json:"rank"`
	OnTimePercentage float64 `json:"on_time_percentage"`
}

// RepositoryAPI is the data access surface for merit scoring.
type RepositoryAPI interface {
	ShiftCounts(guardID string) (ShiftCounts, error)
	PunctualityCounts(guardID string) (PunctualityCounts, error)
	EvaluationStats(guardID string) (EvaluationStats, error)

	UpsertScore(score *meritmodel.Score) error
	GetScore(guardID string) (*meritmodel.Score, error)
	RankedGuards() ([]*RankedGuard, error)
	OvertimeCandidates(limit int) ([]*RankedGuard, error)

	CreateEvaluation(ev *meritmodel.ClientEvaluation) error
	GuardEvaluations(guardID string) ([]*meritmodel.ClientEvaluation, error)
}

type DirectoryAPI interface {
	GuardExists(id string) (bool, error)
}
