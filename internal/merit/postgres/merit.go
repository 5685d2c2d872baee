package postgres

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aegisops/guardops/internal"
	meritmodel "github.com/aegisops/guardops/internal/core/datamodel/merit"
	shiftmodel "github.com/aegisops/guardops/internal/core/datamodel/shift"
	"github.com/aegisops/guardops/internal/merit"
)

// MeritRepository implements merit.RepositoryAPI using GORM
type MeritRepository struct {
	db *gorm.DB
}

func NewMeritRepository(db *gorm.DB) merit.RepositoryAPI {
	return &MeritRepository{db: db}
}

func (r *MeritRepository) ShiftCounts(guardID string) (merit.ShiftCounts, error) {
	var counts merit.ShiftCounts

	var total int64
	if err := r.db.Model(&shiftmodel.Shift{}).
		Where("guard_id = ?", guardID).
		Count(&total).Error; err != nil {
		return counts, err
	}

	var completed int64
	if err := r.db.Model(&shiftmodel.Shift{}).
		Where("guard_id = ? AND status = ?", guardID, shiftmodel.StatusCompleted).
		Count(&completed).Error; err != nil {
		return counts, err
	}

	counts.Total = int(total)
	counts.Completed = int(completed)
	return counts, nil
}

func (r *MeritRepository) PunctualityCounts(guardID string) (merit.PunctualityCounts, error) {
	var counts merit.PunctualityCounts

	rows := []struct {
		Status string
		N      int64
	}{}
	err := r.db.Model(&shiftmodel.PunctualityRecord{}).
		Select("status, count(*) as n").
		Where("guard_id = ?", guardID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return counts, err
	}

	for _, row := range rows {
		counts.Total += int(row.N)
		switch row.Status {
		case shiftmodel.PunctualityPresent:
			counts.OnTime += int(row.N)
		case shiftmodel.PunctualityLate:
			counts.Late += int(row.N)
		case shiftmodel.PunctualityNoShow:
			counts.NoShow += int(row.N)
		}
	}
	return counts, nil
}

func (r *MeritRepository) EvaluationStats(guardID string) (merit.EvaluationStats, error) {
	var stats merit.EvaluationStats

	row := struct {
		N   int64
		Avg *float64
	}{}
	err := r.db.Model(&meritmodel.ClientEvaluation{}).
		Select("count(*) as n, avg(rating) as avg").
		Where("guard_id = ?", guardID).
		Scan(&row).Error
	if err != nil {
		return stats, err
	}

	stats.Count = int(row.N)
	if row.Avg != nil {
		stats.Average = *row.Avg
	}
	return stats, nil
}

// UpsertScore keeps one row per guard keyed on guard_id.
func (r *MeritRepository) UpsertScore(score *meritmodel.Score) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "guard_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"attendance_score", "punctuality_score", "client_rating",
			"overall_score", "rank", "total_shifts_completed",
			"on_time_count", "late_count", "no_show_count",
			"average_client_rating", "evaluation_count",
			"last_calculated_at", "updated_at",
		}),
	}).Create(score).Error
}

func (r *MeritRepository) GetScore(guardID string) (*meritmodel.Score, error) {
	var score meritmodel.Score
	err := r.db.Where("guard_id = ?", guardID).First(&score).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrMeritScoreNotFound
		}
		return nil, err
	}
	return &score, nil
}

func (r *MeritRepository) RankedGuards() ([]*merit.RankedGuard, error) {
	var guards []*merit.RankedGuard
	err := r.db.Table("guard_merit_scores").
		Select(`guard_merit_scores.guard_id,
			users.username,
			users.full_name,
			guard_merit_scores.overall_score,
			guard_merit_scores.rank,
			CASE WHEN (guard_merit_scores.on_time_count + guard_merit_scores.late_count + guard_merit_scores.no_show_count) > 0
				THEN guard_merit_scores.on_time_count * 100.0 / (guard_merit_scores.on_time_count + guard_merit_scores.late_count + guard_merit_scores.no_show_count)
				ELSE 0 END as on_time_percentage`).
		Joins("JOIN users ON users.id = guard_merit_scores.guard_id").
		Order("guard_merit_scores.overall_score DESC, users.username ASC").
		Scan(&guards).Error
	return guards, err
}

func (r *MeritRepository) OvertimeCandidates(limit int) ([]*merit.RankedGuard, error) {
	var guards []*merit.RankedGuard
	err := r.db.Table("guard_merit_scores").
		Select(`guard_merit_scores.guard_id,
			users.username,
			users.full_name,
			guard_merit_scores.overall_score,
			guard_merit_scores.rank,
			CASE WHEN (guard_merit_scores.on_time_count + guard_merit_scores.late_count + guard_merit_scores.no_show_count) > 0
				THEN guard_merit_scores.on_time_count * 100.0 / (guard_merit_scores.on_time_count + guard_merit_scores.late_count + guard_merit_scores.no_show_count)
				ELSE 0 END as on_time_percentage`).
		Joins("JOIN users ON users.id = guard_merit_scores.guard_id").
		Where("guard_merit_scores.rank IN ?", []string{meritmodel.RankGold, meritmodel.RankSilver}).
		Order("guard_merit_scores.overall_score DESC, users.username ASC").
		Limit(limit).
		Scan(&guards).Error
	return guards, err
}

func (r *MeritRepository) CreateEvaluation(ev *meritmodel.ClientEvaluation) error {
	return r.db.Create(ev).Error
}

func (r *MeritRepository) GuardEvaluations(guardID string) ([]*meritmodel.ClientEvaluation, error) {
	var evals []*meritmodel.ClientEvaluation
	err := r.db.Where("guard_id = ?", guardID).
		Order("created_at DESC").
		Find(&evals).Error
	return evals, err
}
