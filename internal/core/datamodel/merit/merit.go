package merit

import "time"

const (
	RankGold     = "Gold"
	RankSilver   = "Silver"
	RankBronze   = "Bronze"
	RankStandard = "Standard"
)

// Score is derived, never authoritative: one row per guard, recomputed
// from attendance, punctuality and evaluation history on each calculation.
type Score struct {
	ID                   string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GuardID              string     `json:"guard_id" gorm:"column:guard_id;uniqueIndex;not null"`
	AttendanceScore      float64    `json:"attendance_score" gorm:"column:attendance_score;default:0"`
	PunctualityScore     float64    `json:"punctuality_score" gorm:"column:punctuality_score;default:0"`
	ClientRating         float64    `json:"client_rating" gorm:"column:client_rating;default:0"`
	OverallScore         float64    `json:"overall_score" gorm:"column:overall_score;default:0"`
	Rank                 string     `json:"rank" gorm:"column:rank"`
	TotalShiftsCompleted int        `json:"total_shifts_completed" gorm:"column:total_shifts_completed;default:0"`
	OnTimeCount          int        `json:"on_time_count" gorm:"column:on_time_count;default:0"`
	LateCount            int        `json:"late_count" gorm:"column:late_count;default:0"`
	NoShowCount          int        `json:"no_show_count" gorm:"column:no_show_count;default:0"`
	AverageClientRating  float64    `json:"average_client_rating" gorm:"column:average_client_rating;default:0"`
	EvaluationCount      int        `json:"evaluation_count" gorm:"column:evaluation_count;default:0"`
	LastCalculatedAt     *time.Time `json:"last_calculated_at,omitempty" gorm:"column:last_calculated_at"`
	CreatedAt            time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Score) TableName() string {
	return "guard_merit_scores"
}

type ClientEvaluation struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GuardID       string    `json:"guard_id" gorm:"column:guard_id;index;not null"`
	ShiftID       *string   `json:"shift_id,omitempty" gorm:"column:shift_id"`
	MissionID     *string   `json:"mission_id,omitempty" gorm:"column:mission_id"`
	EvaluatorName string    `json:"evaluator_name" gorm:"column:evaluator_name;not null"`
	EvaluatorRole *string   `json:"evaluator_role,omitempty" gorm:"column:evaluator_role"`
	Rating        float64   `json:"rating" gorm:"column:rating;not null"`
	Comment       *string   `json:"comment,omitempty" gorm:"column:comment"`
	CreatedAt     time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ClientEvaluation) TableName() string {
	return "client_evaluations"
}
