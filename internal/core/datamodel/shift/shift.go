package shift

import "time"

const (
	StatusScheduled  = "scheduled"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusNoShow     = "no_show"
)

// Replacement search lifecycle on a shift. The transition searching →
// accepted is the single-winner conditional update in acceptReplacement.
const (
	ReplacementNotNeeded = "not_needed"
	ReplacementSearching = "searching"
	ReplacementAccepted  = "accepted"
)

const (
	AttendanceCheckedIn  = "checked_in"
	AttendanceCheckedOut = "checked_out"
)

const (
	PunctualityPresent = "present"
	PunctualityLate    = "late"
	PunctualityNoShow  = "no_show"
)

type Shift struct {
	ID                string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GuardID           string    `json:"guard_id" gorm:"column:guard_id;index;not null"`
	MissionID         *string   `json:"mission_id,omitempty" gorm:"column:mission_id;index"`
	StartTime         time.Time `json:"start_time" gorm:"column:start_time;not null"`
	EndTime           time.Time `json:"end_time" gorm:"column:end_time;not null"`
	ClientSite        string    `json:"client_site" gorm:"column:client_site;not null"`
	Status            string    `json:"status" gorm:"column:status;default:scheduled"`
	ReplacementStatus string    `json:"replacement_status" gorm:"column:replacement_status;default:not_needed"`
	CreatedAt         time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Shift) TableName() string {
	return "shifts"
}

type Attendance struct {
	ID           string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GuardID      string     `json:"guard_id" gorm:"column:guard_id;index;not null"`
	ShiftID      string     `json:"shift_id" gorm:"column:shift_id;index;not null"`
	CheckInTime  time.Time  `json:"check_in_time" gorm:"column:check_in_time;not null"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty" gorm:"column:check_out_time"`
	Status       string     `json:"status" gorm:"column:status;default:checked_in"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Attendance) TableName() string {
	return "attendance"
}

type PunctualityRecord struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GuardID            string     `json:"guard_id" gorm:"column:guard_id;index;not null"`
	ShiftID            string     `json:"shift_id" gorm:"column:shift_id;index;not null"`
	ScheduledStartTime time.Time  `json:"scheduled_start_time" gorm:"column:scheduled_start_time;not null"`
	ActualCheckInTime  *time.Time `json:"actual_check_in_time,omitempty" gorm:"column:actual_check_in_time"`
	MinutesLate        *int       `json:"minutes_late,omitempty" gorm:"column:minutes_late"`
	IsOnTime           bool       `json:"is_on_time" gorm:"column:is_on_time;default:true"`
	Status             string     `json:"status" gorm:"column:status;default:present"`
	CreatedAt          time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (PunctualityRecord) TableName() string {
	return "punctuality_records"
}
