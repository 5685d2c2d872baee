package mission

import "time"

const (
	StatusAllocated = "allocated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Mission is the anchor row for one multi-resource allocation request.
// Shifts, firearm allocations and trips created by the same assignMission
// call reference it by ID; there are no date-based joins.
type Mission struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name                string    `json:"name" gorm:"column:name;not null"`
	Destination         string    `json:"destination" gorm:"column:destination;not null"`
	StartTime           time.Time `json:"start_time" gorm:"column:start_time;not null"`
	EndTime             time.Time `json:"end_time" gorm:"column:end_time;not null"`
	GuardsRequired      int       `json:"guards_required" gorm:"column:guards_required;not null"`
	FirearmsRequired    int       `json:"firearms_required" gorm:"column:firearms_required;not null"`
	VehiclesRequired    int       `json:"vehicles_required" gorm:"column:vehicles_required;not null"`
	Priority            *string   `json:"priority,omitempty" gorm:"column:priority"`
	SpecialRequirements *string   `json:"special_requirements,omitempty" gorm:"column:special_requirements"`
	Status              string    `json:"status" gorm:"column:status;default:allocated"`
	CreatedAt           time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Mission) TableName() string {
	return "missions"
}
