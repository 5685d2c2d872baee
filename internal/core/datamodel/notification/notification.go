package notification

import "time"

const (
	TypeInfo        = "info"
	TypeReplacement = "replacement_request"
)

type Notification struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"user_id" gorm:"column:user_id;index;not null"`
	Title          string    `json:"title" gorm:"column:title;not null"`
	Message        string    `json:"message" gorm:"column:message;not null"`
	Type           string    `json:"type" gorm:"column:type;default:info"`
	RelatedShiftID *string   `json:"related_shift_id,omitempty" gorm:"column:related_shift_id;index"`
	Read           bool      `json:"read" gorm:"column:read;default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}
