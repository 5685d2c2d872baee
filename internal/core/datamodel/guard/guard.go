package guard

import "time"

const (
	RoleGuard = "guard"
	RoleAdmin = "admin"
)

// Guard is a row in the users table. The directory is owned by the
// user-management service; this engine only reads it, except for the
// availability opt-out which lives in its own table.
type Guard struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username    string    `json:"username" gorm:"column:username;not null"`
	FullName    *string   `json:"full_name,omitempty" gorm:"column:full_name"`
	Email       string    `json:"email" gorm:"column:email;not null"`
	PhoneNumber *string   `json:"phone_number,omitempty" gorm:"column:phone_number"`
	Role        string    `json:"role" gorm:"column:role;default:guard"`
	Verified    bool      `json:"verified" gorm:"column:verified;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Guard) TableName() string {
	return "users"
}

// Availability is a guard's explicit opt-out window. An existing row with
// Available=false excludes the guard from every candidate pool; absence of
// a row means default-available.
type Availability struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	GuardID       string     `json:"guard_id" gorm:"column:guard_id;uniqueIndex;not null"`
	Available     bool       `json:"available" gorm:"column:available;default:true"`
	AvailableFrom *time.Time `json:"available_from,omitempty" gorm:"column:available_from"`
	AvailableTo   *time.Time `json:"available_to,omitempty" gorm:"column:available_to"`
	Notes         *string    `json:"notes,omitempty" gorm:"column:notes"`
	CreatedAt     time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (Availability) TableName() string {
	return "guard_availability"
}
