package guard

import (
	"time"

	guardmodel "github.com/aegisops/guardops/internal/core/datamodel/guard"
)

// RepositoryAPI is the data access surface for the guard directory. The
// users table is owned by the user-management service; everything here is
// read-only except the availability opt-out.
type RepositoryAPI interface {
	GetByID(id string) (*guardmodel.Guard, error)
	Exists(id string) (bool, error)
	IsVerified(id string) (bool, error)
	GetAvailability(guardID string) (*guardmodel.Availability, error)
	UpsertAvailability(av *guardmodel.Availability) error
}

// SetAvailabilityDTO is the request for a guard's explicit opt-in/out.
// Pointer fields distinguish absent from null: an absent window means
// the flag applies indefinitely.
type SetAvailabilityDTO struct {
	Available     bool       `json:"available"`
	AvailableFrom *time.Time `json:"available_from,omitempty"`
	AvailableTo   *time.Time `json:"available_to,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
}
