package shift

import (
	"time"

	"github.com/aegisops/guardops/internal"
)

type CreateShiftDTO struct {
	GuardID    string    `json:"guard_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	ClientSite string    `json:"client_site"`
}

func (dto CreateShiftDTO) Validate() error {
	if dto.GuardID == "" {
		return internal.NewValidationFieldError("guard_id", "guard_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartTime.IsZero() || dto.EndTime.IsZero() {
		return internal.NewValidationFieldError("start_time", "start_time and end_time are required", internal.ErrCodeValidationFailed)
	}
	if !dto.StartTime.Before(dto.EndTime) {
		return internal.NewValidationFieldError("end_time", "end_time must be after start_time", internal.ErrCodeValidationFailed)
	}
	if dto.ClientSite == "" {
		return internal.NewValidationFieldError("client_site", "client_site is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateShiftDTO is a structured patch. Nil means the field is left
// alone; a present pointer overwrites. The distinction survives JSON
// decoding because absent keys leave the pointers nil.
type UpdateShiftDTO struct {
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	ClientSite *string    `json:"client_site,omitempty"`
	Status     *string    `json:"status,omitempty"`
}

func (dto UpdateShiftDTO) Validate() error {
	if dto.StartTime == nil && dto.EndTime == nil && dto.ClientSite == nil && dto.Status == nil {
		return internal.NewValidationError("at least one field must be set", internal.ErrCodeValidationFailed)
	}
	if dto.StartTime != nil && dto.EndTime != nil && !dto.StartTime.Before(*dto.EndTime) {
		return internal.NewValidationFieldError("end_time", "end_time must be after start_time", internal.ErrCodeValidationFailed)
	}
	if dto.ClientSite != nil && *dto.ClientSite == "" {
		return internal.NewValidationFieldError("client_site", "client_site cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Status != nil {
		switch *dto.Status {
		case "scheduled", "in_progress", "completed", "no_show":
		default:
			return internal.NewValidationFieldError("status", "invalid status", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

type CheckInDTO struct {
	GuardID string `json:"guard_id"`
	ShiftID string `json:"shift_id"`
}

func (dto CheckInDTO) Validate() error {
	if dto.GuardID == "" {
		return internal.NewValidationFieldError("guard_id", "guard_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.ShiftID == "" {
		return internal.NewValidationFieldError("shift_id", "shift_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
