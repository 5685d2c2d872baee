package mission

import (
	"time"

	"github.com/aegisops/guardops/internal"
)

type AssignMissionDTO struct {
	Name                string    `json:"name"`
	Destination         string    `json:"destination"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	GuardsRequired      int       `json:"guards_required"`
	FirearmsRequired    int       `json:"firearms_required"`
	VehiclesRequired    int       `json:"vehicles_required"`
	Priority            *string   `json:"priority,omitempty"`
	SpecialRequirements *string   `json:"special_requirements,omitempty"`
}

func (dto AssignMissionDTO) Validate() error {
	if dto.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if dto.Destination == "" {
		return internal.NewValidationFieldError("destination", "destination is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartTime.IsZero() || dto.EndTime.IsZero() {
		return internal.NewValidationFieldError("start_time", "start_time and end_time are required", internal.ErrCodeValidationFailed)
	}
	if !dto.StartTime.Before(dto.EndTime) {
		return internal.NewValidationFieldError("end_time", "end_time must be after start_time", internal.ErrCodeInvalidWindow)
	}
	if dto.GuardsRequired < 1 {
		return internal.NewValidationFieldError("guards_required", "at least one guard is required", internal.ErrCodeValidationFailed)
	}
	if dto.FirearmsRequired < 0 || dto.VehiclesRequired < 0 {
		return internal.NewValidationFieldError("firearms_required", "resource counts cannot be negative", internal.ErrCodeValidationFailed)
	}
	if dto.FirearmsRequired > dto.GuardsRequired {
		return internal.NewValidationFieldError("firearms_required", "cannot issue more firearms than guards", internal.ErrCodeValidationFailed)
	}
	return nil
}
