package replacement

import (
	"github.com/aegisops/guardops/internal"
)

type RequestReplacementDTO struct {
	OriginalGuardID    string `json:"original_guard_id"`
	ReplacementGuardID string `json:"replacement_guard_id"`
	ShiftID            string `json:"shift_id"`
}

func (dto RequestReplacementDTO) Validate() error {
	if dto.OriginalGuardID == "" {
		return internal.NewValidationFieldError("original_guard_id", "original_guard_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.ReplacementGuardID == "" {
		return internal.NewValidationFieldError("replacement_guard_id", "replacement_guard_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.OriginalGuardID == dto.ReplacementGuardID {
		return internal.NewValidationFieldError("replacement_guard_id", "replacement guard must differ from the original", internal.ErrCodeValidationFailed)
	}
	if dto.ShiftID == "" {
		return internal.NewValidationFieldError("shift_id", "shift_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type AcceptReplacementDTO struct {
	GuardID        string  `json:"guard_id"`
	ShiftID        string  `json:"shift_id"`
	NotificationID *string `json:"notification_id,omitempty"`
}

func (dto AcceptReplacementDTO) Validate() error {
	if dto.GuardID == "" {
		return internal.NewValidationFieldError("guard_id", "guard_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.ShiftID == "" {
		return internal.NewValidationFieldError("shift_id", "shift_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ScanResult summarizes one detector pass.
type ScanResult struct {
	ShiftsScanned     int `json:"shifts_scanned"`
	NoShowsMarked     int `json:"no_shows_marked"`
	NotificationsSent int `json:"notifications_sent"`
}
