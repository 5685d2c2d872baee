package armory

import (
	"time"

	"github.com/aegisops/guardops/internal"
)

// IssueFirearmDTO carries the issuance request. Force is an explicit
// parameter, never ambient state: a forced issuance is visible at every
// call site and is audited.
type IssueFirearmDTO struct {
	FirearmID          string     `json:"firearm_id"`
	GuardID            string     `json:"guard_id"`
	Force              bool       `json:"force,omitempty"`
	ForceReason        *string    `json:"force_reason,omitempty"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
}

func (dto IssueFirearmDTO) Validate() error {
	if dto.FirearmID == "" {
		return internal.NewValidationFieldError("firearm_id", "firearm_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.GuardID == "" {
		return internal.NewValidationFieldError("guard_id", "guard_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.Force && (dto.ForceReason == nil || *dto.ForceReason == "") {
		return internal.NewValidationFieldError("force_reason", "force_reason is required when force is set", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ReturnFirearmDTO struct {
	AllocationID string `json:"allocation_id"`
}

func (dto ReturnFirearmDTO) Validate() error {
	if dto.AllocationID == "" {
		return internal.NewValidationFieldError("allocation_id", "allocation_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
