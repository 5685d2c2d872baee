package merit

import (
	"github.com/aegisops/guardops/internal"
)

type SubmitEvaluationDTO struct {
	GuardID       string  `json:"guard_id"`
	ShiftID       *string `json:"shift_id,omitempty"`
	MissionID     *string `json:"mission_id,omitempty"`
	EvaluatorName string  `json:"evaluator_name"`
	EvaluatorRole *string `json:"evaluator_role,omitempty"`
	Rating        float64 `json:"rating"`
	Comment       *string `json:"comment,omitempty"`
}

func (dto SubmitEvaluationDTO) Validate() error {
	if dto.GuardID == "" {
		return internal.NewValidationFieldError("guard_id", "guard_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.EvaluatorName == "" {
		return internal.NewValidationFieldError("evaluator_name", "evaluator_name is required", internal.ErrCodeValidationFailed)
	}
	if dto.Rating < 0 || dto.Rating > 5 {
		return internal.NewValidationFieldError("rating", "rating must be between 0 and 5", internal.ErrCodeInvalidRating)
	}
	return nil
}
