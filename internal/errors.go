package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation            ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound              ErrorType = "NOT_FOUND"
	ErrorTypeForbidden             ErrorType = "FORBIDDEN"
	ErrorTypeConflict              ErrorType = "CONFLICT"
	ErrorTypeInsufficientResources ErrorType = "INSUFFICIENT_RESOURCES"
	ErrorTypeTransient             ErrorType = "TRANSIENT"
	ErrorTypeUnauthorized          ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal              ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidWindow    ErrorCode = "INVALID_TIME_WINDOW"
	ErrCodeInvalidRating    ErrorCode = "INVALID_RATING"

	ErrCodeGuardNotFound        ErrorCode = "GUARD_NOT_FOUND"
	ErrCodeFirearmNotFound      ErrorCode = "FIREARM_NOT_FOUND"
	ErrCodeVehicleNotFound      ErrorCode = "VEHICLE_NOT_FOUND"
	ErrCodeShiftNotFound        ErrorCode = "SHIFT_NOT_FOUND"
	ErrCodeAttendanceNotFound   ErrorCode = "ATTENDANCE_NOT_FOUND"
	ErrCodeAllocationNotFound   ErrorCode = "ALLOCATION_NOT_FOUND"
	ErrCodeTripNotFound         ErrorCode = "TRIP_NOT_FOUND"
	ErrCodeMissionNotFound      ErrorCode = "MISSION_NOT_FOUND"
	ErrCodeMeritScoreNotFound   ErrorCode = "MERIT_SCORE_NOT_FOUND"
	ErrCodeNotificationNotFound ErrorCode = "NOTIFICATION_NOT_FOUND"

	ErrCodeUnitUnavailable     ErrorCode = "UNIT_UNAVAILABLE"
	ErrCodeAlreadyReturned     ErrorCode = "ALLOCATION_ALREADY_RETURNED"
	ErrCodeAlreadyCheckedIn    ErrorCode = "ALREADY_CHECKED_IN"
	ErrCodeAlreadyCheckedOut   ErrorCode = "ALREADY_CHECKED_OUT"
	ErrCodeOverlappingShift    ErrorCode = "OVERLAPPING_SHIFT"
	ErrCodeShiftConflict       ErrorCode = "SHIFT_STATE_CONFLICT"
	ErrCodeReplacementResolved ErrorCode = "REPLACEMENT_ALREADY_ACCEPTED"

	ErrCodePermitRequired   ErrorCode = "PERMIT_REQUIRED"
	ErrCodeTrainingRequired ErrorCode = "TRAINING_REQUIRED"
	ErrCodeGuardNotEligible ErrorCode = "GUARD_NOT_ELIGIBLE"

	ErrCodeInsufficientGuards   ErrorCode = "INSUFFICIENT_GUARDS"
	ErrCodeInsufficientFirearms ErrorCode = "INSUFFICIENT_FIREARMS"
	ErrCodeInsufficientVehicles ErrorCode = "INSUFFICIENT_VEHICLES"

	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeInvalidToken     ErrorCode = "INVALID_TOKEN"
)

// AppError is the stable machine-readable error shape every operation
// returns on failure. Internal storage error text never reaches the
// Message field on NotFound/Forbidden/Conflict paths; it travels in
// Cause for logs only.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

// NewConflictError covers expected-path race losers: a reservation that
// found the unit taken, a replacement acceptance that arrived second.
// Callers can react (pick another unit) instead of treating it as a bug.
func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInsufficientResourcesError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeInsufficientResources,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewTransientError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeTransient,
		Code:       ErrCodeStoreUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Cause:      cause,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrGuardNotFound        = NewNotFoundError("Guard not found", ErrCodeGuardNotFound)
	ErrFirearmNotFound      = NewNotFoundError("Firearm not found", ErrCodeFirearmNotFound)
	ErrVehicleNotFound      = NewNotFoundError("Vehicle not found", ErrCodeVehicleNotFound)
	ErrShiftNotFound        = NewNotFoundError("Shift not found", ErrCodeShiftNotFound)
	ErrAttendanceNotFound   = NewNotFoundError("Attendance record not found", ErrCodeAttendanceNotFound)
	ErrAllocationNotFound   = NewNotFoundError("Allocation not found", ErrCodeAllocationNotFound)
	ErrTripNotFound         = NewNotFoundError("Trip not found", ErrCodeTripNotFound)
	ErrMissionNotFound      = NewNotFoundError("Mission not found", ErrCodeMissionNotFound)
	ErrMeritScoreNotFound   = NewNotFoundError("Merit score not found", ErrCodeMeritScoreNotFound)
	ErrNotificationNotFound = NewNotFoundError("Notification not found", ErrCodeNotificationNotFound)

	ErrUnitUnavailable     = NewConflictError("Resource unit is not available", ErrCodeUnitUnavailable)
	ErrAlreadyReturned     = NewConflictError("Allocation is already returned", ErrCodeAlreadyReturned)
	ErrAlreadyCheckedIn    = NewConflictError("Shift already has a check-in", ErrCodeAlreadyCheckedIn)
	ErrAlreadyCheckedOut   = NewConflictError("Attendance is already checked out", ErrCodeAlreadyCheckedOut)
	ErrOverlappingShift    = NewConflictError("Guard already holds a shift in this window", ErrCodeOverlappingShift)
	ErrReplacementResolved = NewConflictError("Replacement has already been accepted", ErrCodeReplacementResolved)

	ErrPermitRequired   = NewForbiddenError("Guard has no active firearm permit", ErrCodePermitRequired)
	ErrTrainingRequired = NewForbiddenError("Guard has no current firearms handling training", ErrCodeTrainingRequired)
	ErrGuardNotEligible = NewForbiddenError("Guard is not eligible for this assignment", ErrCodeGuardNotEligible)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
