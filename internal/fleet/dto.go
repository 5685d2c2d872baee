package fleet

import (
	"time"

	"github.com/aegisops/guardops/internal"
)

type AllocateCarDTO struct {
	CarID              string     `json:"car_id"`
	ClientID           string     `json:"client_id"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

func (dto AllocateCarDTO) Validate() error {
	if dto.CarID == "" {
		return internal.NewValidationFieldError("car_id", "car_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.ClientID == "" {
		return internal.NewValidationFieldError("client_id", "client_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CreateTripDTO struct {
	CarID       string    `json:"car_id"`
	DriverID    string    `json:"driver_id"`
	Destination string    `json:"destination"`
	StartTime   time.Time `json:"start_time"`
}

func (dto CreateTripDTO) Validate() error {
	if dto.CarID == "" {
		return internal.NewValidationFieldError("car_id", "car_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.DriverID == "" {
		return internal.NewValidationFieldError("driver_id", "driver_id is required", internal.ErrCodeValidationFailed)
	}
	if dto.Destination == "" {
		return internal.NewValidationFieldError("destination", "destination is required", internal.ErrCodeValidationFailed)
	}
	if dto.StartTime.IsZero() {
		return internal.NewValidationFieldError("start_time", "start_time is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type CompleteTripDTO struct {
	DistanceKm *float64 `json:"distance_km,omitempty"`
}
