package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeAuthorizationOverridden = "authorization.overridden"
	EventTypeNoShowDetected          = "shift.no_show_detected"
	EventTypeReplacementAccepted     = "shift.replacement_accepted"
	EventTypeMissionAllocated        = "mission.allocated"
)

// AuthorizationOverriddenEvent is the audit trail for a forced firearm
// issuance that bypassed the permit/training gate. Emitting it is
// mandatory whenever force is set.
type AuthorizationOverriddenEvent struct {
	BaseEvent
	GuardID    string `json:"guard_id"`
	FirearmID  string `json:"firearm_id"`
	OperatorID string `json:"operator_id"`
	Reason     string `json:"reason"`
}

func NewAuthorizationOverriddenEvent(guardID, firearmID, operatorID, reason string) *AuthorizationOverriddenEvent {
	return &AuthorizationOverriddenEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeAuthorizationOverridden,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"guard_id":    guardID,
				"firearm_id":  firearmID,
				"operator_id": operatorID,
				"reason":      reason,
			},
		},
		GuardID:    guardID,
		FirearmID:  firearmID,
		OperatorID: operatorID,
		Reason:     reason,
	}
}

type NoShowDetectedEvent struct {
	BaseEvent
	ShiftID         string `json:"shift_id"`
	GuardID         string `json:"guard_id"`
	CandidatesFound int    `json:"candidates_found"`
}

func NewNoShowDetectedEvent(shiftID, guardID string, candidatesFound int) *NoShowDetectedEvent {
	return &NoShowDetectedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeNoShowDetected,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"shift_id":         shiftID,
				"guard_id":         guardID,
				"candidates_found": candidatesFound,
			},
		},
		ShiftID:         shiftID,
		GuardID:         guardID,
		CandidatesFound: candidatesFound,
	}
}

type ReplacementAcceptedEvent struct {
	BaseEvent
	ShiftID            string `json:"shift_id"`
	ReplacementGuardID string `json:"replacement_guard_id"`
}

func NewReplacementAcceptedEvent(shiftID, replacementGuardID string) *ReplacementAcceptedEvent {
	return &ReplacementAcceptedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeReplacementAccepted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"shift_id":             shiftID,
				"replacement_guard_id": replacementGuardID,
			},
		},
		ShiftID:            shiftID,
		ReplacementGuardID: replacementGuardID,
	}
}

type MissionAllocatedEvent struct {
	BaseEvent
	MissionID string `json:"mission_id"`
	Guards    int    `json:"guards"`
	Firearms  int    `json:"firearms"`
	Vehicles  int    `json:"vehicles"`
}

func NewMissionAllocatedEvent(missionID string, guards, firearms, vehicles int) *MissionAllocatedEvent {
	return &MissionAllocatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeMissionAllocated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"mission_id": missionID,
				"guards":     guards,
				"firearms":   firearms,
				"vehicles":   vehicles,
			},
		},
		MissionID: missionID,
		Guards:    guards,
		Firearms:  firearms,
		Vehicles:  vehicles,
	}
}
