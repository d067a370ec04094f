package models

import "time"

// Conversation states. A conversation in StatePendingAppointment carries the
// id of the hold that put it there; HoldID is unset for every other state.
const (
	StateActive             = "active"
	StateWaitingHuman       = "waiting_human"
	StateClosed             = "closed"
	StatePendingAppointment = "pending_appointment"
)

type ConversationStatus struct {
	InstanceID    string    `json:"instance_id"`
	ContactNumber string    `json:"contact_number"`
	State         string    `json:"state"`
	HoldID        *string   `json:"hold_id,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func ValidConversationState(state string) bool {
	switch state {
	case StateActive, StateWaitingHuman, StateClosed, StatePendingAppointment:
		return true
	default:
		return false
	}
}
