package store

import (
	"context"
	"time"

	"zapagenda/conversation-service/internal/models"
)

type StoreHoldInput struct {
	InstanceID      string
	ContactNumber   string
	OwnerUserID     string
	Date            string
	Time            string
	DurationMinutes *int
	ServiceName     string
	Description     string
	Now             time.Time
	TTL             time.Duration
}

type CreateAppointmentInput struct {
	OwnerUserID     string
	InstanceID      string
	ContactNumber   string
	ContactName     string
	Date            string
	StartTime       string
	DurationMinutes int
	Description     string
	Status          string
	Now             time.Time
}

type RescheduleInput struct {
	AppointmentID   string
	OwnerUserID     string
	Date            string
	StartTime       string
	DurationMinutes *int
	Now             time.Time
}

type ConversationStore interface {
	// EnsureConversation lazily creates the record with state active. It is
	// idempotent and safe to call on every inbound message.
	EnsureConversation(ctx context.Context, instanceID, contactNumber string, now time.Time) error
	// GetConversationState never reports absence as an error; a missing record
	// reads as active.
	GetConversationState(ctx context.Context, instanceID string, contactKeys []string) (models.ConversationStatus, error)
	// UpdateConversationState is a guarded write: while a live hold exists
	// under any of the contact keys the update is suppressed and the returned
	// bool is false. The write itself targets contactKeys[0], the canonical
	// form.
	UpdateConversationState(ctx context.Context, instanceID string, contactKeys []string, state string, now time.Time) (bool, error)
}

type HoldStore interface {
	// StoreHold upserts the single hold for the contact and flips the
	// conversation state to pending_appointment in the same transaction.
	StoreHold(ctx context.Context, input StoreHoldInput) (models.AppointmentHold, error)
	// GetHold tries contactKeys in order; an expired hold is deleted in place
	// and reported as ErrHoldNotFound.
	GetHold(ctx context.Context, instanceID string, contactKeys []string, now time.Time) (models.AppointmentHold, error)
	// ClearHold deletes the hold (absence is not an error) and resets the
	// conversation state in the same transaction.
	ClearHold(ctx context.Context, instanceID string, contactKeys []string, nextState string, now time.Time) error
	// ConfirmHold materializes the hold into a pending appointment, deletes
	// the hold and resets the conversation state, all in one transaction.
	// Distinguishes ErrHoldExpired from ErrHoldNotFound.
	ConfirmHold(ctx context.Context, instanceID string, contactKeys []string, now time.Time) (models.Appointment, error)
	SweepExpiredHolds(ctx context.Context, now time.Time) (int, error)
}

type SlotConfigStore interface {
	GetSlotConfig(ctx context.Context, ownerUserID string) (models.SlotConfig, error)
	SetSlotConfig(ctx context.Context, config models.SlotConfig) error
}

type AppointmentStore interface {
	CreateAppointment(ctx context.Context, input CreateAppointmentInput) (models.Appointment, error)
	GetAppointment(ctx context.Context, appointmentID, ownerUserID string) (models.Appointment, error)
	RescheduleAppointment(ctx context.Context, input RescheduleInput) (models.Appointment, error)
	SetAppointmentStatus(ctx context.Context, appointmentID, ownerUserID, action string, now time.Time) (models.Appointment, error)
	ListAppointmentsByDate(ctx context.Context, ownerUserID, date string) ([]models.Appointment, error)
	ListAppointmentsByContact(ctx context.Context, instanceID string, contactKeys []string) ([]models.Appointment, error)
}

type EngineStore interface {
	ConversationStore
	HoldStore
	SlotConfigStore
	AppointmentStore
}
