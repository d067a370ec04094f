package models

import "time"

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
	AppointmentCompleted = "completed"

	DefaultAppointmentMinutes = 60
)

type Appointment struct {
	AppointmentID   string     `json:"appointment_id"`
	OwnerUserID     string     `json:"owner_user_id"`
	InstanceID      *string    `json:"instance_id,omitempty"`
	ContactNumber   string     `json:"contact_number"`
	ContactName     string     `json:"contact_name,omitempty"`
	Date            string     `json:"date"`
	StartTime       string     `json:"start_time"`
	EndDate         *string    `json:"end_date,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

func TerminalAppointmentStatus(status string) bool {
	return status == AppointmentCancelled || status == AppointmentCompleted
}
