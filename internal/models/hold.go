package models

import "time"

// AppointmentHold is a tentative reservation awaiting confirmation. At most one
// exists per (instance_id, contact_number); a hold past ExpiresAt is logically
// absent and removed on the next read.
type AppointmentHold struct {
	HoldID          string    `json:"hold_id"`
	InstanceID      string    `json:"instance_id"`
	ContactNumber   string    `json:"contact_number"`
	OwnerUserID     string    `json:"owner_user_id"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	DurationMinutes *int      `json:"duration_minutes,omitempty"`
	ServiceName     string    `json:"service_name"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

func (h AppointmentHold) Expired(now time.Time) bool {
	return !now.Before(h.ExpiresAt)
}
