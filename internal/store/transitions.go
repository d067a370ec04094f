package store

import "zapagenda/conversation-service/internal/models"

// Appointment lifecycle: staff may toggle pending<->confirmed; cancelled and
// completed are terminal.
var transitionMap = map[string][]string{
	"confirm":   {models.AppointmentPending},
	"unconfirm": {models.AppointmentConfirmed},
	"cancel":    {models.AppointmentPending, models.AppointmentConfirmed},
	"complete":  {models.AppointmentPending, models.AppointmentConfirmed},
}

// TargetStatus maps an action to the status it produces.
var TargetStatus = map[string]string{
	"confirm":   models.AppointmentConfirmed,
	"unconfirm": models.AppointmentPending,
	"cancel":    models.AppointmentCancelled,
	"complete":  models.AppointmentCompleted,
}

func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}

// AllowedFromStatuses returns the statuses an action may start from.
func AllowedFromStatuses(action string) []string {
	return transitionMap[action]
}
