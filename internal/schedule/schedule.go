// Package schedule holds the pure slot arithmetic: the availability grid, the
// service/slot-size compatibility check and the calendar parsing shared by the
// stores and the HTTP surface.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"zapagenda/conversation-service/internal/models"
	"zapagenda/conversation-service/internal/store"
)

const (
	// DefaultStepMinutes is the grid step of the base availability listing.
	DefaultStepMinutes = 30

	DefaultDayStartHour = 8
	DefaultDayEndHour   = 18

	isoDateLayout   = "2006-01-02"
	localDateLayout = "02/01/2006"
	clockLayout     = "15:04"
)

// ParseDate accepts the provider-local DD/MM/YYYY form and ISO YYYY-MM-DD.
func ParseDate(raw string) (time.Time, error) {
	for _, layout := range []string{isoDateLayout, localDateLayout} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, store.ErrInvalidDate
}

// NormalizeDate returns the ISO form used as the stored value.
func NormalizeDate(raw string) (string, error) {
	parsed, err := ParseDate(raw)
	if err != nil {
		return "", err
	}
	return parsed.Format(isoDateLayout), nil
}

// ParseClock returns minutes since midnight for an HH:MM string.
func ParseClock(raw string) (int, error) {
	parsed, err := time.Parse(clockLayout, raw)
	if err != nil {
		return 0, store.ErrInvalidTime
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

type Availability struct {
	Date           string   `json:"date"`
	AvailableTimes []string `json:"available_times"`
	OccupiedTimes  []string `json:"occupied_times"`
}

// AvailableTimes builds the slot grid between dayStartHour and dayEndHour and
// stamps the slots covered by each pending or confirmed appointment as
// occupied. An appointment occupies ceil((duration+buffer)/step) slots from its
// start slot; slots past the end of day are simply not marked. A day with no
// appointments returns the full grid.
//
// durationMinutes is the length of the booking the caller wants to place: when
// positive, the available list keeps only start slots whose
// ceil(duration/step) following slots are all free and inside the day. Zero
// lists every free slot.
func AvailableTimes(cfg models.SlotConfig, appointments []models.Appointment, durationMinutes, stepMinutes, dayStartHour, dayEndHour int) Availability {
	if stepMinutes <= 0 {
		stepMinutes = DefaultStepMinutes
	}
	if dayStartHour < 0 || dayEndHour <= dayStartHour {
		dayStartHour = DefaultDayStartHour
		dayEndHour = DefaultDayEndHour
	}

	dayStart := dayStartHour * 60
	dayEnd := dayEndHour * 60
	slotCount := (dayEnd - dayStart) / stepMinutes

	occupied := make([]bool, slotCount)
	for _, appt := range appointments {
		if models.TerminalAppointmentStatus(appt.Status) {
			continue
		}
		start, err := ParseClock(appt.StartTime)
		if err != nil {
			continue
		}
		duration := appt.DurationMinutes
		if duration <= 0 {
			duration = models.DefaultAppointmentMinutes
		}
		span := duration + cfg.BufferMinutes
		slots := (span + stepMinutes - 1) / stepMinutes
		first := (start - dayStart) / stepMinutes
		for i := first; i < first+slots; i++ {
			if i < 0 || i >= slotCount {
				continue
			}
			occupied[i] = true
		}
	}

	need := 1
	if durationMinutes > 0 {
		need = (durationMinutes + stepMinutes - 1) / stepMinutes
	}

	result := Availability{AvailableTimes: []string{}, OccupiedTimes: []string{}}
	for i := 0; i < slotCount; i++ {
		label := FormatClock(dayStart + i*stepMinutes)
		if occupied[i] {
			result.OccupiedTimes = append(result.OccupiedTimes, label)
			continue
		}
		if fits(occupied, i, need) {
			result.AvailableTimes = append(result.AvailableTimes, label)
		}
	}
	return result
}

// fits reports whether need consecutive slots starting at i are free and
// inside the day.
func fits(occupied []bool, i, need int) bool {
	if i+need > len(occupied) {
		return false
	}
	for j := i; j < i+need; j++ {
		if occupied[j] {
			return false
		}
	}
	return true
}

type ServiceDuration struct {
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

type CompatibilityReport struct {
	SlotSizeMinutes      int               `json:"slot_size_minutes"`
	IncompatibleServices []ServiceDuration `json:"incompatible_services"`
}

// CheckCompatibility flags services whose configured duration is not an
// integer multiple of the slot size. Services without a configured duration
// are skipped. This is a warning surface, not a booking-time gate.
func CheckCompatibility(cfg models.SlotConfig, services []ServiceDuration) CompatibilityReport {
	report := CompatibilityReport{
		SlotSizeMinutes:      cfg.SlotSizeMinutes,
		IncompatibleServices: []ServiceDuration{},
	}
	for _, svc := range services {
		if svc.DurationMinutes <= 0 {
			continue
		}
		if svc.DurationMinutes%cfg.SlotSizeMinutes != 0 {
			report.IncompatibleServices = append(report.IncompatibleServices, svc)
		}
	}
	sort.Slice(report.IncompatibleServices, func(i, j int) bool {
		return report.IncompatibleServices[i].Name < report.IncompatibleServices[j].Name
	})
	return report
}

// ValidateSlotConfig enforces the 5-60 slot size and 0-60 buffer bounds.
func ValidateSlotConfig(cfg models.SlotConfig) error {
	if cfg.SlotSizeMinutes < models.MinSlotSizeMinutes || cfg.SlotSizeMinutes > models.MaxSlotSizeMinutes {
		return store.ErrSlotSizeOutOfRange
	}
	if cfg.BufferMinutes < models.MinBufferMinutes || cfg.BufferMinutes > models.MaxBufferMinutes {
		return store.ErrBufferOutOfRange
	}
	return nil
}
