// Package engine is the surface the webhook transport and the conversational
// agent call. It owns contact normalization, the conversation-status guard
// semantics and the hold lifecycle; persistence and slot arithmetic live in
// the store and schedule packages.
package engine

import (
	"context"
	"errors"
	"log"
	"time"

	"zapagenda/conversation-service/internal/models"
	"zapagenda/conversation-service/internal/phone"
	"zapagenda/conversation-service/internal/schedule"
	"zapagenda/conversation-service/internal/store"
)

const interactiveButtonReply = "interactive button reply"

type Engine struct {
	store       store.EngineStore
	phones      *phone.Normalizer
	holdTTL     time.Duration
	interactive *interactiveCache
	now         func() time.Time
}

type Options struct {
	CountryCode    string
	HoldTTL        time.Duration
	InteractiveTTL time.Duration
	Now            func() time.Time
}

func New(st store.EngineStore, options Options) *Engine {
	now := options.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Engine{
		store:       st,
		phones:      phone.NewNormalizer(options.CountryCode),
		holdTTL:     options.HoldTTL,
		interactive: newInteractiveCache(options.InteractiveTTL),
		now:         now,
	}
}

type InboundMessage struct {
	InstanceID          string `json:"instance_id"`
	From                string `json:"from"`
	To                  string `json:"to"`
	Body                string `json:"body"`
	MessageID           string `json:"message_id"`
	TimestampSeconds    int64  `json:"timestamp_seconds"`
	Type                string `json:"type"`
	ContactName         string `json:"contact_name,omitempty"`
	MediaURL            string `json:"media_url,omitempty"`
	InteractiveButtonID string `json:"interactive_button_id,omitempty"`
}

type InboundResult struct {
	ContactNumber string                    `json:"contact_number"`
	Status        models.ConversationStatus `json:"status"`
	ButtonID      string                    `json:"button_id,omitempty"`
}

// HandleInbound resolves the contact, lazily creates the conversation record
// and resolves interactive button replies. Store failures on this path are
// logged and degraded, never surfaced: losing a reply to the user is worse
// than defaulting to active for one turn.
func (e *Engine) HandleInbound(ctx context.Context, msg InboundMessage) InboundResult {
	canonical := e.phones.Normalize(msg.From)
	now := e.now()

	if err := e.store.EnsureConversation(ctx, msg.InstanceID, canonical, now); err != nil {
		log.Printf("ensure conversation instance=%s contact=%s: %v", msg.InstanceID, canonical, err)
	}

	status := e.ConversationState(ctx, msg.InstanceID, msg.From)

	result := InboundResult{ContactNumber: canonical, Status: status}
	if msg.Type == interactiveButtonReply {
		result.ButtonID = e.resolveButton(msg.InstanceID, canonical, msg.InteractiveButtonID, msg.Body)
	}
	return result
}

// resolveButton falls back to the recorded button list of the originating
// interactive message when the provider does not echo a stable id.
func (e *Engine) resolveButton(instanceID, contact, buttonID, body string) string {
	if buttonID != "" {
		return buttonID
	}
	if id, ok := e.interactive.match(instanceID, contact, body, e.now()); ok {
		return id
	}
	return ""
}

// RegisterInteractiveMessage records the buttons of an outbound interactive
// message so later replies resolve. The cache is best effort; the durable
// stores never depend on it.
func (e *Engine) RegisterInteractiveMessage(instanceID, contact, messageID string, buttons []Button) {
	canonical := e.phones.Normalize(contact)
	e.interactive.put(instanceID, canonical, messageID, buttons, e.now())
}

// ConversationState defaults to active when the record is absent or the store
// read fails.
func (e *Engine) ConversationState(ctx context.Context, instanceID, contact string) models.ConversationStatus {
	keys := e.phones.LookupKeys(contact)
	status, err := e.store.GetConversationState(ctx, instanceID, keys)
	if err != nil {
		log.Printf("get conversation state instance=%s contact=%s: %v", instanceID, keys[0], err)
		return models.ConversationStatus{
			InstanceID:    instanceID,
			ContactNumber: keys[0],
			State:         models.StateActive,
		}
	}
	return status
}

// UpdateConversationState applies a guarded status write. The returned bool
// reports whether the write took effect; it is false while a live hold governs
// the conversation. StatePendingAppointment is refused outright: that state
// must reference a live hold, and only StoreHold creates one. Store errors are
// logged, not fatal (state stays unknown and reads default to active).
func (e *Engine) UpdateConversationState(ctx context.Context, instanceID, contact, state string) bool {
	if state == models.StatePendingAppointment {
		return false
	}
	keys := e.phones.LookupKeys(contact)
	applied, err := e.store.UpdateConversationState(ctx, instanceID, keys, state, e.now())
	if err != nil {
		log.Printf("update conversation state instance=%s contact=%s state=%s: %v", instanceID, keys[0], state, err)
		return false
	}
	return applied
}

func (e *Engine) RequestHumanHandoff(ctx context.Context, instanceID, contact string) bool {
	return e.UpdateConversationState(ctx, instanceID, contact, models.StateWaitingHuman)
}

func (e *Engine) CloseConversation(ctx context.Context, instanceID, contact string) bool {
	return e.UpdateConversationState(ctx, instanceID, contact, models.StateClosed)
}

func (e *Engine) ReopenConversation(ctx context.Context, instanceID, contact string) bool {
	return e.UpdateConversationState(ctx, instanceID, contact, models.StateActive)
}

type HoldRequest struct {
	InstanceID      string `json:"instance_id"`
	ContactNumber   string `json:"contact_number"`
	OwnerUserID     string `json:"owner_user_id"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	ServiceName     string `json:"service_name"`
	Description     string `json:"description,omitempty"`
}

// StorePendingHold validates and upserts the contact's single hold. Write
// failures propagate: swallowing one would let the user believe a booking is
// in flight when it is not.
func (e *Engine) StorePendingHold(ctx context.Context, req HoldRequest) (models.AppointmentHold, error) {
	if _, err := schedule.ParseDate(req.Date); err != nil {
		return models.AppointmentHold{}, err
	}
	if _, err := schedule.ParseClock(req.Time); err != nil {
		return models.AppointmentHold{}, err
	}
	if req.DurationMinutes != nil && *req.DurationMinutes <= 0 {
		return models.AppointmentHold{}, store.ErrInvalidDuration
	}

	return e.store.StoreHold(ctx, store.StoreHoldInput{
		InstanceID:      req.InstanceID,
		ContactNumber:   e.phones.Normalize(req.ContactNumber),
		OwnerUserID:     req.OwnerUserID,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: req.DurationMinutes,
		ServiceName:     req.ServiceName,
		Description:     req.Description,
		Now:             e.now(),
		TTL:             e.holdTTL,
	})
}

// GetPendingHold degrades store read failures to "no hold found".
func (e *Engine) GetPendingHold(ctx context.Context, instanceID, contact string) (models.AppointmentHold, bool) {
	keys := e.phones.LookupKeys(contact)
	hold, err := e.store.GetHold(ctx, instanceID, keys, e.now())
	if err != nil {
		if !errors.Is(err, store.ErrHoldNotFound) {
			log.Printf("get hold instance=%s contact=%s: %v", instanceID, keys[0], err)
		}
		return models.AppointmentHold{}, false
	}
	return hold, true
}

// ConfirmPendingHold converts the hold into a pending appointment. The two
// failure modes stay distinct: ErrHoldExpired tells the agent to restart the
// booking, ErrHoldNotFound that none was ever created.
func (e *Engine) ConfirmPendingHold(ctx context.Context, instanceID, contact string) (models.Appointment, error) {
	keys := e.phones.LookupKeys(contact)
	return e.store.ConfirmHold(ctx, instanceID, keys, e.now())
}

// CancelPendingHold clears the hold and returns the conversation to active.
// Absence of a hold is not an error.
func (e *Engine) CancelPendingHold(ctx context.Context, instanceID, contact string) error {
	keys := e.phones.LookupKeys(contact)
	return e.store.ClearHold(ctx, instanceID, keys, models.StateActive, e.now())
}

// CheckAvailability reports whether the day has at least one slot a booking
// of durationMinutes fits into.
func (e *Engine) CheckAvailability(ctx context.Context, ownerUserID, date string, durationMinutes, dayStartHour, dayEndHour int) (bool, error) {
	availability, err := e.GetAvailableTimes(ctx, ownerUserID, date, durationMinutes, dayStartHour, dayEndHour)
	if err != nil {
		return false, err
	}
	return len(availability.AvailableTimes) > 0, nil
}

// GetAvailableTimes lists free and occupied slots. A positive durationMinutes
// narrows the available list to start slots the requested booking fits into;
// zero lists every free slot.
func (e *Engine) GetAvailableTimes(ctx context.Context, ownerUserID, date string, durationMinutes, dayStartHour, dayEndHour int) (schedule.Availability, error) {
	normalized, err := schedule.NormalizeDate(date)
	if err != nil {
		return schedule.Availability{}, err
	}

	config := e.slotConfig(ctx, ownerUserID)
	appointments, err := e.store.ListAppointmentsByDate(ctx, ownerUserID, normalized)
	if err != nil {
		return schedule.Availability{}, err
	}

	availability := schedule.AvailableTimes(config, appointments, durationMinutes, schedule.DefaultStepMinutes, dayStartHour, dayEndHour)
	availability.Date = normalized
	return availability, nil
}

func (e *Engine) GetUserAppointments(ctx context.Context, instanceID, contact string) ([]models.Appointment, error) {
	keys := e.phones.LookupKeys(contact)
	return e.store.ListAppointmentsByContact(ctx, instanceID, keys)
}

// CreateAppointment is the direct booking path used by the panel, bypassing
// the hold flow.
func (e *Engine) CreateAppointment(ctx context.Context, input store.CreateAppointmentInput) (models.Appointment, error) {
	input.ContactNumber = e.phones.Normalize(input.ContactNumber)
	if input.Now.IsZero() {
		input.Now = e.now()
	}
	return e.store.CreateAppointment(ctx, input)
}

func (e *Engine) GetAppointment(ctx context.Context, appointmentID, ownerUserID string) (models.Appointment, error) {
	return e.store.GetAppointment(ctx, appointmentID, ownerUserID)
}

func (e *Engine) RescheduleAppointment(ctx context.Context, input store.RescheduleInput) (models.Appointment, error) {
	if input.Now.IsZero() {
		input.Now = e.now()
	}
	return e.store.RescheduleAppointment(ctx, input)
}

func (e *Engine) SetAppointmentStatus(ctx context.Context, appointmentID, ownerUserID, action string) (models.Appointment, error) {
	return e.store.SetAppointmentStatus(ctx, appointmentID, ownerUserID, action, e.now())
}

func (e *Engine) ListAppointmentsByDate(ctx context.Context, ownerUserID, date string) ([]models.Appointment, error) {
	normalized, err := schedule.NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	return e.store.ListAppointmentsByDate(ctx, ownerUserID, normalized)
}

// SlotConfig degrades to the defaults when the tenant has no configuration or
// the read fails.
func (e *Engine) SlotConfig(ctx context.Context, ownerUserID string) models.SlotConfig {
	return e.slotConfig(ctx, ownerUserID)
}

func (e *Engine) slotConfig(ctx context.Context, ownerUserID string) models.SlotConfig {
	config, err := e.store.GetSlotConfig(ctx, ownerUserID)
	if err != nil {
		log.Printf("get slot config owner=%s: %v", ownerUserID, err)
		return models.DefaultSlotConfig(ownerUserID)
	}
	return config
}

func (e *Engine) SetSlotConfig(ctx context.Context, config models.SlotConfig) error {
	if err := schedule.ValidateSlotConfig(config); err != nil {
		return err
	}
	return e.store.SetSlotConfig(ctx, config)
}

func (e *Engine) CheckCompatibility(ctx context.Context, ownerUserID string, services []schedule.ServiceDuration) schedule.CompatibilityReport {
	return schedule.CheckCompatibility(e.slotConfig(ctx, ownerUserID), services)
}

func (e *Engine) SweepExpiredHolds(ctx context.Context) (int, error) {
	return e.store.SweepExpiredHolds(ctx, e.now())
}

// Normalize exposes the canonical contact form for callers that key their own
// lookups on it.
func (e *Engine) Normalize(contact string) string {
	return e.phones.Normalize(contact)
}
