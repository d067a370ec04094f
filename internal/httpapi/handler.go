package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"zapagenda/conversation-service/internal/engine"
	"zapagenda/conversation-service/internal/models"
	"zapagenda/conversation-service/internal/schedule"
	"zapagenda/conversation-service/internal/store"

	"github.com/google/uuid"
)

// Service is the engine surface the HTTP layer depends on.
type Service interface {
	HandleInbound(ctx context.Context, msg engine.InboundMessage) engine.InboundResult
	RegisterInteractiveMessage(instanceID, contact, messageID string, buttons []engine.Button)
	ConversationState(ctx context.Context, instanceID, contact string) models.ConversationStatus
	UpdateConversationState(ctx context.Context, instanceID, contact, state string) bool
	StorePendingHold(ctx context.Context, req engine.HoldRequest) (models.AppointmentHold, error)
	GetPendingHold(ctx context.Context, instanceID, contact string) (models.AppointmentHold, bool)
	ConfirmPendingHold(ctx context.Context, instanceID, contact string) (models.Appointment, error)
	CancelPendingHold(ctx context.Context, instanceID, contact string) error
	GetAvailableTimes(ctx context.Context, ownerUserID, date string, durationMinutes, dayStartHour, dayEndHour int) (schedule.Availability, error)
	SlotConfig(ctx context.Context, ownerUserID string) models.SlotConfig
	SetSlotConfig(ctx context.Context, config models.SlotConfig) error
	CheckCompatibility(ctx context.Context, ownerUserID string, services []schedule.ServiceDuration) schedule.CompatibilityReport
	CreateAppointment(ctx context.Context, input store.CreateAppointmentInput) (models.Appointment, error)
	GetAppointment(ctx context.Context, appointmentID, ownerUserID string) (models.Appointment, error)
	RescheduleAppointment(ctx context.Context, input store.RescheduleInput) (models.Appointment, error)
	SetAppointmentStatus(ctx context.Context, appointmentID, ownerUserID, action string) (models.Appointment, error)
	ListAppointmentsByDate(ctx context.Context, ownerUserID, date string) ([]models.Appointment, error)
	GetUserAppointments(ctx context.Context, instanceID, contact string) ([]models.Appointment, error)
}

type Handler struct {
	service      Service
	dayStartHour int
	dayEndHour   int
}

type Options struct {
	DayStartHour int
	DayEndHour   int
}

func NewHandler(service Service, options Options) *Handler {
	start := options.DayStartHour
	end := options.DayEndHour
	if start <= 0 || end <= start {
		start = schedule.DefaultDayStartHour
		end = schedule.DefaultDayEndHour
	}
	return &Handler{service: service, dayStartHour: start, dayEndHour: end}
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", h.handleHealth)
	mux.HandleFunc("/api/webhook/messages", h.handleWebhookMessage)
	mux.HandleFunc("/api/messages/interactive", h.handleInteractiveMessage)
	mux.HandleFunc("/api/conversations/status", h.handleConversationStatus)
	mux.HandleFunc("/api/holds", h.handleHolds)
	mux.HandleFunc("/api/holds/confirm", h.handleConfirmHold)
	mux.HandleFunc("/api/availability", h.handleAvailability)
	mux.HandleFunc("/api/slot-config", h.handleSlotConfig)
	mux.HandleFunc("/api/slot-config/compatibility", h.handleCompatibility)
	mux.HandleFunc("/api/appointments", h.handleAppointments)
	mux.HandleFunc("/api/appointments/", h.handleAppointmentActions)
	return mux
}

type errorResponse struct {
	Error responseError `json:"error"`
}

type responseError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleWebhookMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var msg engine.InboundMessage
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&msg); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	msg.InstanceID = strings.TrimSpace(msg.InstanceID)
	msg.From = strings.TrimSpace(msg.From)
	if msg.InstanceID == "" || msg.From == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "instance_id and from are required")
		return
	}

	writeJSON(w, http.StatusOK, h.service.HandleInbound(r.Context(), msg))
}

type interactiveMessageRequest struct {
	InstanceID    string          `json:"instance_id"`
	ContactNumber string          `json:"contact_number"`
	MessageID     string          `json:"message_id"`
	Buttons       []engine.Button `json:"buttons"`
}

func (h *Handler) handleInteractiveMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req interactiveMessageRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}

	req.InstanceID = strings.TrimSpace(req.InstanceID)
	req.ContactNumber = strings.TrimSpace(req.ContactNumber)
	if req.InstanceID == "" || req.ContactNumber == "" || len(req.Buttons) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "instance_id, contact_number, and buttons are required")
		return
	}

	h.service.RegisterInteractiveMessage(req.InstanceID, req.ContactNumber, req.MessageID, req.Buttons)
	w.WriteHeader(http.StatusNoContent)
}

type updateStatusRequest struct {
	InstanceID    string `json:"instance_id"`
	ContactNumber string `json:"contact_number"`
	State         string `json:"state"`
}

type updateStatusResponse struct {
	Applied bool   `json:"applied"`
	State   string `json:"state"`
}

func (h *Handler) handleConversationStatus(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		instanceID := strings.TrimSpace(r.URL.Query().Get("instance_id"))
		contact := strings.TrimSpace(r.URL.Query().Get("contact"))
		if instanceID == "" || contact == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "instance_id and contact are required")
			return
		}
		writeJSON(w, http.StatusOK, h.service.ConversationState(r.Context(), instanceID, contact))
	case http.MethodPut:
		var req updateStatusRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
			return
		}
		req.InstanceID = strings.TrimSpace(req.InstanceID)
		req.ContactNumber = strings.TrimSpace(req.ContactNumber)
		req.State = strings.TrimSpace(req.State)
		if req.InstanceID == "" || req.ContactNumber == "" || req.State == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "instance_id, contact_number, and state are required")
			return
		}
		if !models.ValidConversationState(req.State) {
			writeError(w, http.StatusBadRequest, "invalid_request", "unknown conversation state")
			return
		}
		// pending_appointment must reference a live hold; only the hold flow
		// may enter it.
		if req.State == models.StatePendingAppointment {
			writeError(w, http.StatusBadRequest, "invalid_request", "pending_appointment cannot be set directly; store a hold instead")
			return
		}

		applied := h.service.UpdateConversationState(r.Context(), req.InstanceID, req.ContactNumber, req.State)
		if !applied {
			writeJSON(w, http.StatusConflict, updateStatusResponse{Applied: false, State: req.State})
			return
		}
		writeJSON(w, http.StatusOK, updateStatusResponse{Applied: true, State: req.State})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleHolds(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req engine.HoldRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
			return
		}
		req.InstanceID = strings.TrimSpace(req.InstanceID)
		req.ContactNumber = strings.TrimSpace(req.ContactNumber)
		req.OwnerUserID = strings.TrimSpace(req.OwnerUserID)
		req.Date = strings.TrimSpace(req.Date)
		req.Time = strings.TrimSpace(req.Time)
		if req.InstanceID == "" || req.ContactNumber == "" || req.OwnerUserID == "" || req.Date == "" || req.Time == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "instance_id, contact_number, owner_user_id, date, and time are required")
			return
		}

		hold, err := h.service.StorePendingHold(r.Context(), req)
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, hold)
	case http.MethodGet:
		instanceID, contact, ok := holdKeyParams(w, r)
		if !ok {
			return
		}
		hold, found := h.service.GetPendingHold(r.Context(), instanceID, contact)
		if !found {
			writeError(w, http.StatusNotFound, "hold_not_found", "no pending appointment hold")
			return
		}
		writeJSON(w, http.StatusOK, hold)
	case http.MethodDelete:
		instanceID, contact, ok := holdKeyParams(w, r)
		if !ok {
			return
		}
		if err := h.service.CancelPendingHold(r.Context(), instanceID, contact); err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func holdKeyParams(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	instanceID := strings.TrimSpace(r.URL.Query().Get("instance_id"))
	contact := strings.TrimSpace(r.URL.Query().Get("contact"))
	if instanceID == "" || contact == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "instance_id and contact are required")
		return "", "", false
	}
	return instanceID, contact, true
}

type confirmHoldRequest struct {
	InstanceID    string `json:"instance_id"`
	ContactNumber string `json:"contact_number"`
}

func (h *Handler) handleConfirmHold(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req confirmHoldRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.InstanceID = strings.TrimSpace(req.InstanceID)
	req.ContactNumber = strings.TrimSpace(req.ContactNumber)
	if req.InstanceID == "" || req.ContactNumber == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "instance_id and contact_number are required")
		return
	}

	appointment, err := h.service.ConfirmPendingHold(r.Context(), req.InstanceID, req.ContactNumber)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func (h *Handler) handleAvailability(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ownerUserID := strings.TrimSpace(r.URL.Query().Get("owner_user_id"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if ownerUserID == "" || date == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "owner_user_id and date are required")
		return
	}

	start := h.dayStartHour
	end := h.dayEndHour
	var ok bool
	if start, ok = hourParam(w, r, "day_start_hour", start); !ok {
		return
	}
	if end, ok = hourParam(w, r, "day_end_hour", end); !ok {
		return
	}
	if end <= start {
		writeError(w, http.StatusBadRequest, "invalid_request", "day_end_hour must be after day_start_hour")
		return
	}

	duration := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("duration_minutes")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "duration_minutes must be a positive integer")
			return
		}
		duration = parsed
	}

	availability, err := h.service.GetAvailableTimes(r.Context(), ownerUserID, date, duration, start, end)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, availability)
}

func hourParam(w http.ResponseWriter, r *http.Request, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, true
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 || parsed > 24 {
		writeError(w, http.StatusBadRequest, "invalid_request", name+" must be an hour between 0 and 24")
		return 0, false
	}
	return parsed, true
}

func (h *Handler) handleSlotConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		ownerUserID := strings.TrimSpace(r.URL.Query().Get("owner_user_id"))
		if ownerUserID == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "owner_user_id is required")
			return
		}
		writeJSON(w, http.StatusOK, h.service.SlotConfig(r.Context(), ownerUserID))
	case http.MethodPut:
		var config models.SlotConfig
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&config); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
			return
		}
		config.OwnerUserID = strings.TrimSpace(config.OwnerUserID)
		if config.OwnerUserID == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "owner_user_id is required")
			return
		}

		if err := h.service.SetSlotConfig(r.Context(), config); err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, config)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

type compatibilityRequest struct {
	OwnerUserID string                     `json:"owner_user_id"`
	Services    []schedule.ServiceDuration `json:"services"`
}

func (h *Handler) handleCompatibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req compatibilityRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.OwnerUserID = strings.TrimSpace(req.OwnerUserID)
	if req.OwnerUserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "owner_user_id is required")
		return
	}

	writeJSON(w, http.StatusOK, h.service.CheckCompatibility(r.Context(), req.OwnerUserID, req.Services))
}

type createAppointmentRequest struct {
	OwnerUserID     string `json:"owner_user_id"`
	InstanceID      string `json:"instance_id,omitempty"`
	ContactNumber   string `json:"contact_number"`
	ContactName     string `json:"contact_name,omitempty"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Description     string `json:"description,omitempty"`
	Status          string `json:"status,omitempty"`
}

func (h *Handler) handleAppointments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req createAppointmentRequest
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
			return
		}
		req.OwnerUserID = strings.TrimSpace(req.OwnerUserID)
		req.ContactNumber = strings.TrimSpace(req.ContactNumber)
		req.Date = strings.TrimSpace(req.Date)
		req.StartTime = strings.TrimSpace(req.StartTime)
		if req.OwnerUserID == "" || req.ContactNumber == "" || req.Date == "" || req.StartTime == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "owner_user_id, contact_number, date, and start_time are required")
			return
		}

		appointment, err := h.service.CreateAppointment(r.Context(), store.CreateAppointmentInput{
			OwnerUserID:     req.OwnerUserID,
			InstanceID:      strings.TrimSpace(req.InstanceID),
			ContactNumber:   req.ContactNumber,
			ContactName:     strings.TrimSpace(req.ContactName),
			Date:            req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: req.DurationMinutes,
			Description:     req.Description,
			Status:          strings.TrimSpace(req.Status),
		})
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, appointment)
	case http.MethodGet:
		h.handleListAppointments(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleListAppointments serves the owner-by-date view used by the agenda and
// the contact view used by the conversation agent.
func (h *Handler) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	ownerUserID := strings.TrimSpace(r.URL.Query().Get("owner_user_id"))
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	instanceID := strings.TrimSpace(r.URL.Query().Get("instance_id"))
	contact := strings.TrimSpace(r.URL.Query().Get("contact"))

	switch {
	case ownerUserID != "" && date != "":
		appointments, err := h.service.ListAppointmentsByDate(r.Context(), ownerUserID, date)
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, appointments)
	case instanceID != "" && contact != "":
		appointments, err := h.service.GetUserAppointments(r.Context(), instanceID, contact)
		if err != nil {
			status, code, msg := mapError(err)
			writeError(w, status, code, msg)
			return
		}
		writeJSON(w, http.StatusOK, appointments)
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "owner_user_id+date or instance_id+contact are required")
	}
}

func (h *Handler) handleAppointmentActions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/appointments/")
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) == 1 && r.Method == http.MethodGet {
		h.handleGetAppointment(w, r, parts[0])
		return
	}
	if len(parts) != 3 || parts[1] != "actions" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	appointmentID := parts[0]
	action := parts[2]
	if !isValidUUID(appointmentID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "appointment_id must be a UUID")
		return
	}

	switch action {
	case "reschedule":
		h.handleReschedule(w, r, appointmentID)
	case "confirm", "unconfirm", "cancel", "complete":
		h.handleStatusAction(w, r, appointmentID, action)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *Handler) handleGetAppointment(w http.ResponseWriter, r *http.Request, appointmentID string) {
	ownerUserID := strings.TrimSpace(r.URL.Query().Get("owner_user_id"))
	if ownerUserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "owner_user_id is required")
		return
	}
	if !isValidUUID(appointmentID) {
		writeError(w, http.StatusBadRequest, "invalid_request", "appointment_id must be a UUID")
		return
	}

	appointment, err := h.service.GetAppointment(r.Context(), appointmentID, ownerUserID)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

type rescheduleRequest struct {
	OwnerUserID     string `json:"owner_user_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
}

func (h *Handler) handleReschedule(w http.ResponseWriter, r *http.Request, appointmentID string) {
	var req rescheduleRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.OwnerUserID = strings.TrimSpace(req.OwnerUserID)
	req.Date = strings.TrimSpace(req.Date)
	req.StartTime = strings.TrimSpace(req.StartTime)
	if req.OwnerUserID == "" || req.Date == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "owner_user_id and date are required")
		return
	}

	appointment, err := h.service.RescheduleAppointment(r.Context(), store.RescheduleInput{
		AppointmentID:   appointmentID,
		OwnerUserID:     req.OwnerUserID,
		Date:            req.Date,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

type statusActionRequest struct {
	OwnerUserID string `json:"owner_user_id"`
}

func (h *Handler) handleStatusAction(w http.ResponseWriter, r *http.Request, appointmentID, action string) {
	var req statusActionRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid JSON payload")
		return
	}
	req.OwnerUserID = strings.TrimSpace(req.OwnerUserID)
	if req.OwnerUserID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "owner_user_id is required")
		return
	}

	appointment, err := h.service.SetAppointmentStatus(r.Context(), appointmentID, req.OwnerUserID, action)
	if err != nil {
		status, code, msg := mapError(err)
		writeError(w, status, code, msg)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func isValidUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}

func mapError(err error) (int, string, string) {
	switch {
	case errors.Is(err, store.ErrInvalidDate):
		return http.StatusBadRequest, "invalid_date", "date must be DD/MM/YYYY or YYYY-MM-DD"
	case errors.Is(err, store.ErrInvalidTime):
		return http.StatusBadRequest, "invalid_time", "time must be HH:MM"
	case errors.Is(err, store.ErrInvalidDuration):
		return http.StatusBadRequest, "invalid_duration", "duration_minutes must be positive"
	case errors.Is(err, store.ErrSlotSizeOutOfRange):
		return http.StatusBadRequest, "slot_size_out_of_range", "slot_size_minutes must be between 5 and 60"
	case errors.Is(err, store.ErrBufferOutOfRange):
		return http.StatusBadRequest, "buffer_out_of_range", "buffer_minutes must be between 0 and 60"
	case errors.Is(err, store.ErrHoldNotFound):
		return http.StatusNotFound, "hold_not_found", "no pending appointment hold"
	case errors.Is(err, store.ErrAppointmentNotFound):
		return http.StatusNotFound, "appointment_not_found", "appointment not found"
	case errors.Is(err, store.ErrHoldExpired):
		return http.StatusConflict, "hold_expired", "the pending appointment hold has expired"
	case errors.Is(err, store.ErrInvalidState):
		return http.StatusConflict, "invalid_state", "appointment status does not allow this action"
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Error: responseError{
			Code:    code,
			Message: message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}
