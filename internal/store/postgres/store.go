package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"zapagenda/conversation-service/internal/models"
	"zapagenda/conversation-service/internal/schedule"
	"zapagenda/conversation-service/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultHoldTTL = time.Hour

type Store struct {
	pool    *pgxpool.Pool
	holdTTL time.Duration
}

type Options struct {
	HoldTTL time.Duration
}

func NewStore(pool *pgxpool.Pool, options Options) *Store {
	ttl := options.HoldTTL
	if ttl <= 0 {
		ttl = defaultHoldTTL
	}
	return &Store{pool: pool, holdTTL: ttl}
}

func (s *Store) EnsureConversation(ctx context.Context, instanceID, contactNumber string, now time.Time) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO conversation_status (instance_id, contact_number, state, hold_id, updated_at)
		VALUES ($1, $2, $3, NULL, $4)
		ON CONFLICT (instance_id, contact_number) DO NOTHING
	`, instanceID, contactNumber, models.StateActive, now)
	return err
}

func (s *Store) GetConversationState(ctx context.Context, instanceID string, contactKeys []string) (models.ConversationStatus, error) {
	for _, key := range contactKeys {
		var status models.ConversationStatus
		var holdIDNull sql.NullString
		row := s.pool.QueryRow(ctx, `
			SELECT instance_id, contact_number, state, hold_id, updated_at
			FROM conversation_status
			WHERE instance_id = $1 AND contact_number = $2
		`, instanceID, key)
		if err := row.Scan(&status.InstanceID, &status.ContactNumber, &status.State, &holdIDNull, &status.UpdatedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return models.ConversationStatus{}, err
		}
		status.HoldID = nullStringPtr(holdIDNull)
		return status, nil
	}
	contact := ""
	if len(contactKeys) > 0 {
		contact = contactKeys[0]
	}
	return models.ConversationStatus{
		InstanceID:    instanceID,
		ContactNumber: contact,
		State:         models.StateActive,
	}, nil
}

// UpdateConversationState is the guarded write: a live hold under any contact
// key suppresses the update in the same statement that would apply it, so an
// unrelated status change can never clobber an in-flight booking. The hold
// row, not the status field, is what arms the guard; a stale
// pending_appointment status whose hold has expired does not block updates.
// The guard spans the full key list so holds written under a legacy key still
// arm it; the write targets the canonical key.
func (s *Store) UpdateConversationState(ctx context.Context, instanceID string, contactKeys []string, state string, now time.Time) (bool, error) {
	if len(contactKeys) == 0 {
		return false, nil
	}
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO conversation_status (instance_id, contact_number, state, hold_id, updated_at)
		SELECT $1, $2, $3, NULL, $4
		WHERE NOT EXISTS (
			SELECT 1 FROM appointment_holds
			WHERE instance_id = $1 AND contact_number = ANY($5) AND expires_at > $4
		)
		ON CONFLICT (instance_id, contact_number) DO UPDATE
		SET state = EXCLUDED.state,
			hold_id = NULL,
			updated_at = EXCLUDED.updated_at
	`, instanceID, contactKeys[0], state, now, contactKeys)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) StoreHold(ctx context.Context, input store.StoreHoldInput) (models.AppointmentHold, error) {
	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.holdTTL
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.AppointmentHold{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	hold := models.AppointmentHold{
		HoldID:          uuid.NewString(),
		InstanceID:      input.InstanceID,
		ContactNumber:   input.ContactNumber,
		OwnerUserID:     input.OwnerUserID,
		Date:            input.Date,
		Time:            input.Time,
		DurationMinutes: input.DurationMinutes,
		ServiceName:     input.ServiceName,
		Description:     input.Description,
		CreatedAt:       now,
		ExpiresAt:       now.Add(ttl),
	}

	// Upsert keyed by the unique pair: a second hold for the same contact
	// replaces the first instead of accumulating.
	row := tx.QueryRow(ctx, `
		INSERT INTO appointment_holds (
			hold_id, instance_id, contact_number, owner_user_id, date, time,
			duration_minutes, service_name, description, created_at, expires_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (instance_id, contact_number) DO UPDATE
		SET hold_id = EXCLUDED.hold_id,
			owner_user_id = EXCLUDED.owner_user_id,
			date = EXCLUDED.date,
			time = EXCLUDED.time,
			duration_minutes = EXCLUDED.duration_minutes,
			service_name = EXCLUDED.service_name,
			description = EXCLUDED.description,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
		RETURNING hold_id
	`, hold.HoldID, hold.InstanceID, hold.ContactNumber, hold.OwnerUserID, hold.Date, hold.Time,
		hold.DurationMinutes, hold.ServiceName, hold.Description, hold.CreatedAt, hold.ExpiresAt)
	if err = row.Scan(&hold.HoldID); err != nil {
		return models.AppointmentHold{}, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO conversation_status (instance_id, contact_number, state, hold_id, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (instance_id, contact_number) DO UPDATE
		SET state = EXCLUDED.state,
			hold_id = EXCLUDED.hold_id,
			updated_at = EXCLUDED.updated_at
	`, hold.InstanceID, hold.ContactNumber, models.StatePendingAppointment, hold.HoldID, now)
	if err != nil {
		return models.AppointmentHold{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.AppointmentHold{}, err
	}
	return hold, nil
}

func (s *Store) GetHold(ctx context.Context, instanceID string, contactKeys []string, now time.Time) (models.AppointmentHold, error) {
	for _, key := range contactKeys {
		hold, found, err := s.lookupHold(ctx, instanceID, key)
		if err != nil {
			return models.AppointmentHold{}, err
		}
		if !found {
			continue
		}
		if hold.Expired(now) {
			// Purge in place so later reads stay consistently absent.
			if _, err := s.pool.Exec(ctx, `DELETE FROM appointment_holds WHERE hold_id = $1`, hold.HoldID); err != nil {
				return models.AppointmentHold{}, err
			}
			continue
		}
		return hold, nil
	}
	return models.AppointmentHold{}, store.ErrHoldNotFound
}

func (s *Store) lookupHold(ctx context.Context, instanceID, contactNumber string) (models.AppointmentHold, bool, error) {
	var hold models.AppointmentHold
	var durationNull sql.NullInt32
	row := s.pool.QueryRow(ctx, `
		SELECT hold_id, instance_id, contact_number, owner_user_id, date, time,
			duration_minutes, service_name, description, created_at, expires_at
		FROM appointment_holds
		WHERE instance_id = $1 AND contact_number = $2
	`, instanceID, contactNumber)
	if err := row.Scan(&hold.HoldID, &hold.InstanceID, &hold.ContactNumber, &hold.OwnerUserID, &hold.Date, &hold.Time,
		&durationNull, &hold.ServiceName, &hold.Description, &hold.CreatedAt, &hold.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AppointmentHold{}, false, nil
		}
		return models.AppointmentHold{}, false, err
	}
	hold.DurationMinutes = nullIntPtr(durationNull)
	return hold, true, nil
}

func (s *Store) ClearHold(ctx context.Context, instanceID string, contactKeys []string, nextState string, now time.Time) error {
	if nextState == "" {
		nextState = models.StateActive
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx, `
		DELETE FROM appointment_holds
		WHERE instance_id = $1 AND contact_number = ANY($2)
	`, instanceID, contactKeys)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE conversation_status
		SET state = $3, hold_id = NULL, updated_at = $4
		WHERE instance_id = $1 AND contact_number = ANY($2) AND state = $5
	`, instanceID, contactKeys, nextState, now, models.StatePendingAppointment)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) ConfirmHold(ctx context.Context, instanceID string, contactKeys []string, now time.Time) (models.Appointment, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Appointment{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var found models.AppointmentHold
	var durationNull sql.NullInt32
	row := tx.QueryRow(ctx, `
		SELECT hold_id, instance_id, contact_number, owner_user_id, date, time,
			duration_minutes, service_name, description, created_at, expires_at
		FROM appointment_holds
		WHERE instance_id = $1 AND contact_number = ANY($2)
		ORDER BY created_at DESC
		LIMIT 1
		FOR UPDATE
	`, instanceID, contactKeys)
	if err = row.Scan(&found.HoldID, &found.InstanceID, &found.ContactNumber, &found.OwnerUserID, &found.Date, &found.Time,
		&durationNull, &found.ServiceName, &found.Description, &found.CreatedAt, &found.ExpiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
			if commitErr := tx.Commit(ctx); commitErr != nil {
				return models.Appointment{}, commitErr
			}
			return models.Appointment{}, store.ErrHoldNotFound
		}
		return models.Appointment{}, err
	}
	found.DurationMinutes = nullIntPtr(durationNull)

	if found.Expired(now) {
		// Purge the dead hold and release the status before reporting the
		// distinct expired outcome, so the agent can restart the booking.
		if _, err = tx.Exec(ctx, `DELETE FROM appointment_holds WHERE hold_id = $1`, found.HoldID); err != nil {
			return models.Appointment{}, err
		}
		if err = resetStatus(ctx, tx, instanceID, found.ContactNumber, found.HoldID, now); err != nil {
			return models.Appointment{}, err
		}
		if err = tx.Commit(ctx); err != nil {
			return models.Appointment{}, err
		}
		return models.Appointment{}, store.ErrHoldExpired
	}

	date, dateErr := schedule.NormalizeDate(found.Date)
	if dateErr != nil {
		err = dateErr
		return models.Appointment{}, err
	}
	duration := models.DefaultAppointmentMinutes
	if found.DurationMinutes != nil && *found.DurationMinutes > 0 {
		duration = *found.DurationMinutes
	}

	appointment := models.Appointment{
		AppointmentID:   uuid.NewString(),
		OwnerUserID:     found.OwnerUserID,
		InstanceID:      &found.InstanceID,
		ContactNumber:   found.ContactNumber,
		Date:            date,
		StartTime:       found.Time,
		DurationMinutes: duration,
		Description:     appointmentDescription(found),
		Status:          models.AppointmentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO appointments (
			appointment_id, owner_user_id, instance_id, contact_number, contact_name,
			date, start_time, duration_minutes, description, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, appointment.AppointmentID, appointment.OwnerUserID, appointment.InstanceID, appointment.ContactNumber,
		appointment.ContactName, appointment.Date, appointment.StartTime, appointment.DurationMinutes,
		appointment.Description, appointment.Status, appointment.CreatedAt, appointment.UpdatedAt)
	if err != nil {
		return models.Appointment{}, err
	}

	if _, err = tx.Exec(ctx, `DELETE FROM appointment_holds WHERE hold_id = $1`, found.HoldID); err != nil {
		return models.Appointment{}, err
	}
	if err = resetStatus(ctx, tx, instanceID, found.ContactNumber, found.HoldID, now); err != nil {
		return models.Appointment{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Appointment{}, err
	}
	return appointment, nil
}

func resetStatus(ctx context.Context, tx pgx.Tx, instanceID, contactNumber, holdID string, now time.Time) error {
	_, err := tx.Exec(ctx, `
		UPDATE conversation_status
		SET state = $4, hold_id = NULL, updated_at = $5
		WHERE instance_id = $1 AND contact_number = $2
			AND state = $3 AND (hold_id = $6 OR hold_id IS NULL)
	`, instanceID, contactNumber, models.StatePendingAppointment, models.StateActive, now, holdID)
	return err
}

func (s *Store) SweepExpiredHolds(ctx context.Context, now time.Time) (int, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	rows, err := tx.Query(ctx, `
		DELETE FROM appointment_holds
		WHERE expires_at <= $1
		RETURNING hold_id, instance_id, contact_number
	`, now)
	if err != nil {
		return 0, err
	}

	type swept struct {
		holdID   string
		instance string
		contact  string
	}
	var removed []swept
	for rows.Next() {
		var item swept
		if err = rows.Scan(&item.holdID, &item.instance, &item.contact); err != nil {
			rows.Close()
			return 0, err
		}
		removed = append(removed, item)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	// Downgrade statuses orphaned by the sweep. Matching on hold_id keeps a
	// status governed by a newer live hold untouched.
	for _, item := range removed {
		if err = resetStatus(ctx, tx, item.instance, item.contact, item.holdID, now); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, err
	}
	return len(removed), nil
}

func (s *Store) GetSlotConfig(ctx context.Context, ownerUserID string) (models.SlotConfig, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO slot_config (owner_user_id, slot_size_minutes, buffer_minutes, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_user_id) DO NOTHING
	`, ownerUserID, models.DefaultSlotSizeMinutes, models.DefaultBufferMinutes, time.Now().UTC())
	if err != nil {
		return models.SlotConfig{}, err
	}

	config := models.SlotConfig{OwnerUserID: ownerUserID}
	row := s.pool.QueryRow(ctx, `
		SELECT slot_size_minutes, buffer_minutes
		FROM slot_config
		WHERE owner_user_id = $1
	`, ownerUserID)
	if err := row.Scan(&config.SlotSizeMinutes, &config.BufferMinutes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DefaultSlotConfig(ownerUserID), nil
		}
		return models.SlotConfig{}, err
	}
	return config, nil
}

func (s *Store) SetSlotConfig(ctx context.Context, config models.SlotConfig) error {
	if config.SlotSizeMinutes < models.MinSlotSizeMinutes || config.SlotSizeMinutes > models.MaxSlotSizeMinutes {
		return store.ErrSlotSizeOutOfRange
	}
	if config.BufferMinutes < models.MinBufferMinutes || config.BufferMinutes > models.MaxBufferMinutes {
		return store.ErrBufferOutOfRange
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO slot_config (owner_user_id, slot_size_minutes, buffer_minutes, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (owner_user_id) DO UPDATE
		SET slot_size_minutes = EXCLUDED.slot_size_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			updated_at = EXCLUDED.updated_at
	`, config.OwnerUserID, config.SlotSizeMinutes, config.BufferMinutes, time.Now().UTC())
	return err
}

func (s *Store) CreateAppointment(ctx context.Context, input store.CreateAppointmentInput) (models.Appointment, error) {
	date, err := schedule.NormalizeDate(input.Date)
	if err != nil {
		return models.Appointment{}, err
	}
	if _, err := schedule.ParseClock(input.StartTime); err != nil {
		return models.Appointment{}, err
	}
	duration := input.DurationMinutes
	if duration <= 0 {
		duration = models.DefaultAppointmentMinutes
	}
	status := input.Status
	if status == "" {
		status = models.AppointmentPending
	}
	switch status {
	case models.AppointmentPending, models.AppointmentConfirmed, models.AppointmentCancelled, models.AppointmentCompleted:
	default:
		return models.Appointment{}, store.ErrInvalidState
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	appointment := models.Appointment{
		AppointmentID:   uuid.NewString(),
		OwnerUserID:     input.OwnerUserID,
		ContactNumber:   input.ContactNumber,
		ContactName:     input.ContactName,
		Date:            date,
		StartTime:       input.StartTime,
		DurationMinutes: duration,
		Description:     input.Description,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if input.InstanceID != "" {
		appointment.InstanceID = &input.InstanceID
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO appointments (
			appointment_id, owner_user_id, instance_id, contact_number, contact_name,
			date, start_time, duration_minutes, description, status, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
	`, appointment.AppointmentID, appointment.OwnerUserID, appointment.InstanceID, appointment.ContactNumber,
		appointment.ContactName, appointment.Date, appointment.StartTime, appointment.DurationMinutes,
		appointment.Description, appointment.Status, appointment.CreatedAt, appointment.UpdatedAt)
	if err != nil {
		return models.Appointment{}, err
	}
	return appointment, nil
}

const appointmentColumns = `appointment_id, owner_user_id, instance_id, contact_number, contact_name,
	date, start_time, end_date, duration_minutes, description, status, created_at, updated_at, completed_at`

func (s *Store) GetAppointment(ctx context.Context, appointmentID, ownerUserID string) (models.Appointment, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE appointment_id = $1 AND owner_user_id = $2
	`, appointmentID, ownerUserID)
	appointment, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Appointment{}, store.ErrAppointmentNotFound
		}
		return models.Appointment{}, err
	}
	return appointment, nil
}

// RescheduleAppointment re-verifies ownership inside the mutating statement
// itself; there is no separate lookup a concurrent request could race past.
func (s *Store) RescheduleAppointment(ctx context.Context, input store.RescheduleInput) (models.Appointment, error) {
	date, err := schedule.NormalizeDate(input.Date)
	if err != nil {
		return models.Appointment{}, err
	}
	if input.StartTime != "" {
		if _, err := schedule.ParseClock(input.StartTime); err != nil {
			return models.Appointment{}, err
		}
	}
	if input.DurationMinutes != nil && *input.DurationMinutes <= 0 {
		return models.Appointment{}, store.ErrInvalidDuration
	}
	now := input.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Appointment{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `
		UPDATE appointments
		SET date = $3,
			start_time = CASE WHEN $4 = '' THEN start_time ELSE $4 END,
			duration_minutes = COALESCE($5, duration_minutes),
			updated_at = $6
		WHERE appointment_id = $1 AND owner_user_id = $2
			AND status IN ('pending', 'confirmed')
		RETURNING `+appointmentColumns+`
	`, input.AppointmentID, input.OwnerUserID, date, input.StartTime, input.DurationMinutes, now)
	appointment, scanErr := scanAppointment(row)
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			err = classifyMissedUpdate(ctx, tx, input.AppointmentID, input.OwnerUserID)
			return models.Appointment{}, err
		}
		err = scanErr
		return models.Appointment{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Appointment{}, err
	}
	return appointment, nil
}

func (s *Store) SetAppointmentStatus(ctx context.Context, appointmentID, ownerUserID, action string, now time.Time) (models.Appointment, error) {
	target, ok := store.TargetStatus[action]
	if !ok {
		return models.Appointment{}, store.ErrInvalidState
	}
	allowed := store.AllowedFromStatuses(action)
	if now.IsZero() {
		now = time.Now().UTC()
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return models.Appointment{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	query := `
		UPDATE appointments
		SET status = $3, updated_at = $4
		WHERE appointment_id = $1 AND owner_user_id = $2 AND status = ANY($5)
		RETURNING ` + appointmentColumns
	if action == "complete" {
		query = `
		UPDATE appointments
		SET status = $3, updated_at = $4, completed_at = $4
		WHERE appointment_id = $1 AND owner_user_id = $2 AND status = ANY($5)
		RETURNING ` + appointmentColumns
	}

	row := tx.QueryRow(ctx, query, appointmentID, ownerUserID, target, now, allowed)
	appointment, scanErr := scanAppointment(row)
	if scanErr != nil {
		if errors.Is(scanErr, pgx.ErrNoRows) {
			err = classifyMissedUpdate(ctx, tx, appointmentID, ownerUserID)
			return models.Appointment{}, err
		}
		err = scanErr
		return models.Appointment{}, err
	}

	if err = tx.Commit(ctx); err != nil {
		return models.Appointment{}, err
	}
	return appointment, nil
}

// classifyMissedUpdate distinguishes "not yours / absent" from "state does not
// allow this" after a conditional update matched nothing.
func classifyMissedUpdate(ctx context.Context, tx pgx.Tx, appointmentID, ownerUserID string) error {
	var status string
	row := tx.QueryRow(ctx, `
		SELECT status FROM appointments
		WHERE appointment_id = $1 AND owner_user_id = $2
	`, appointmentID, ownerUserID)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.ErrAppointmentNotFound
		}
		return err
	}
	return store.ErrInvalidState
}

func (s *Store) ListAppointmentsByDate(ctx context.Context, ownerUserID, date string) ([]models.Appointment, error) {
	normalized, err := schedule.NormalizeDate(date)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE owner_user_id = $1 AND date = $2
		ORDER BY start_time ASC
	`, ownerUserID, normalized)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

func (s *Store) ListAppointmentsByContact(ctx context.Context, instanceID string, contactKeys []string) ([]models.Appointment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE instance_id = $1 AND contact_number = ANY($2)
		ORDER BY date ASC, start_time ASC
	`, instanceID, contactKeys)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAppointments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAppointment(row rowScanner) (models.Appointment, error) {
	var appointment models.Appointment
	var instanceNull sql.NullString
	var contactNameNull sql.NullString
	var endDateNull sql.NullString
	var descriptionNull sql.NullString
	var completedNull sql.NullTime
	if err := row.Scan(&appointment.AppointmentID, &appointment.OwnerUserID, &instanceNull, &appointment.ContactNumber,
		&contactNameNull, &appointment.Date, &appointment.StartTime, &endDateNull, &appointment.DurationMinutes,
		&descriptionNull, &appointment.Status, &appointment.CreatedAt, &appointment.UpdatedAt, &completedNull); err != nil {
		return models.Appointment{}, err
	}
	appointment.InstanceID = nullStringPtr(instanceNull)
	if contactNameNull.Valid {
		appointment.ContactName = contactNameNull.String
	}
	appointment.EndDate = nullStringPtr(endDateNull)
	if descriptionNull.Valid {
		appointment.Description = descriptionNull.String
	}
	appointment.CompletedAt = nullTimePtr(completedNull)
	return appointment, nil
}

func collectAppointments(rows pgx.Rows) ([]models.Appointment, error) {
	var appointments []models.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return appointments, nil
}

func appointmentDescription(hold models.AppointmentHold) string {
	if hold.Description != "" {
		return hold.Description
	}
	return hold.ServiceName
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	v := value.Time
	return &v
}

func nullIntPtr(value sql.NullInt32) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int32)
	return &v
}
