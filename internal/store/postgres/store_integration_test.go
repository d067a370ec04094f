package postgres

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"zapagenda/conversation-service/internal/models"
	"zapagenda/conversation-service/internal/store"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func TestStoreHoldReplacesExistingHold(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	now := time.Now().UTC()
	first, err := st.StoreHold(ctx, holdInput("inst-1", "5511999990000", "owner-1", "2025-12-10", "09:00", now))
	if err != nil {
		t.Fatalf("store first hold: %v", err)
	}
	second, err := st.StoreHold(ctx, holdInput("inst-1", "5511999990000", "owner-1", "2025-12-11", "14:00", now.Add(time.Minute)))
	if err != nil {
		t.Fatalf("store second hold: %v", err)
	}
	if first.HoldID == second.HoldID {
		t.Fatalf("expected replacement to issue a new hold id")
	}

	var count int
	row := pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment_holds WHERE instance_id = $1 AND contact_number = $2`, "inst-1", "5511999990000")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count holds: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected single hold per contact, got %d", count)
	}

	hold, err := st.GetHold(ctx, "inst-1", []string{"5511999990000"}, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("get hold: %v", err)
	}
	if hold.Date != "2025-12-11" || hold.Time != "14:00" {
		t.Fatalf("expected replacement payload, got %s %s", hold.Date, hold.Time)
	}

	status, err := st.GetConversationState(ctx, "inst-1", []string{"5511999990000"})
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if status.State != models.StatePendingAppointment {
		t.Fatalf("expected pending_appointment state, got %q", status.State)
	}
	if status.HoldID == nil || *status.HoldID != second.HoldID {
		t.Fatalf("expected status to carry hold id %s, got %v", second.HoldID, status.HoldID)
	}
}

func TestGetHoldPurgesExpired(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	now := time.Now().UTC()
	if _, err := st.StoreHold(ctx, holdInput("inst-1", "5511999990000", "owner-1", "2025-12-10", "09:00", now)); err != nil {
		t.Fatalf("store hold: %v", err)
	}

	if _, err := st.GetHold(ctx, "inst-1", []string{"5511999990000"}, now.Add(2*time.Hour)); !errors.Is(err, store.ErrHoldNotFound) {
		t.Fatalf("expected ErrHoldNotFound for expired hold, got %v", err)
	}

	var count int
	row := pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment_holds`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count holds: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired hold to be purged on read, got %d rows", count)
	}
}

func TestUpdateConversationStateGuardedByLiveHold(t *testing.T) {
	ctx := context.Background()
	st, _, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	now := time.Now().UTC()
	if err := st.EnsureConversation(ctx, "inst-1", "5511999990000", now); err != nil {
		t.Fatalf("ensure conversation: %v", err)
	}
	if _, err := st.StoreHold(ctx, holdInput("inst-1", "5511999990000", "owner-1", "2025-12-10", "09:00", now)); err != nil {
		t.Fatalf("store hold: %v", err)
	}

	applied, err := st.UpdateConversationState(ctx, "inst-1", []string{"5511999990000"}, models.StateClosed, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if applied {
		t.Fatal("expected update to be suppressed while hold is live")
	}

	status, err := st.GetConversationState(ctx, "inst-1", []string{"5511999990000"})
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if status.State != models.StatePendingAppointment {
		t.Fatalf("suppressed update must not change state, got %q", status.State)
	}

	if err := st.ClearHold(ctx, "inst-1", []string{"5511999990000"}, models.StateActive, now.Add(time.Minute)); err != nil {
		t.Fatalf("clear hold: %v", err)
	}
	applied, err = st.UpdateConversationState(ctx, "inst-1", []string{"5511999990000"}, models.StateClosed, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("update after clear: %v", err)
	}
	if !applied {
		t.Fatal("expected update to apply once hold is gone")
	}
}

func TestUpdateConversationStateGuardCoversContactVariants(t *testing.T) {
	ctx := context.Background()
	st, _, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	// Hold stored under the bare local form, update keyed by the canonical
	// form plus variants. The guard must still see the hold.
	now := time.Now().UTC()
	if _, err := st.StoreHold(ctx, holdInput("inst-1", "11999990000", "owner-1", "2025-12-10", "09:00", now)); err != nil {
		t.Fatalf("store hold: %v", err)
	}

	applied, err := st.UpdateConversationState(ctx, "inst-1", []string{"5511999990000", "11999990000"}, models.StateClosed, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("guarded update: %v", err)
	}
	if applied {
		t.Fatal("expected update to be suppressed by the hold under the variant key")
	}
}

func TestConfirmHoldCreatesPendingAppointment(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	now := time.Now().UTC()
	input := holdInput("inst-1", "5511999990000", "owner-1", "10/12/2025", "09:30", now)
	input.ServiceName = "Corte"
	if _, err := st.StoreHold(ctx, input); err != nil {
		t.Fatalf("store hold: %v", err)
	}

	appointment, err := st.ConfirmHold(ctx, "inst-1", []string{"5511999990000"}, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("confirm hold: %v", err)
	}
	if appointment.Status != models.AppointmentPending {
		t.Fatalf("expected pending appointment, got %q", appointment.Status)
	}
	if appointment.Date != "2025-12-10" {
		t.Fatalf("expected normalized date, got %q", appointment.Date)
	}
	if appointment.StartTime != "09:30" {
		t.Fatalf("expected start time 09:30, got %q", appointment.StartTime)
	}
	if appointment.DurationMinutes != models.DefaultAppointmentMinutes {
		t.Fatalf("expected default duration, got %d", appointment.DurationMinutes)
	}

	var count int
	row := pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment_holds`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count holds: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected hold to be consumed, got %d rows", count)
	}

	status, err := st.GetConversationState(ctx, "inst-1", []string{"5511999990000"})
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if status.State != models.StateActive {
		t.Fatalf("expected state reset to active, got %q", status.State)
	}

	if _, err := st.ConfirmHold(ctx, "inst-1", []string{"5511999990000"}, now.Add(2*time.Minute)); !errors.Is(err, store.ErrHoldNotFound) {
		t.Fatalf("expected ErrHoldNotFound on second confirm, got %v", err)
	}
}

func TestConfirmHoldExpired(t *testing.T) {
	ctx := context.Background()
	st, pool, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	now := time.Now().UTC()
	if _, err := st.StoreHold(ctx, holdInput("inst-1", "5511999990000", "owner-1", "2025-12-10", "09:00", now)); err != nil {
		t.Fatalf("store hold: %v", err)
	}

	if _, err := st.ConfirmHold(ctx, "inst-1", []string{"5511999990000"}, now.Add(2*time.Hour)); !errors.Is(err, store.ErrHoldExpired) {
		t.Fatalf("expected ErrHoldExpired, got %v", err)
	}

	var count int
	row := pool.QueryRow(ctx, `SELECT COUNT(*) FROM appointment_holds`)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count holds: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired hold to be deleted, got %d rows", count)
	}

	status, err := st.GetConversationState(ctx, "inst-1", []string{"5511999990000"})
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if status.State != models.StateActive {
		t.Fatalf("expected state reset to active, got %q", status.State)
	}
}

func TestSweepExpiredHolds(t *testing.T) {
	ctx := context.Background()
	st, _, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	now := time.Now().UTC()
	if _, err := st.StoreHold(ctx, holdInput("inst-1", "5511999990000", "owner-1", "2025-12-10", "09:00", now)); err != nil {
		t.Fatalf("store hold: %v", err)
	}
	if _, err := st.StoreHold(ctx, holdInput("inst-2", "5511888880000", "owner-2", "2025-12-10", "10:00", now.Add(30*time.Minute))); err != nil {
		t.Fatalf("store second hold: %v", err)
	}

	count, err := st.SweepExpiredHolds(ctx, now.Add(70*time.Minute))
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired hold swept, got %d", count)
	}

	status, err := st.GetConversationState(ctx, "inst-1", []string{"5511999990000"})
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if status.State != models.StateActive {
		t.Fatalf("expected swept conversation back to active, got %q", status.State)
	}
	if _, err := st.GetHold(ctx, "inst-2", []string{"5511888880000"}, now.Add(70*time.Minute)); err != nil {
		t.Fatalf("live hold must survive the sweep: %v", err)
	}
}

func TestSlotConfigDefaultsAndBounds(t *testing.T) {
	ctx := context.Background()
	st, _, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	config, err := st.GetSlotConfig(ctx, "owner-1")
	if err != nil {
		t.Fatalf("get defaults: %v", err)
	}
	if config.SlotSizeMinutes != models.DefaultSlotSizeMinutes || config.BufferMinutes != models.DefaultBufferMinutes {
		t.Fatalf("expected defaults 15/0, got %d/%d", config.SlotSizeMinutes, config.BufferMinutes)
	}

	if err := st.SetSlotConfig(ctx, models.SlotConfig{OwnerUserID: "owner-1", SlotSizeMinutes: 70}); !errors.Is(err, store.ErrSlotSizeOutOfRange) {
		t.Fatalf("expected ErrSlotSizeOutOfRange, got %v", err)
	}

	if err := st.SetSlotConfig(ctx, models.SlotConfig{OwnerUserID: "owner-1", SlotSizeMinutes: 30, BufferMinutes: 10}); err != nil {
		t.Fatalf("set config: %v", err)
	}
	config, err = st.GetSlotConfig(ctx, "owner-1")
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if config.SlotSizeMinutes != 30 || config.BufferMinutes != 10 {
		t.Fatalf("expected 30/10, got %d/%d", config.SlotSizeMinutes, config.BufferMinutes)
	}
}

func TestAppointmentLifecycle(t *testing.T) {
	ctx := context.Background()
	st, _, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	now := time.Now().UTC()
	appointment, err := st.CreateAppointment(ctx, store.CreateAppointmentInput{
		OwnerUserID:   "owner-1",
		InstanceID:    "inst-1",
		ContactNumber: "5511999990000",
		ContactName:   "Maria",
		Date:          "10/12/2025",
		StartTime:     "09:00",
		Now:           now,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	if appointment.Status != models.AppointmentPending {
		t.Fatalf("expected pending, got %q", appointment.Status)
	}

	confirmed, err := st.SetAppointmentStatus(ctx, appointment.AppointmentID, "owner-1", "confirm", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.Status != models.AppointmentConfirmed {
		t.Fatalf("expected confirmed, got %q", confirmed.Status)
	}

	completed, err := st.SetAppointmentStatus(ctx, appointment.AppointmentID, "owner-1", "complete", now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if completed.Status != models.AppointmentCompleted {
		t.Fatalf("expected completed, got %q", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Fatal("expected completed_at to be stamped")
	}

	if _, err := st.SetAppointmentStatus(ctx, appointment.AppointmentID, "owner-1", "cancel", now.Add(3*time.Minute)); !errors.Is(err, store.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState from terminal status, got %v", err)
	}

	if _, err := st.SetAppointmentStatus(ctx, appointment.AppointmentID, "owner-2", "confirm", now.Add(3*time.Minute)); !errors.Is(err, store.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound for foreign owner, got %v", err)
	}
}

func TestRescheduleKeepsTimeWhenOmitted(t *testing.T) {
	ctx := context.Background()
	st, _, cleanup := setupTestStore(t, ctx)
	t.Cleanup(cleanup)

	now := time.Now().UTC()
	appointment, err := st.CreateAppointment(ctx, store.CreateAppointmentInput{
		OwnerUserID:   "owner-1",
		ContactNumber: "5511999990000",
		Date:          "2025-12-10",
		StartTime:     "09:00",
		Now:           now,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}

	moved, err := st.RescheduleAppointment(ctx, store.RescheduleInput{
		AppointmentID: appointment.AppointmentID,
		OwnerUserID:   "owner-1",
		Date:          "11/12/2025",
		Now:           now.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if moved.Date != "2025-12-11" {
		t.Fatalf("expected new date, got %q", moved.Date)
	}
	if moved.StartTime != "09:00" {
		t.Fatalf("expected original time kept, got %q", moved.StartTime)
	}
}

func holdInput(instanceID, contact, owner, date, clock string, now time.Time) store.StoreHoldInput {
	return store.StoreHoldInput{
		InstanceID:    instanceID,
		ContactNumber: contact,
		OwnerUserID:   owner,
		Date:          date,
		Time:          clock,
		Now:           now,
		TTL:           time.Hour,
	}
}

func setupTestStore(t *testing.T, ctx context.Context) (*Store, *pgxpool.Pool, func()) {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_DB_DSN or DB_DSN is required for integration tests")
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := createSchema(ctx, dsn, schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	pool, err := newPoolWithSchema(ctx, dsn, schema)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}

	if err := applyMigrations(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("apply migrations: %v", err)
	}

	st := NewStore(pool, Options{HoldTTL: time.Hour})
	cleanup := func() {
		pool.Close()
		_ = dropSchema(context.Background(), dsn, schema)
	}
	return st, pool, cleanup
}

func createSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "CREATE SCHEMA "+schema)
	return err
}

func dropSchema(ctx context.Context, dsn, schema string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
	return err
}

func newPoolWithSchema(ctx context.Context, dsn, schema string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	return pgxpool.NewWithConfig(ctx, cfg)
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	dir := filepath.Join("..", "..", "..", "migrations")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return err
		}
	}
	return nil
}
