package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"attendance.service/internal/core/model"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AttendanceRepository is the concrete implementation for a PostgreSQL
// database. The uniqueness invariant is carried by a unique index on
// (employee_id, kind, occurred_on), so a lost pre-check race still yields
// exactly one row.
type AttendanceRepository struct {
	DB *sql.DB
}

// NewAttendanceRepository create new instance
func NewAttendanceRepository(db *sql.DB) *AttendanceRepository {
	return &AttendanceRepository{DB: db}
}

// Migrate creates the events table and its indexes if they do not exist.
func (r *AttendanceRepository) Migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS attendance_events (
		id          TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		kind        TEXT NOT NULL,
		occurred_at TIMESTAMPTZ NOT NULL,
		occurred_on DATE NOT NULL,
		latitude    DOUBLE PRECISION NOT NULL,
		longitude   DOUBLE PRECISION NOT NULL
	);
	CREATE UNIQUE INDEX IF NOT EXISTS uq_attendance_employee_kind_day
		ON attendance_events (employee_id, kind, occurred_on);
	CREATE INDEX IF NOT EXISTS ix_attendance_kind_day
		ON attendance_events (kind, occurred_on);`

	_, err := r.DB.ExecContext(ctx, schema)
	return err
}

const uniqueViolation = "23505"

// Append insert one event.
func (r *AttendanceRepository) Append(ctx context.Context, event model.AttendanceEvent) error {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.employee_id", event.EmployeeID))

	query := `INSERT INTO attendance_events (id, employee_id, kind, occurred_at, occurred_on, latitude, longitude)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctx, query,
		event.ID, event.EmployeeID, string(event.Kind), event.OccurredAt, event.OccurredOn.Time,
		event.Latitude, event.Longitude)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrEventConflict
	}
	return err
}

// GetEvent fetch an event by ID.
func (r *AttendanceRepository) GetEvent(ctx context.Context, id string) (*model.AttendanceEvent, error) {
	query := `SELECT id, employee_id, kind, occurred_at, occurred_on, latitude, longitude
              FROM attendance_events WHERE id = $1`

	event, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// FindByEmployeeKindDate get the single event for the uniqueness key, if any.
func (r *AttendanceRepository) FindByEmployeeKindDate(ctx context.Context, employeeID string, kind model.EventKind, day model.Date) (*model.AttendanceEvent, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.employee_id", employeeID))

	query := `SELECT id, employee_id, kind, occurred_at, occurred_on, latitude, longitude
              FROM attendance_events
              WHERE employee_id = $1 AND kind = $2 AND occurred_on = $3
              LIMIT 1`

	event, err := scanEvent(r.DB.QueryRowContext(ctx, query, employeeID, string(kind), day.Time))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListByKindDate all events of a kind on a date, most recent first.
func (r *AttendanceRepository) ListByKindDate(ctx context.Context, kind model.EventKind, day model.Date) ([]model.AttendanceEvent, error) {
	query := `SELECT id, employee_id, kind, occurred_at, occurred_on, latitude, longitude
              FROM attendance_events
              WHERE kind = $1 AND occurred_on = $2
              ORDER BY occurred_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, string(kind), day.Time)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// ListByEmployeeKindDate scoped variant for self-service views.
func (r *AttendanceRepository) ListByEmployeeKindDate(ctx context.Context, employeeID string, kind model.EventKind, day model.Date) ([]model.AttendanceEvent, error) {
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("app.employee_id", employeeID))

	query := `SELECT id, employee_id, kind, occurred_at, occurred_on, latitude, longitude
              FROM attendance_events
              WHERE employee_id = $1 AND kind = $2 AND occurred_on = $3
              ORDER BY occurred_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, employeeID, string(kind), day.Time)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

// PurgeAll delete the whole ledger in one statement.
func (r *AttendanceRepository) PurgeAll(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM attendance_events`)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*model.AttendanceEvent, error) {
	var (
		event      model.AttendanceEvent
		kind       string
		occurredOn time.Time
	)
	err := row.Scan(&event.ID, &event.EmployeeID, &kind, &event.OccurredAt, &occurredOn,
		&event.Latitude, &event.Longitude)
	if err != nil {
		return nil, err
	}
	event.Kind = model.EventKind(kind)
	event.OccurredOn = model.DateOf(occurredOn, time.UTC)
	return &event, nil
}

func collectEvents(rows *sql.Rows) ([]model.AttendanceEvent, error) {
	var events []model.AttendanceEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *event)
	}
	return events, rows.Err()
}
