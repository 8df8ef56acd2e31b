package repository

import (
	"context"
	"errors"

	"attendance.service/internal/core/model"
)

// ErrEventConflict is returned when inserting an event would violate the
// one-per-kind-per-day uniqueness constraint. The ledger service always
// translates it before it reaches a caller.
var ErrEventConflict = errors.New("attendance event already exists for employee, kind and date")

// ErrEventNotFound is returned when a lookup matches nothing.
var ErrEventNotFound = errors.New("attendance event not found")

// EventRepository is the persistence contract for attendance events.
// The store is append-only: there is no update, and the only delete is the
// administrative purge of the whole ledger.
type EventRepository interface {
	// Append inserts a new event. Returns ErrEventConflict when an event
	// with the same (employee, kind, canonical date) already exists; the
	// check and the insert are atomic with respect to concurrent
	// submissions for the same key.
	Append(ctx context.Context, event model.AttendanceEvent) error

	// GetEvent fetches a single event by ID, ErrEventNotFound if gone.
	GetEvent(ctx context.Context, id string) (*model.AttendanceEvent, error)

	// FindByEmployeeKindDate returns the at-most-one matching event, or nil.
	FindByEmployeeKindDate(ctx context.Context, employeeID string, kind model.EventKind, day model.Date) (*model.AttendanceEvent, error)

	// ListByKindDate returns all events of one kind on one date,
	// most recent occurredAt first.
	ListByKindDate(ctx context.Context, kind model.EventKind, day model.Date) ([]model.AttendanceEvent, error)

	// ListByEmployeeKindDate is the self-service scoped variant.
	ListByEmployeeKindDate(ctx context.Context, employeeID string, kind model.EventKind, day model.Date) ([]model.AttendanceEvent, error)

	// PurgeAll deletes every event in a single atomic operation.
	PurgeAll(ctx context.Context) error
}
