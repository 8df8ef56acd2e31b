package repository

import (
	"context"
	"sort"
	"sync"

	"attendance.service/internal/core/model"
)

// Memory is an in-process EventRepository used by tests and local tooling.
// A single mutex serializes the check-then-insert, which gives the same
// atomicity the unique index gives the PostgreSQL implementation.
type Memory struct {
	mu     sync.RWMutex
	events []model.AttendanceEvent
	keys   map[eventKey]string // uniqueness key -> event ID
}

type eventKey struct {
	EmployeeID string
	Kind       model.EventKind
	Day        model.Date
}

func NewMemory() *Memory {
	return &Memory{keys: make(map[eventKey]string)}
}

func (m *Memory) Append(_ context.Context, event model.AttendanceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := eventKey{EmployeeID: event.EmployeeID, Kind: event.Kind, Day: event.OccurredOn}
	if _, exists := m.keys[k]; exists {
		return ErrEventConflict
	}
	m.keys[k] = event.ID
	m.events = append(m.events, event)
	return nil
}

func (m *Memory) GetEvent(_ context.Context, id string) (*model.AttendanceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.events {
		if m.events[i].ID == id {
			event := m.events[i]
			return &event, nil
		}
	}
	return nil, ErrEventNotFound
}

func (m *Memory) FindByEmployeeKindDate(_ context.Context, employeeID string, kind model.EventKind, day model.Date) (*model.AttendanceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, exists := m.keys[eventKey{EmployeeID: employeeID, Kind: kind, Day: day}]
	if !exists {
		return nil, nil
	}
	for i := range m.events {
		if m.events[i].ID == id {
			event := m.events[i]
			return &event, nil
		}
	}
	return nil, nil
}

func (m *Memory) ListByKindDate(_ context.Context, kind model.EventKind, day model.Date) ([]model.AttendanceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filter(func(e model.AttendanceEvent) bool {
		return e.Kind == kind && e.OccurredOn == day
	}), nil
}

func (m *Memory) ListByEmployeeKindDate(_ context.Context, employeeID string, kind model.EventKind, day model.Date) ([]model.AttendanceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.filter(func(e model.AttendanceEvent) bool {
		return e.EmployeeID == employeeID && e.Kind == kind && e.OccurredOn == day
	}), nil
}

func (m *Memory) PurgeAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.events = nil
	m.keys = make(map[eventKey]string)
	return nil
}

// filter returns matching events ordered most recent first.
// Callers must hold at least the read lock.
func (m *Memory) filter(match func(model.AttendanceEvent) bool) []model.AttendanceEvent {
	var result []model.AttendanceEvent
	for _, e := range m.events {
		if match(e) {
			result = append(result, e)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].OccurredAt.After(result[j].OccurredAt)
	})
	return result
}
