package repository_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return d
}

func event(id, employeeID string, kind model.EventKind, occurredAt time.Time) model.AttendanceEvent {
	return model.AttendanceEvent{
		ID:         id,
		EmployeeID: employeeID,
		Kind:       kind,
		OccurredAt: occurredAt,
		OccurredOn: model.DateOf(occurredAt, time.UTC),
		Latitude:   19.43,
		Longitude:  -99.13,
	}
}

func TestMemory_AppendEnforcesUniqueness(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	morning := time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, event("ev-1", "emp-42", model.KindCheckIn, morning)))

	// Same key again: conflict.
	err := repo.Append(ctx, event("ev-2", "emp-42", model.KindCheckIn, morning.Add(time.Hour)))
	assert.ErrorIs(t, err, repository.ErrEventConflict)

	// Different kind, employee, or day: all fine.
	assert.NoError(t, repo.Append(ctx, event("ev-3", "emp-42", model.KindCheckOut, morning)))
	assert.NoError(t, repo.Append(ctx, event("ev-4", "emp-43", model.KindCheckIn, morning)))
	assert.NoError(t, repo.Append(ctx, event("ev-5", "emp-42", model.KindCheckIn, morning.AddDate(0, 0, 1))))
}

func TestMemory_AppendConcurrentSameKey(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	morning := time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC)

	const attempts = 64
	var wg sync.WaitGroup
	conflicts := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conflicts <- repo.Append(ctx, event(fmt.Sprintf("ev-%d", i), "emp-42", model.KindCheckIn, morning))
		}(i)
	}
	wg.Wait()
	close(conflicts)

	var succeeded int
	for err := range conflicts {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, repository.ErrEventConflict)
		}
	}
	assert.Equal(t, 1, succeeded)

	events, err := repo.ListByKindDate(ctx, model.KindCheckIn, day(t, "2024-03-10"))
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestMemory_FindAndGet(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	morning := time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, event("ev-1", "emp-42", model.KindCheckIn, morning)))

	found, err := repo.FindByEmployeeKindDate(ctx, "emp-42", model.KindCheckIn, day(t, "2024-03-10"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ev-1", found.ID)

	missing, err := repo.FindByEmployeeKindDate(ctx, "emp-42", model.KindCheckOut, day(t, "2024-03-10"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	got, err := repo.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "ev-1", got.ID)

	_, err = repo.GetEvent(ctx, "no-such-id")
	assert.ErrorIs(t, err, repository.ErrEventNotFound)
}

func TestMemory_ListOrderingMostRecentFirst(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	base := time.Date(2024, time.March, 10, 7, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, event("ev-1", "emp-42", model.KindCheckIn, base.Add(30*time.Minute))))
	require.NoError(t, repo.Append(ctx, event("ev-2", "emp-43", model.KindCheckIn, base.Add(2*time.Hour))))
	require.NoError(t, repo.Append(ctx, event("ev-3", "emp-44", model.KindCheckIn, base.Add(time.Hour))))

	events, err := repo.ListByKindDate(ctx, model.KindCheckIn, day(t, "2024-03-10"))
	require.NoError(t, err)

	var ids []string
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"ev-2", "ev-3", "ev-1"}, ids)
}

func TestMemory_ListByEmployeeScoped(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	morning := time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, event("ev-1", "emp-42", model.KindCheckIn, morning)))
	require.NoError(t, repo.Append(ctx, event("ev-2", "emp-43", model.KindCheckIn, morning.Add(time.Minute))))

	events, err := repo.ListByEmployeeKindDate(ctx, "emp-42", model.KindCheckIn, day(t, "2024-03-10"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
}

func TestMemory_PurgeAll(t *testing.T) {
	repo := repository.NewMemory()
	ctx := context.Background()
	morning := time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, event("ev-1", "emp-42", model.KindCheckIn, morning)))
	require.NoError(t, repo.PurgeAll(ctx))

	events, err := repo.ListByKindDate(ctx, model.KindCheckIn, day(t, "2024-03-10"))
	require.NoError(t, err)
	assert.Empty(t, events)

	// The uniqueness key is gone too: the same submission may recur.
	assert.NoError(t, repo.Append(ctx, event("ev-6", "emp-42", model.KindCheckIn, morning)))
}
