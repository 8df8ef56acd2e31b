package core

import (
	"context"
	"errors"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Submission carries the raw fields a reporting device sends. Coordinates
// are pointers so a missing field is distinguishable from zero.
type Submission struct {
	Kind       model.EventKind
	Latitude   *float64
	Longitude  *float64
	ReportedAt string
}

// LedgerService mediates every write to the attendance ledger and enforces
// the one-event-per-kind-per-day rule.
type LedgerService struct {
	repo     repository.EventRepository
	producer messaging.EventProducer
	clock    *OrgClock
}

// NewLedgerService wires the store, the event producer and the
// organizational clock into the ledger.
func NewLedgerService(repo repository.EventRepository, producer messaging.EventProducer, clock *OrgClock) *LedgerService {
	return &LedgerService{
		repo:     repo,
		producer: producer,
		clock:    clock,
	}
}

// Submit records one attendance event for the employee. The duplicate check
// runs twice: a pre-check for the friendly common case, and the store's own
// uniqueness constraint for the race where two submissions pass the
// pre-check together. Either way the caller sees DuplicateSubmissionError,
// never a storage fault.
func (s *LedgerService) Submit(ctx context.Context, employeeID string, sub Submission) (*model.AttendanceEvent, error) {
	if err := validate(employeeID, sub); err != nil {
		return nil, err
	}

	occurredAt, day, fellBack := s.clock.Normalize(ctx, sub.ReportedAt)
	if fellBack {
		log.Ctx(ctx).Warn().
			Str("employee_id", employeeID).
			Str("kind", string(sub.Kind)).
			Msg("Recording attendance with substituted timestamp")
	}

	existing, err := s.repo.FindByEmployeeKindDate(ctx, employeeID, sub.Kind, day)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &DuplicateSubmissionError{EmployeeID: employeeID, Kind: sub.Kind, Date: day}
	}

	event := model.AttendanceEvent{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Kind:       sub.Kind,
		OccurredAt: occurredAt,
		OccurredOn: day,
		Latitude:   *sub.Latitude,
		Longitude:  *sub.Longitude,
	}

	if err := s.repo.Append(ctx, event); err != nil {
		if errors.Is(err, repository.ErrEventConflict) {
			return nil, &DuplicateSubmissionError{EmployeeID: employeeID, Kind: sub.Kind, Date: day}
		}
		return nil, err
	}

	s.publishRecorded(ctx, event)
	return &event, nil
}

// DayStatus answers whether the employee has already recorded each kind for
// the current organizational date.
func (s *LedgerService) DayStatus(ctx context.Context, employeeID string) (model.DayStatus, error) {
	today := s.clock.Today()

	checkIn, err := s.repo.FindByEmployeeKindDate(ctx, employeeID, model.KindCheckIn, today)
	if err != nil {
		return model.DayStatus{}, err
	}
	checkOut, err := s.repo.FindByEmployeeKindDate(ctx, employeeID, model.KindCheckOut, today)
	if err != nil {
		return model.DayStatus{}, err
	}

	return model.DayStatus{
		CheckedIn:  checkIn != nil,
		CheckedOut: checkOut != nil,
	}, nil
}

// PurgeAll clears the entire ledger. The repository runs it as one atomic
// operation, so submissions racing the purge land fully before or fully
// after it.
func (s *LedgerService) PurgeAll(ctx context.Context) error {
	if err := s.repo.PurgeAll(ctx); err != nil {
		return err
	}
	log.Ctx(ctx).Info().Msg("Attendance ledger purged")
	return nil
}

// publishRecorded hands the persisted event to the notification queue. The
// event is already durable at this point, so a publish failure is logged
// and the submission still succeeds.
func (s *LedgerService) publishRecorded(ctx context.Context, event model.AttendanceEvent) {
	if s.producer == nil {
		return
	}
	err := s.producer.PublishAttendanceRecorded(ctx, messaging.AttendanceRecordedEvent{
		EventID:    event.ID,
		EmployeeID: event.EmployeeID,
		Kind:       event.Kind,
		OccurredAt: event.OccurredAt,
		OccurredOn: event.OccurredOn,
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Str("event_id", event.ID).
			Msg("Failed to publish attendance event")
	}
}

func validate(employeeID string, sub Submission) error {
	switch {
	case employeeID == "":
		return &ValidationError{Field: "employeeId", Reason: "is required"}
	case !sub.Kind.Valid():
		return &ValidationError{Field: "kind", Reason: `must be "entrada" or "salida"`}
	case sub.Latitude == nil:
		return &ValidationError{Field: "latitude", Reason: "is required"}
	case sub.Longitude == nil:
		return &ValidationError{Field: "longitude", Reason: "is required"}
	}
	return nil
}
