package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"attendance.service/internal/core"
	"attendance.service/internal/ports/directory"
	"attendance.service/internal/ports/messaging"
	"attendance.service/internal/ports/repository"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/rs/zerolog/log"
)

// NotifyProcessor handles jobs from the notification queue: it confirms a
// recorded attendance event to the employee by email.
type NotifyProcessor struct {
	emailService core.EmailService
	repo         repository.EventRepository
	dir          directory.EmployeeDirectory
}

// NewProcessor sets up a new processor for attendance notifications. It
// needs the event store to verify the event still exists and the directory
// to resolve the employee's address.
func NewProcessor(emailService core.EmailService, repo repository.EventRepository, dir directory.EmployeeDirectory) *NotifyProcessor {
	return &NotifyProcessor{
		emailService: emailService,
		repo:         repo,
		dir:          dir,
	}
}

// Process handles one message from the notification queue. It tells the
// worker to retry on transient failures and drops malformed or stale jobs.
func (p *NotifyProcessor) Process(ctx context.Context, msg types.Message) (bool, int32, error) {
	var event messaging.AttendanceRecordedEvent
	if err := json.Unmarshal([]byte(*msg.Body), &event); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("Failed to unmarshal attendance event")
		return false, 0, err // Do not retry on malformed message
	}

	receiveCount := approximateReceiveCount(msg)

	// The ledger may have been purged between publish and delivery. A
	// missing event means there is nothing left to confirm.
	_, err := p.repo.GetEvent(ctx, event.EventID)
	if errors.Is(err, repository.ErrEventNotFound) {
		log.Ctx(ctx).Info().Str("event_id", event.EventID).Msg("Event no longer exists. Skipping notification.")
		return false, 0, nil
	}
	if err != nil {
		return true, 10, fmt.Errorf("failed to get event from store: %w", err)
	}

	employee, err := p.dir.Lookup(ctx, event.EmployeeID)
	if err != nil {
		return true, calculateBackoff(receiveCount), fmt.Errorf("failed to resolve employee: %w", err)
	}
	if employee == nil || employee.Email == "" {
		log.Ctx(ctx).Warn().Str("employee_id", event.EmployeeID).Msg("No email on file. Skipping notification.")
		return false, 0, nil
	}

	if err := p.emailService.SendAttendanceConfirmation(ctx, employee.Email, event.Kind, event.OccurredOn); err != nil {
		return true, calculateBackoff(receiveCount), err
	}

	return false, 0, nil
}

// approximateReceiveCount reads the SQS delivery counter. The event store
// is append-only and keeps no retry state, so the queue's own counter
// drives the backoff.
func approximateReceiveCount(msg types.Message) int {
	raw, ok := msg.Attributes[string(types.MessageSystemAttributeNameApproximateReceiveCount)]
	if !ok {
		return 1
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 1 {
		return 1
	}
	return count
}

// calculateBackoff determines how long to wait before retrying a failed job.
// It increases the delay exponentially with each retry to avoid overwhelming a struggling service.
func calculateBackoff(retryCount int) int32 {
	backoff := int32(math.Pow(2, float64(retryCount)) * 10)
	if backoff > 3600 { // Cap at 1 hour
		return 3600
	}
	return backoff
}
