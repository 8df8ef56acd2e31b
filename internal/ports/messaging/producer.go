package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Producer publishes attendance events through a MessageSender.
type Producer struct {
	sender         MessageSender
	notifyQueueURL string
}

func NewProducer(sender MessageSender, notifyQueueURL string) *Producer {
	return &Producer{
		sender:         sender,
		notifyQueueURL: notifyQueueURL,
	}
}

func NewSQSProducer(client SQSClient, notifyQueueURL string) *Producer {
	return NewProducer(&SQSSender{client: client}, notifyQueueURL)
}

func (p *Producer) PublishAttendanceRecorded(ctx context.Context, event AttendanceRecordedEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// Enrich the current span with employee_id if available
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("app.employeeId", event.EmployeeID),
			attribute.String("app.kind", string(event.Kind)),
		)
	}

	if err := p.sender.SendMessage(ctx, p.notifyQueueURL, b); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}
