package messaging

import (
	"time"

	"attendance.service/internal/core/model"
)

// AttendanceRecordedEvent is the JSON payload published after a submission
// is persisted, consumed by the notification worker.
type AttendanceRecordedEvent struct {
	EventID    string          `json:"eventId"`
	EmployeeID string          `json:"employeeId"`
	Kind       model.EventKind `json:"kind"`
	OccurredAt time.Time       `json:"occurredAt"`
	OccurredOn model.Date      `json:"occurredOn"`
}
