package core

import (
	"errors"
	"fmt"

	"attendance.service/internal/core/model"
)

// ErrNotAuthorized is returned when a requester lacks the administrator
// flag required for an operation.
var ErrNotAuthorized = errors.New("operation requires administrator privileges")

// ValidationError rejects a malformed submission. No state changes.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid submission: %s %s", e.Field, e.Reason)
}

// DuplicateSubmissionError is the expected business outcome when an employee
// has already recorded the given kind on the given organizational date.
type DuplicateSubmissionError struct {
	EmployeeID string
	Kind       model.EventKind
	Date       model.Date
}

func (e *DuplicateSubmissionError) Error() string {
	return fmt.Sprintf("already recorded %s on %s", e.Kind, e.Date)
}
