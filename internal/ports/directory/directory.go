package directory

import (
	"context"

	"attendance.service/internal/core/model"
)

// EmployeeDirectory is the read-only port onto the externally-owned
// employee roster. The ledger never creates, edits, or deletes employees.
type EmployeeDirectory interface {
	// ActiveRoster returns every active employee, in roster order.
	ActiveRoster(ctx context.Context) ([]model.Employee, error)

	// Lookup returns a single employee, nil when unknown.
	Lookup(ctx context.Context, employeeID string) (*model.Employee, error)
}
