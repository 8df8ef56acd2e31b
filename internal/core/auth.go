package core

import "attendance.service/internal/core/model"

// Operation names an action gated by the authorization predicate.
type Operation string

const (
	OpSubmit     Operation = "submit"
	OpDayStatus  Operation = "day_status"
	OpDailyView  Operation = "daily_view"
	OpViewRoster Operation = "view_roster"
	OpPurgeAll   Operation = "purge_all"
)

// IsAuthorized is the single authorization predicate evaluated at the entry
// point. Roster-wide views and the purge are administrator-only; everything
// else is self-service.
func IsAuthorized(requester model.Identity, op Operation) bool {
	switch op {
	case OpViewRoster, OpPurgeAll:
		return requester.Admin
	case OpSubmit, OpDayStatus, OpDailyView:
		return requester.EmployeeID != ""
	default:
		return false
	}
}
