package core_test

import (
	"testing"

	"attendance.service/internal/core"
	"attendance.service/internal/core/model"
	"github.com/stretchr/testify/assert"
)

func TestIsAuthorized(t *testing.T) {
	admin := model.Identity{EmployeeID: "emp-1", Admin: true}
	regular := model.Identity{EmployeeID: "emp-2"}
	anonymous := model.Identity{}

	tests := []struct {
		name      string
		requester model.Identity
		op        core.Operation
		want      bool
	}{
		{"regular can submit", regular, core.OpSubmit, true},
		{"regular can query status", regular, core.OpDayStatus, true},
		{"regular can view own day", regular, core.OpDailyView, true},
		{"regular cannot view roster", regular, core.OpViewRoster, false},
		{"regular cannot purge", regular, core.OpPurgeAll, false},
		{"admin can view roster", admin, core.OpViewRoster, true},
		{"admin can purge", admin, core.OpPurgeAll, true},
		{"anonymous can do nothing", anonymous, core.OpSubmit, false},
		{"unknown operation denied", admin, core.Operation("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.IsAuthorized(tt.requester, tt.op))
		})
	}
}
