package directory

import (
	"context"

	"attendance.service/internal/core/model"
)

// Static serves a fixed roster. Used by tests and the mock directory tool.
type Static struct {
	Employees []model.Employee
}

func NewStatic(employees ...model.Employee) *Static {
	return &Static{Employees: employees}
}

func (s *Static) ActiveRoster(_ context.Context) ([]model.Employee, error) {
	var active []model.Employee
	for _, e := range s.Employees {
		if e.Active {
			active = append(active, e)
		}
	}
	return active, nil
}

func (s *Static) Lookup(_ context.Context, employeeID string) (*model.Employee, error) {
	for i := range s.Employees {
		if s.Employees[i].ID == employeeID {
			employee := s.Employees[i]
			return &employee, nil
		}
	}
	return nil, nil
}
