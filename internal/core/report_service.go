package core

import (
	"context"

	"attendance.service/internal/core/model"
	"attendance.service/internal/ports/directory"
	"attendance.service/internal/ports/repository"
)

// ReportService composes the per-date roster views. It performs no
// mutation; everything is read from the store and the directory.
type ReportService struct {
	repo  repository.EventRepository
	dir   directory.EmployeeDirectory
	clock *OrgClock
}

func NewReportService(repo repository.EventRepository, dir directory.EmployeeDirectory, clock *OrgClock) *ReportService {
	return &ReportService{
		repo:  repo,
		dir:   dir,
		clock: clock,
	}
}

// BuildDailyView assembles the entrada/salida lists for one organizational
// date. Administrators additionally get the active roster complement: who
// has not yet recorded each kind. Regular employees only see their own
// events. A nil day means today.
func (s *ReportService) BuildDailyView(ctx context.Context, requester model.Identity, day *model.Date) (model.DailyView, error) {
	viewDate := s.clock.Today()
	if day != nil {
		viewDate = *day
	}

	if !requester.Admin {
		return s.buildOwnView(ctx, requester.EmployeeID, viewDate)
	}

	roster, err := s.dir.ActiveRoster(ctx)
	if err != nil {
		return model.DailyView{}, err
	}

	checkIns, err := s.repo.ListByKindDate(ctx, model.KindCheckIn, viewDate)
	if err != nil {
		return model.DailyView{}, err
	}
	checkOuts, err := s.repo.ListByKindDate(ctx, model.KindCheckOut, viewDate)
	if err != nil {
		return model.DailyView{}, err
	}

	return model.DailyView{
		Date:            viewDate,
		CheckIns:        checkIns,
		CheckOuts:       checkOuts,
		MissingCheckIn:  missingFrom(roster, checkIns),
		MissingCheckOut: missingFrom(roster, checkOuts),
		TotalActive:     len(roster),
	}, nil
}

func (s *ReportService) buildOwnView(ctx context.Context, employeeID string, viewDate model.Date) (model.DailyView, error) {
	checkIns, err := s.repo.ListByEmployeeKindDate(ctx, employeeID, model.KindCheckIn, viewDate)
	if err != nil {
		return model.DailyView{}, err
	}
	checkOuts, err := s.repo.ListByEmployeeKindDate(ctx, employeeID, model.KindCheckOut, viewDate)
	if err != nil {
		return model.DailyView{}, err
	}
	return model.DailyView{
		Date:      viewDate,
		CheckIns:  checkIns,
		CheckOuts: checkOuts,
	}, nil
}

// missingFrom returns, in roster order, the employees with no event in the
// list. Together with the recorded employees they partition the roster.
func missingFrom(roster []model.Employee, events []model.AttendanceEvent) []model.Employee {
	recorded := make(map[string]struct{}, len(events))
	for _, e := range events {
		recorded[e.EmployeeID] = struct{}{}
	}

	var missing []model.Employee
	for _, emp := range roster {
		if _, ok := recorded[emp.ID]; !ok {
			missing = append(missing, emp)
		}
	}
	return missing
}
