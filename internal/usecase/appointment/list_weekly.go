package appointment

import (
	"context"

	"github.com/huseyingedek/geras-api/internal/dto"
)

type ListWeeklyAppointmentsInput struct {
	AccountID uint
	StaffID   uint
	// StartDate defaults to Monday of the current week.
	StartDate string
}

type ListWeeklyAppointmentsOutput struct {
	StartDate string        `json:"startDate"`
	EndDate   string        `json:"endDate"`
	Summary   StatusSummary `json:"summary"`
	Days      []DayGroup    `json:"days"`
}

type ListWeeklyAppointments struct {
	deps Deps
}

func NewListWeeklyAppointments(deps Deps) *ListWeeklyAppointments {
	return &ListWeeklyAppointments{deps: deps.withDefaults()}
}

func (uc *ListWeeklyAppointments) Execute(
	ctx context.Context,
	in ListWeeklyAppointmentsInput,
) (*ListWeeklyAppointmentsOutput, error) {

	_, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	start := startOfWeek(uc.deps.Now().In(loc))
	if in.StartDate != "" {
		if start, err = parseDate(in.StartDate, loc); err != nil {
			return nil, err
		}
	}
	end := start.AddDate(0, 0, 7)

	aps, err := uc.deps.Repo.ListAppointmentsForPeriod(ctx, in.AccountID, in.StaffID, start, end)
	if err != nil {
		return nil, err
	}

	items := dto.FromAppointments(aps, loc)
	return &ListWeeklyAppointmentsOutput{
		StartDate: start.Format(dateLayout),
		EndDate:   end.AddDate(0, 0, -1).Format(dateLayout),
		Summary:   summarize(items),
		Days:      groupByDay(items, start, 7),
	}, nil
}
