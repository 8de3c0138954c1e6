package appointment

import (
	"context"

	"github.com/huseyingedek/geras-api/internal/dto"
)

type ListTodayAppointmentsOutput struct {
	Date         string                   `json:"date"`
	Summary      StatusSummary            `json:"summary"`
	Appointments []dto.AppointmentListDTO `json:"appointments"`
	ByHour       []HourGroup              `json:"byHour"`
}

type ListTodayAppointments struct {
	deps Deps
}

func NewListTodayAppointments(deps Deps) *ListTodayAppointments {
	return &ListTodayAppointments{deps: deps.withDefaults()}
}

func (uc *ListTodayAppointments) Execute(ctx context.Context, accountID, staffID uint) (*ListTodayAppointmentsOutput, error) {
	_, loc, err := uc.deps.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	start, end := dayBounds(uc.deps.Now().In(loc))
	aps, err := uc.deps.Repo.ListAppointmentsForPeriod(ctx, accountID, staffID, start, end)
	if err != nil {
		return nil, err
	}

	items := dto.FromAppointments(aps, loc)
	return &ListTodayAppointmentsOutput{
		Date:         start.Format(dateLayout),
		Summary:      summarize(items),
		Appointments: items,
		ByHour:       groupByHour(items),
	}, nil
}
