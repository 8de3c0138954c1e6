package appointment

import (
	"context"

	"github.com/huseyingedek/geras-api/internal/dto"
)

type ListAppointmentsByDateInput struct {
	AccountID uint
	StaffID   uint
	// Date is yyyy-mm-dd in the account's location; empty means today.
	Date string
}

type ListAppointmentsByDateOutput struct {
	Date         string                   `json:"date"`
	Total        int                      `json:"total"`
	Appointments []dto.AppointmentListDTO `json:"appointments"`
	ByHour       []HourGroup              `json:"byHour"`
}

type ListAppointmentsByDate struct {
	deps Deps
}

func NewListAppointmentsByDate(deps Deps) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{deps: deps.withDefaults()}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	in ListAppointmentsByDateInput,
) (*ListAppointmentsByDateOutput, error) {

	_, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	day, _ := dayBounds(uc.deps.Now().In(loc))
	if in.Date != "" {
		if day, err = parseDate(in.Date, loc); err != nil {
			return nil, err
		}
	}
	start, end := dayBounds(day)

	aps, err := uc.deps.Repo.ListAppointmentsForPeriod(ctx, in.AccountID, in.StaffID, start, end)
	if err != nil {
		return nil, err
	}

	items := dto.FromAppointments(aps, loc)
	return &ListAppointmentsByDateOutput{
		Date:         start.Format(dateLayout),
		Total:        len(items),
		Appointments: items,
		ByHour:       groupByHour(items),
	}, nil
}
