package appointment

import (
	"context"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/dto"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ListAppointmentsInput struct {
	AccountID uint
	Page      int
	Limit     int
	Status    string
	StaffID   uint
	StartDate string
	EndDate   string
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

type ListAppointmentsOutput struct {
	Appointments []dto.AppointmentListDTO `json:"appointments"`
	Pagination   Pagination               `json:"pagination"`
}

type ListAppointments struct {
	deps Deps
}

func NewListAppointments(deps Deps) *ListAppointments {
	return &ListAppointments{deps: deps.withDefaults()}
}

func (uc *ListAppointments) Execute(ctx context.Context, in ListAppointmentsInput) (*ListAppointmentsOutput, error) {
	_, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	f := domain.ListFilter{
		AccountID: in.AccountID,
		StaffID:   in.StaffID,
		Page:      in.Page,
		Limit:     in.Limit,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}

	if in.Status != "" {
		if f.Status, err = domain.ParseStatus(in.Status); err != nil {
			return nil, err
		}
	}
	if in.StartDate != "" {
		from, err := parseDate(in.StartDate, loc)
		if err != nil {
			return nil, err
		}
		f.From = &from
	}
	if in.EndDate != "" {
		end, err := parseDate(in.EndDate, loc)
		if err != nil {
			return nil, err
		}
		// endDate is inclusive
		to := end.AddDate(0, 0, 1)
		f.To = &to
	}

	aps, total, err := uc.deps.Repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}

	pages := total / int64(f.Limit)
	if total%int64(f.Limit) != 0 {
		pages++
	}

	return &ListAppointmentsOutput{
		Appointments: dto.FromAppointments(aps, loc),
		Pagination: Pagination{
			Page:       f.Page,
			Limit:      f.Limit,
			Total:      total,
			TotalPages: pages,
		},
	}, nil
}
