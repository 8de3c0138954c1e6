package appointment

import (
	"context"

	"github.com/huseyingedek/geras-api/internal/dto"
)

type GetAppointment struct {
	deps Deps
}

func NewGetAppointment(deps Deps) *GetAppointment {
	return &GetAppointment{deps: deps.withDefaults()}
}

func (uc *GetAppointment) Execute(ctx context.Context, accountID, appointmentID uint) (*dto.AppointmentListDTO, error) {
	_, loc, err := uc.deps.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	ap, err := lookupAppointment(ctx, uc.deps.Repo, accountID, appointmentID)
	if err != nil {
		return nil, err
	}

	out := dto.FromAppointment(*ap, loc)
	return &out, nil
}
