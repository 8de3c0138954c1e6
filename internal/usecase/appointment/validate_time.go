package appointment

import (
	"context"
	"time"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
)

type ValidateAppointmentTimeInput struct {
	AccountID            uint
	StaffID              uint
	ServiceID            uint
	AppointmentDate      string
	ExcludeAppointmentID uint
}

type ValidateAppointmentTimeOutput struct {
	Valid        bool              `json:"valid"`
	Start        time.Time         `json:"start"`
	End          time.Time         `json:"end"`
	WorkingHours domain.WindowView `json:"workingHours"`
}

// ValidateAppointmentTime is the dry run of a booking. It goes through the
// same checkSlot call as the write paths and persists nothing.
type ValidateAppointmentTime struct {
	deps Deps
}

func NewValidateAppointmentTime(deps Deps) *ValidateAppointmentTime {
	return &ValidateAppointmentTime{deps: deps.withDefaults()}
}

func (uc *ValidateAppointmentTime) Execute(
	ctx context.Context,
	in ValidateAppointmentTimeInput,
) (*ValidateAppointmentTimeOutput, error) {

	var missing []string
	if in.StaffID == 0 {
		missing = append(missing, "staffId")
	}
	if in.ServiceID == 0 {
		missing = append(missing, "serviceId")
	}
	if in.AppointmentDate == "" {
		missing = append(missing, "appointmentDate")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	_, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	start, err := parseDateTime(in.AppointmentDate, loc)
	if err != nil {
		return nil, err
	}
	if err := ensureFuture(start, uc.deps.Now().In(loc)); err != nil {
		return nil, err
	}

	svc, err := lookupService(ctx, uc.deps.Repo, in.AccountID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if _, err := lookupStaff(ctx, uc.deps.Repo, in.AccountID, in.StaffID); err != nil {
		return nil, err
	}

	res, err := checkSlot(ctx, uc.deps.Repo, slotRequest{
		AccountID: in.AccountID,
		StaffID:   in.StaffID,
		Service:   svc,
		Start:     start,
		ExcludeID: in.ExcludeAppointmentID,
	})
	if err != nil {
		return nil, err
	}

	return &ValidateAppointmentTimeOutput{
		Valid:        true,
		Start:        res.Start,
		End:          res.End,
		WorkingHours: res.Window.View(),
	}, nil
}
