package appointment

import (
	"context"

	"github.com/huseyingedek/geras-api/internal/audit"
	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/dto"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
	"github.com/huseyingedek/geras-api/internal/notification"
)

type CreateAppointmentInput struct {
	AccountID uint
	UserID    uint

	SaleID          uint
	StaffID         uint
	AppointmentDate string
	Notes           string
}

// CreateAppointment books against an existing sale. Booking never touches
// the sale's counter; only completion consumes a session.
type CreateAppointment struct {
	deps Deps
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	return &CreateAppointment{deps: deps.withDefaults()}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*dto.AppointmentListDTO, error) {

	var missing []string
	if in.SaleID == 0 {
		missing = append(missing, "saleId")
	}
	if in.StaffID == 0 {
		missing = append(missing, "staffId")
	}
	if in.AppointmentDate == "" {
		missing = append(missing, "appointmentDate")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	acc, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
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

	// --------------------------------------------------
	// Sale
	// --------------------------------------------------
	sale, err := uc.deps.Repo.GetSale(ctx, in.AccountID, in.SaleID)
	if err != nil {
		return nil, mapNotFound(err, httperr.CodeSaleNotFound)
	}
	if sale.RemainingSessions <= 0 {
		return nil, httperr.ErrBusiness(httperr.CodeSessionExhausted)
	}

	svc, err := lookupService(ctx, uc.deps.Repo, in.AccountID, sale.ServiceID)
	if err != nil {
		return nil, err
	}
	if _, err := lookupStaff(ctx, uc.deps.Repo, in.AccountID, in.StaffID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Transaction
	// --------------------------------------------------
	var ap models.Appointment

	err = uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockStaff(ctx, in.AccountID, in.StaffID); err != nil {
			return mapNotFound(err, httperr.CodeStaffNotFound)
		}

		booked, err := tx.CountActiveAppointmentsForSale(ctx, in.AccountID, sale.ID)
		if err != nil {
			return err
		}
		if booked >= int64(sale.RemainingSessions) {
			return httperr.ErrBusiness(httperr.CodeSaleFullyBooked).
				WithDetails(map[string]any{
					"remainingSessions":  sale.RemainingSessions,
					"activeAppointments": booked,
				})
		}

		if _, err := checkSlot(ctx, tx, slotRequest{
			AccountID: in.AccountID,
			StaffID:   in.StaffID,
			Service:   svc,
			Start:     start,
		}); err != nil {
			return err
		}

		ap = models.Appointment{
			AccountID:       in.AccountID,
			ClientID:        sale.ClientID,
			ServiceID:       sale.ServiceID,
			StaffID:         in.StaffID,
			SaleID:          &sale.ID,
			AppointmentDate: start,
			Status:          string(domain.InitialStatus()),
			Notes:           in.Notes,
		}
		return tx.CreateAppointment(ctx, &ap)
	})
	if err != nil {
		uc.deps.recordConflict(in.AccountID, in.UserID, in.StaffID, start, err)
		return nil, err
	}

	created, err := lookupAppointment(ctx, uc.deps.Repo, in.AccountID, ap.ID)
	if err != nil {
		return nil, err
	}

	uc.deps.invalidate(ctx, in.AccountID, loc, staffDay{in.StaffID, start})
	uc.deps.record(in.AccountID, in.UserID, audit.ActionAppointmentCreated, created, map[string]any{
		"saleId": sale.ID,
	})
	uc.deps.notify(notification.KindCreated, acc, created, loc)

	out := dto.FromAppointment(*created, loc)
	return &out, nil
}
