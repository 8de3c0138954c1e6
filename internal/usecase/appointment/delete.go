package appointment

import (
	"context"

	"github.com/huseyingedek/geras-api/internal/audit"
	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
	"github.com/huseyingedek/geras-api/internal/notification"
)

type DeleteAppointmentInput struct {
	AccountID     uint
	UserID        uint
	AppointmentID uint
}

type DeleteAppointment struct {
	deps Deps
}

func NewDeleteAppointment(deps Deps) *DeleteAppointment {
	return &DeleteAppointment{deps: deps.withDefaults()}
}

// Execute hard-deletes the appointment. A completed appointment gives its
// session back to the sale in the same transaction.
func (uc *DeleteAppointment) Execute(ctx context.Context, in DeleteAppointmentInput) error {
	acc, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
	if err != nil {
		return err
	}

	// Kept in memory for the notification, the row is gone afterwards.
	var ap *models.Appointment
	err = uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		locked, err := lockAppointment(ctx, tx, in.AccountID, in.AppointmentID)
		if err != nil {
			return err
		}
		if domain.Status(locked.Status) == domain.StatusCompleted {
			if err := applyLedger(ctx, tx, locked, domain.LedgerRestore, locked.StaffID, uc.deps.Now()); err != nil {
				return err
			}
		}
		if err := tx.DeleteAppointment(ctx, in.AccountID, locked.ID); err != nil {
			return mapNotFound(err, httperr.CodeAppointmentNotFound)
		}
		ap = locked
		return nil
	})
	if err != nil {
		return err
	}
	status := domain.Status(ap.Status)

	uc.deps.invalidate(ctx, in.AccountID, loc, staffDay{ap.StaffID, ap.AppointmentDate})
	uc.deps.record(in.AccountID, in.UserID, audit.ActionAppointmentDeleted, ap, map[string]any{
		"status": string(status),
		"saleId": ap.SaleID,
	})
	if status == domain.StatusPlanned || status == domain.StatusCompleted {
		uc.deps.notify(notification.KindDeleted, acc, ap, loc)
	}

	return nil
}
