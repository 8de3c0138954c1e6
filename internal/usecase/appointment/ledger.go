package appointment

import (
	"context"
	"time"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
)

// applyLedger runs the sale/session side of a status transition. It must
// be called inside the transaction that writes the appointment row.
// staffID is the staff member credited with the session.
func applyLedger(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	effect domain.LedgerEffect,
	staffID uint,
	at time.Time,
) error {

	if ap.SaleID == nil {
		return nil
	}
	saleID := *ap.SaleID

	switch effect {
	case domain.LedgerConsume:
		ok, err := tx.DecrementRemainingSessions(ctx, saleID)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusiness(httperr.CodeSessionExhausted)
		}

		if ap.Service.IsSessionBased {
			return tx.CreateSession(ctx, &models.Session{
				SaleID:      saleID,
				StaffID:     &staffID,
				SessionDate: at,
				Status:      models.SessionStatusCompleted,
				Notes:       ap.Notes,
			})
		}

	case domain.LedgerRestore:
		if err := tx.IncrementRemainingSessions(ctx, saleID); err != nil {
			return err
		}

		if ap.Service.IsSessionBased {
			return tx.DeleteLatestCompletedSession(ctx, saleID, staffID)
		}
	}

	return nil
}
