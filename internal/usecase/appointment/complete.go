package appointment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/huseyingedek/geras-api/internal/audit"
	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/dto"
	"github.com/huseyingedek/geras-api/internal/models"
)

type CompleteAppointmentInput struct {
	AccountID     uint
	UserID        uint
	AppointmentID uint

	Notes       *string
	CompletedAt *string
}

// PaymentWarning is informational; it never blocks completion.
type PaymentWarning struct {
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	PaidAmount      decimal.Decimal `json:"paidAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Message         string          `json:"message"`
}

type CompleteAppointmentOutput struct {
	Appointment    dto.AppointmentListDTO `json:"appointment"`
	PaymentWarning *PaymentWarning        `json:"paymentWarning,omitempty"`
}

type CompleteAppointment struct {
	deps Deps
}

func NewCompleteAppointment(deps Deps) *CompleteAppointment {
	return &CompleteAppointment{deps: deps.withDefaults()}
}

func (uc *CompleteAppointment) Execute(
	ctx context.Context,
	in CompleteAppointmentInput,
) (*CompleteAppointmentOutput, error) {

	_, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	// The pre-read fails fast and feeds the payment warning; the status
	// is checked again on the locked row.
	current, err := lookupAppointment(ctx, uc.deps.Repo, in.AccountID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanComplete(domain.Status(current.Status)); err != nil {
		return nil, err
	}

	completedAt := uc.deps.Now().In(loc)
	if in.CompletedAt != nil && *in.CompletedAt != "" {
		if completedAt, err = parseDateTime(*in.CompletedAt, loc); err != nil {
			return nil, err
		}
	}

	warning, err := uc.paymentWarning(ctx, current.Sale)
	if err != nil {
		return nil, err
	}

	var from domain.Status
	err = uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err := lockAppointment(ctx, tx, in.AccountID, in.AppointmentID)
		if err != nil {
			return err
		}
		from = domain.Status(ap.Status)
		if err := domain.CanComplete(from); err != nil {
			return err
		}

		if in.Notes != nil {
			ap.Notes = *in.Notes
		}
		domain.Transition(ap, domain.StatusCompleted, completedAt)

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}
		return applyLedger(ctx, tx, ap, domain.ClassifyTransition(from, domain.StatusCompleted), ap.StaffID, completedAt)
	})
	if err != nil {
		return nil, err
	}

	completed, err := lookupAppointment(ctx, uc.deps.Repo, in.AccountID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	uc.deps.invalidate(ctx, in.AccountID, loc, staffDay{completed.StaffID, completed.AppointmentDate})
	uc.deps.record(in.AccountID, in.UserID, audit.ActionAppointmentCompleted, completed, map[string]any{
		"from":           string(from),
		"paymentWarning": warning != nil,
	})

	return &CompleteAppointmentOutput{
		Appointment:    dto.FromAppointment(*completed, loc),
		PaymentWarning: warning,
	}, nil
}

func (uc *CompleteAppointment) paymentWarning(ctx context.Context, sale *models.Sale) (*PaymentWarning, error) {
	if sale == nil {
		return nil, nil
	}

	paid, err := uc.deps.Repo.SumCompletedPayments(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	if paid.GreaterThanOrEqual(sale.TotalAmount) {
		return nil, nil
	}

	remaining := sale.TotalAmount.Sub(paid)
	return &PaymentWarning{
		TotalAmount:     sale.TotalAmount,
		PaidAmount:      paid,
		RemainingAmount: remaining,
		Message:         "Ödeme tamamlanmadı. Kalan tutar: " + remaining.StringFixed(2) + " TL",
	}, nil
}
