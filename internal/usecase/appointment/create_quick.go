package appointment

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/huseyingedek/geras-api/internal/audit"
	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/dto"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
	"github.com/huseyingedek/geras-api/internal/notification"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateQuickAppointmentInput struct {
	AccountID uint
	UserID    uint

	FirstName string
	LastName  string
	Email     string
	Phone     string

	ServiceID       uint
	StaffID         uint
	AppointmentDate string
	Notes           string

	TotalAmount       *decimal.Decimal
	RemainingSessions *int
}

type CreateQuickAppointmentOutput struct {
	Appointment dto.AppointmentListDTO `json:"appointment"`
	ClientID    uint                   `json:"clientId"`
	SaleID      uint                   `json:"saleId"`
}

// ======================================================
// USE CASE
// ======================================================

// CreateQuickAppointment books a first visit: client, sale and appointment
// are written together or not at all.
type CreateQuickAppointment struct {
	deps Deps
}

func NewCreateQuickAppointment(deps Deps) *CreateQuickAppointment {
	return &CreateQuickAppointment{deps: deps.withDefaults()}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateQuickAppointment) Execute(
	ctx context.Context,
	in CreateQuickAppointmentInput,
) (*CreateQuickAppointmentOutput, error) {

	// --------------------------------------------------
	// 1) Account + date
	// --------------------------------------------------
	acc, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.AppointmentDate) == "" {
		return nil, missingFields("appointmentDate")
	}
	start, err := parseDateTime(in.AppointmentDate, loc)
	if err != nil {
		return nil, err
	}
	if err := ensureFuture(start, uc.deps.Now().In(loc)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2) Required fields
	// --------------------------------------------------
	if err := in.validate(); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3) Service / staff
	// --------------------------------------------------
	svc, err := lookupService(ctx, uc.deps.Repo, in.AccountID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if _, err := lookupStaff(ctx, uc.deps.Repo, in.AccountID, in.StaffID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4) Transaction: lock staff, re-check, write
	// --------------------------------------------------
	var (
		client models.Client
		sale   models.Sale
		ap     models.Appointment
	)

	err = uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockStaff(ctx, in.AccountID, in.StaffID); err != nil {
			return mapNotFound(err, httperr.CodeStaffNotFound)
		}

		if _, err := checkSlot(ctx, tx, slotRequest{
			AccountID: in.AccountID,
			StaffID:   in.StaffID,
			Service:   svc,
			Start:     start,
		}); err != nil {
			return err
		}

		existing, err := tx.FindClientByEmailOrPhone(ctx, in.AccountID, in.email(), in.phone())
		if err == nil {
			return httperr.ErrBusiness(httperr.CodeDuplicateClient).
				WithDetails(map[string]any{"clientId": existing.ID})
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		client = models.Client{
			AccountID: in.AccountID,
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Phone:     in.phone(),
			Email:     in.email(),
		}
		if err := tx.CreateClient(ctx, &client); err != nil {
			return err
		}

		sale = models.Sale{
			AccountID:         in.AccountID,
			ClientID:          client.ID,
			ServiceID:         svc.ID,
			TotalAmount:       in.amount(svc),
			RemainingSessions: in.sessions(svc),
			SaleDate:          uc.deps.Now(),
		}
		if err := tx.CreateSale(ctx, &sale); err != nil {
			return err
		}

		ap = models.Appointment{
			AccountID:       in.AccountID,
			ClientID:        client.ID,
			ServiceID:       svc.ID,
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

	// --------------------------------------------------
	// 5) After commit
	// --------------------------------------------------
	created, err := lookupAppointment(ctx, uc.deps.Repo, in.AccountID, ap.ID)
	if err != nil {
		return nil, err
	}

	uc.deps.invalidate(ctx, in.AccountID, loc, staffDay{in.StaffID, start})
	uc.deps.record(in.AccountID, in.UserID, audit.ActionAppointmentCreated, created, map[string]any{
		"quick":    true,
		"clientId": client.ID,
		"saleId":   sale.ID,
	})
	uc.deps.notify(notification.KindCreated, acc, created, loc)

	return &CreateQuickAppointmentOutput{
		Appointment: dto.FromAppointment(*created, loc),
		ClientID:    client.ID,
		SaleID:      sale.ID,
	}, nil
}

var fieldValidator = validator.New()

func (in CreateQuickAppointmentInput) email() string {
	return strings.ToLower(strings.TrimSpace(in.Email))
}

func (in CreateQuickAppointmentInput) phone() string {
	return strings.TrimSpace(in.Phone)
}

func (in CreateQuickAppointmentInput) validate() error {
	var missing []string
	if strings.TrimSpace(in.FirstName) == "" {
		missing = append(missing, "firstName")
	}
	if strings.TrimSpace(in.LastName) == "" {
		missing = append(missing, "lastName")
	}
	if in.phone() == "" {
		missing = append(missing, "phone")
	}
	if in.ServiceID == 0 {
		missing = append(missing, "serviceId")
	}
	if in.StaffID == 0 {
		missing = append(missing, "staffId")
	}
	if len(missing) > 0 {
		return missingFields(missing...)
	}

	if email := in.email(); email != "" && fieldValidator.Var(email, "email") != nil {
		return httperr.ErrBusiness(httperr.CodeValidation).
			WithMessage("Geçersiz e-posta adresi.")
	}
	if in.RemainingSessions != nil && *in.RemainingSessions < 1 {
		return httperr.ErrBusiness(httperr.CodeValidation).
			WithMessage("Seans sayısı en az 1 olmalıdır.")
	}
	if in.TotalAmount != nil && in.TotalAmount.IsNegative() {
		return httperr.ErrBusiness(httperr.CodeValidation).
			WithMessage("Toplam tutar negatif olamaz.")
	}
	return nil
}

func (in CreateQuickAppointmentInput) amount(svc *models.Service) decimal.Decimal {
	if in.TotalAmount != nil {
		return *in.TotalAmount
	}
	return svc.Price
}

func (in CreateQuickAppointmentInput) sessions(svc *models.Service) int {
	if in.RemainingSessions != nil {
		return *in.RemainingSessions
	}
	if svc.IsSessionBased && svc.SessionCount > 0 {
		return svc.SessionCount
	}
	return 1
}

func missingFields(fields ...string) error {
	return httperr.ErrBusiness(httperr.CodeValidation).
		WithMessage("Zorunlu alanlar eksik: " + strings.Join(fields, ", ")).
		WithDetails(map[string]any{"missing": fields})
}
