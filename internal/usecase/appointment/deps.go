package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/huseyingedek/geras-api/internal/audit"
	"github.com/huseyingedek/geras-api/internal/cache"
	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
	"github.com/huseyingedek/geras-api/internal/notification"
	"github.com/huseyingedek/geras-api/internal/timezone"
)

// ======================================================
// DEPENDENCIES
// ======================================================

type AuditSink interface {
	Dispatch(ev audit.Event)
}

type Notifier interface {
	Notify(msg notification.Message)
}

// Deps is shared by every appointment use case. Only Repo is required.
type Deps struct {
	Repo     domain.Repository
	Audit    AuditSink
	Notifier Notifier
	Cache    cache.Availability
	Now      func() time.Time
}

type nopAudit struct{}

func (nopAudit) Dispatch(audit.Event) {}

type nopNotifier struct{}

func (nopNotifier) Notify(notification.Message) {}

func (d Deps) withDefaults() Deps {
	if d.Audit == nil {
		d.Audit = nopAudit{}
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// ======================================================
// LOOKUPS
// ======================================================

func mapNotFound(err error, code string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

// loadAccount returns the tenant together with its location.
func (d Deps) loadAccount(ctx context.Context, accountID uint) (*models.Account, *time.Location, error) {
	acc, err := d.Repo.GetAccount(ctx, accountID)
	if err != nil {
		return nil, nil, mapNotFound(err, httperr.CodeAccountNotFound)
	}
	return acc, timezone.Location(acc.Timezone), nil
}

func lookupStaff(ctx context.Context, repo domain.Repository, accountID, staffID uint) (*models.Staff, error) {
	staff, err := repo.GetActiveStaff(ctx, accountID, staffID)
	if err != nil {
		return nil, mapNotFound(err, httperr.CodeStaffNotFound)
	}
	return staff, nil
}

func lookupService(ctx context.Context, repo domain.Repository, accountID, serviceID uint) (*models.Service, error) {
	svc, err := repo.GetActiveService(ctx, accountID, serviceID)
	if err != nil {
		return nil, mapNotFound(err, httperr.CodeServiceNotFound)
	}
	return svc, nil
}

func lookupAppointment(ctx context.Context, repo domain.Repository, accountID, id uint) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, accountID, id)
	if err != nil {
		return nil, mapNotFound(err, httperr.CodeAppointmentNotFound)
	}
	return ap, nil
}

// lockAppointment is lookupAppointment under a row lock; tx must be the
// repository handed to a Transaction callback.
func lockAppointment(ctx context.Context, tx domain.Repository, accountID, id uint) (*models.Appointment, error) {
	ap, err := tx.LockAppointment(ctx, accountID, id)
	if err != nil {
		return nil, mapNotFound(err, httperr.CodeAppointmentNotFound)
	}
	return ap, nil
}

// ======================================================
// AFTER-COMMIT SIDE EFFECTS
// ======================================================

// invalidate drops cached availability for the staff/day pairs touched by
// a write. It runs after commit and before the response, so a read that
// follows the response never sees the old entry. A cancelled request
// still invalidates.
func (d Deps) invalidate(ctx context.Context, accountID uint, loc *time.Location, touched ...staffDay) {
	c := context.WithoutCancel(ctx)
	for _, t := range touched {
		d.Cache.InvalidateDay(c, accountID, t.staffID, t.day.In(loc))
	}
}

type staffDay struct {
	staffID uint
	day     time.Time
}

func (d Deps) notify(kind notification.Kind, acc *models.Account, ap *models.Appointment, loc *time.Location) {
	d.Notifier.Notify(notification.Build(kind, notification.TemplateData{
		AppointmentID: ap.ID,
		BusinessName:  acc.BusinessName,
		ClientName:    ap.Client.FullName(),
		ClientPhone:   ap.Client.Phone,
		ClientEmail:   ap.Client.Email,
		ServiceName:   ap.Service.ServiceName,
		StaffName:     ap.Staff.FullName,
		Start:         ap.AppointmentDate.In(loc),
	}))
}

func (d Deps) record(accountID, userID uint, action string, ap *models.Appointment, meta map[string]any) {
	d.Audit.Dispatch(audit.Event{
		AccountID: accountID,
		UserID:    audit.Ptr(userID),
		Action:    action,
		Entity:    audit.EntityAppointment,
		EntityID:  audit.Ptr(ap.ID),
		Metadata:  meta,
	})
}

// recordConflict keeps a trail of rejected double bookings.
func (d Deps) recordConflict(accountID, userID, staffID uint, start time.Time, err error) {
	if !httperr.IsBusiness(err, httperr.CodeTimeConflict) {
		return
	}
	be, _ := httperr.AsBusiness(err)
	d.Audit.Dispatch(audit.Event{
		AccountID: accountID,
		UserID:    audit.Ptr(userID),
		Action:    audit.ActionAppointmentConflict,
		Entity:    audit.EntityStaff,
		EntityID:  audit.Ptr(staffID),
		Metadata: map[string]any{
			"requestedStart": start,
			"details":        be.Details,
		},
	})
}
