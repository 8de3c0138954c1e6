package appointment

import (
	"context"
	"time"

	"github.com/huseyingedek/geras-api/internal/audit"
	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/dto"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/notification"
)

// UpdateAppointmentInput carries a partial update; nil fields are left
// unchanged.
type UpdateAppointmentInput struct {
	AccountID     uint
	UserID        uint
	AppointmentID uint

	StaffID         *uint
	AppointmentDate *string
	Status          *string
	Notes           *string
	CompletedAt     *string
}

type UpdateAppointment struct {
	deps Deps
}

func NewUpdateAppointment(deps Deps) *UpdateAppointment {
	return &UpdateAppointment{deps: deps.withDefaults()}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*dto.AppointmentListDTO, error) {

	acc, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}
	now := uc.deps.Now().In(loc)

	// --------------------------------------------------
	// Parse the request before any lock is taken
	// --------------------------------------------------
	var requestedStatus domain.Status
	if in.Status != nil {
		if requestedStatus, err = domain.ParseStatus(*in.Status); err != nil {
			return nil, err
		}
	}

	var requestedStart *time.Time
	if in.AppointmentDate != nil {
		t, err := parseDateTime(*in.AppointmentDate, loc)
		if err != nil {
			return nil, err
		}
		requestedStart = &t
	}

	completedAt := now
	if in.CompletedAt != nil && *in.CompletedAt != "" {
		if completedAt, err = parseDateTime(*in.CompletedAt, loc); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Transaction: locked appointment row, then ledger effect
	// --------------------------------------------------
	var (
		oldStatus, newStatus   domain.Status
		oldStaffID, newStaffID uint
		oldStart, newStart     time.Time
		effect                 domain.LedgerEffect
	)
	err = uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err := lockAppointment(ctx, tx, in.AccountID, in.AppointmentID)
		if err != nil {
			return err
		}

		oldStatus, newStatus = domain.Status(ap.Status), domain.Status(ap.Status)
		if requestedStatus != "" {
			newStatus = requestedStatus
		}

		oldStaffID, newStaffID = ap.StaffID, ap.StaffID
		if in.StaffID != nil && *in.StaffID != oldStaffID {
			if _, err := lookupStaff(ctx, tx, in.AccountID, *in.StaffID); err != nil {
				return err
			}
			newStaffID = *in.StaffID
		}

		oldStart, newStart = ap.AppointmentDate.In(loc), ap.AppointmentDate.In(loc)
		if requestedStart != nil {
			newStart = *requestedStart
		}
		dateChanged := !newStart.Equal(oldStart)
		if dateChanged {
			if err := ensureFuture(newStart, now); err != nil {
				return err
			}
		}

		// a reactivated appointment reclaims the slot it already had
		moved := dateChanged || newStaffID != oldStaffID
		reactivated := oldStatus == domain.StatusCancelled && newStatus != domain.StatusCancelled
		if (moved || reactivated) && newStatus != domain.StatusCancelled {
			if err := tx.LockStaff(ctx, in.AccountID, newStaffID); err != nil {
				return mapNotFound(err, httperr.CodeStaffNotFound)
			}
			if _, err := checkSlot(ctx, tx, slotRequest{
				AccountID:    in.AccountID,
				StaffID:      newStaffID,
				Service:      &ap.Service,
				Start:        newStart,
				ExcludeID:    ap.ID,
				ConflictOnly: !moved,
			}); err != nil {
				return err
			}
		}

		ap.StaffID = newStaffID
		ap.AppointmentDate = newStart
		if in.Notes != nil {
			ap.Notes = *in.Notes
		}
		if newStatus != oldStatus {
			domain.Transition(ap, newStatus, completedAt)
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return err
		}

		// a restore credits back the staff member who completed it
		effect = domain.ClassifyTransition(oldStatus, newStatus)
		ledgerStaff := newStaffID
		if effect == domain.LedgerRestore {
			ledgerStaff = oldStaffID
		}
		return applyLedger(ctx, tx, ap, effect, ledgerStaff, completedAt)
	})
	if err != nil {
		uc.deps.recordConflict(in.AccountID, in.UserID, newStaffID, newStart, err)
		return nil, err
	}

	updated, err := lookupAppointment(ctx, uc.deps.Repo, in.AccountID, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	uc.deps.invalidate(ctx, in.AccountID, loc,
		staffDay{oldStaffID, oldStart},
		staffDay{newStaffID, newStart},
	)
	uc.deps.record(in.AccountID, in.UserID, audit.ActionAppointmentUpdated, updated, map[string]any{
		"from":   string(oldStatus),
		"to":     string(newStatus),
		"ledger": effect.String(),
	})
	if newStatus == domain.StatusCancelled && oldStatus != domain.StatusCancelled {
		uc.deps.notify(notification.KindCancelled, acc, updated, loc)
	}

	out := dto.FromAppointment(*updated, loc)
	return &out, nil
}

