package workinghours

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/huseyingedek/geras-api/internal/audit"
	"github.com/huseyingedek/geras-api/internal/cache"
	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
)

// ======================================================
// DEPENDENCIES
// ======================================================

type AuditSink interface {
	Dispatch(ev audit.Event)
}

type Deps struct {
	Repo  domain.Repository
	Audit AuditSink
	Cache cache.Availability
}

type nopAudit struct{}

func (nopAudit) Dispatch(audit.Event) {}

func (d Deps) withDefaults() Deps {
	if d.Audit == nil {
		d.Audit = nopAudit{}
	}
	if d.Cache == nil {
		d.Cache = cache.Noop{}
	}
	return d
}

func lookupStaff(ctx context.Context, repo domain.Repository, accountID, staffID uint) error {
	if _, err := repo.GetActiveStaff(ctx, accountID, staffID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrNotFound(httperr.CodeStaffNotFound)
		}
		return err
	}
	return nil
}

// ======================================================
// GET
// ======================================================

type GetWorkingHours struct {
	deps Deps
}

func NewGetWorkingHours(deps Deps) *GetWorkingHours {
	return &GetWorkingHours{deps: deps.withDefaults()}
}

func (uc *GetWorkingHours) Execute(ctx context.Context, accountID, staffID uint) ([]models.WorkingHours, error) {
	if err := lookupStaff(ctx, uc.deps.Repo, accountID, staffID); err != nil {
		return nil, err
	}
	return uc.deps.Repo.ListWorkingHours(ctx, staffID)
}

// ======================================================
// REPLACE
// ======================================================

type Day struct {
	DayOfWeek int
	StartTime string
	EndTime   string
	IsWorking bool
}

type ReplaceWorkingHoursInput struct {
	AccountID uint
	UserID    uint
	StaffID   uint
	Days      []Day
}

// ReplaceWorkingHours swaps a staff member's whole week in one transaction.
// At most one row per weekday is accepted.
type ReplaceWorkingHours struct {
	deps Deps
}

func NewReplaceWorkingHours(deps Deps) *ReplaceWorkingHours {
	return &ReplaceWorkingHours{deps: deps.withDefaults()}
}

func (uc *ReplaceWorkingHours) Execute(ctx context.Context, in ReplaceWorkingHoursInput) ([]models.WorkingHours, error) {
	rows, err := buildRows(in.Days)
	if err != nil {
		return nil, err
	}

	if err := lookupStaff(ctx, uc.deps.Repo, in.AccountID, in.StaffID); err != nil {
		return nil, err
	}

	err = uc.deps.Repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.LockStaff(ctx, in.AccountID, in.StaffID); err != nil {
			return err
		}
		return tx.ReplaceWorkingHours(ctx, in.StaffID, rows)
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			return nil, httperr.ErrBusiness(httperr.CodeDuplicateWorkingDay)
		}
		return nil, err
	}

	saved, err := uc.deps.Repo.ListWorkingHours(ctx, in.StaffID)
	if err != nil {
		return nil, err
	}

	uc.deps.Cache.InvalidateStaff(context.WithoutCancel(ctx), in.AccountID, in.StaffID)

	uc.deps.Audit.Dispatch(audit.Event{
		AccountID: in.AccountID,
		UserID:    audit.Ptr(in.UserID),
		Action:    audit.ActionWorkingHoursReplaced,
		Entity:    audit.EntityStaff,
		EntityID:  audit.Ptr(in.StaffID),
		Metadata:  map[string]any{"days": len(saved)},
	})

	return saved, nil
}

func buildRows(days []Day) ([]models.WorkingHours, error) {
	seen := map[int]bool{}
	rows := make([]models.WorkingHours, 0, len(days))

	for _, d := range days {
		if d.DayOfWeek < 0 || d.DayOfWeek > 6 {
			return nil, invalidHours(fmt.Sprintf("Geçersiz gün: %d", d.DayOfWeek))
		}
		if seen[d.DayOfWeek] {
			return nil, httperr.ErrBusiness(httperr.CodeDuplicateWorkingDay).
				WithDetails(map[string]any{"dayOfWeek": d.DayOfWeek})
		}
		seen[d.DayOfWeek] = true

		if d.IsWorking || d.StartTime != "" || d.EndTime != "" {
			if err := checkClocks(d); err != nil {
				return nil, err
			}
		}

		rows = append(rows, models.WorkingHours{
			DayOfWeek: d.DayOfWeek,
			StartTime: d.StartTime,
			EndTime:   d.EndTime,
			IsWorking: d.IsWorking,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].DayOfWeek < rows[j].DayOfWeek })
	return rows, nil
}

func checkClocks(d Day) error {
	sh, sm, err := domain.ParseClock(d.StartTime)
	if err != nil {
		return invalidHours("Başlangıç saati HH:MM formatında olmalıdır.")
	}
	eh, em, err := domain.ParseClock(d.EndTime)
	if err != nil {
		return invalidHours("Bitiş saati HH:MM formatında olmalıdır.")
	}
	if eh*60+em <= sh*60+sm {
		return invalidHours("Bitiş saati başlangıç saatinden sonra olmalıdır.")
	}
	return nil
}

func invalidHours(msg string) error {
	return httperr.ErrBusiness(httperr.CodeInvalidWorkingHours).WithMessage(msg)
}
