package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/timezone"
)

type GetAvailability struct {
	deps Deps
}

func NewGetAvailability(deps Deps) *GetAvailability {
	return &GetAvailability{deps: deps.withDefaults()}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.Availability, error) {

	var missing []string
	if in.StaffID == 0 {
		missing = append(missing, "staffId")
	}
	if in.Date == "" {
		missing = append(missing, "date")
	}
	if in.ServiceID == 0 {
		missing = append(missing, "serviceId")
	}
	if len(missing) > 0 {
		return nil, missingFields(missing...)
	}

	_, loc, err := uc.deps.loadAccount(ctx, in.AccountID)
	if err != nil {
		return nil, err
	}

	day, err := parseDate(in.Date, loc)
	if err != nil {
		return nil, err
	}

	if _, err := lookupStaff(ctx, uc.deps.Repo, in.AccountID, in.StaffID); err != nil {
		return nil, err
	}
	svc, err := lookupService(ctx, uc.deps.Repo, in.AccountID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	duration := svc.Duration()
	out := &domain.Availability{
		Date:                 day.Format(dateLayout),
		StaffID:              in.StaffID,
		ServiceID:            in.ServiceID,
		ServiceDuration:      duration,
		SlotInterval:         domain.SlotIntervalMinutes(duration),
		AvailableSlots:       []domain.Slot{},
		ExistingAppointments: []domain.Busy{},
	}

	// --------------------------------------------------
	// Past day: a validation failure carrying the result
	// --------------------------------------------------
	now := uc.deps.Now().In(loc)
	if day.Before(timezone.StartOfDay(now)) {
		out.Message = "Geçmiş bir tarih için müsaitlik sorgulanamaz."
		return nil, httperr.ErrBusiness(httperr.CodePastDate).
			WithMessage(out.Message).
			WithDetails(out)
	}

	// today's slots depend on the clock and are never cached
	isToday := timezone.SameDay(day, now)
	var (
		key       string
		cacheable bool
	)
	if !isToday {
		key, cacheable = uc.deps.Cache.Key(ctx, in.AccountID, in.StaffID, in.ServiceID, day)
	}
	if cacheable {
		var cached domain.Availability
		if uc.deps.Cache.Get(ctx, key, &cached) {
			return &cached, nil
		}
	}

	// --------------------------------------------------
	// Working hours
	// --------------------------------------------------
	wh, err := uc.deps.Repo.GetWorkingHours(ctx, in.StaffID, int(day.Weekday()))
	if errors.Is(err, domain.ErrNotFound) {
		out.Message = "Personel bu gün çalışmıyor."
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	window, err := domain.ResolveWindow(wh, day)
	if err != nil {
		return nil, fmt.Errorf("staff %d working hours: %w", in.StaffID, err)
	}
	view := window.View()
	out.IsWorking = true
	out.WorkingHours = &view

	// --------------------------------------------------
	// Busy intervals + enumeration
	// --------------------------------------------------
	dayStart, dayEnd := dayBounds(day)
	aps, err := uc.deps.Repo.ListStaffAppointmentsForDay(ctx, in.AccountID, in.StaffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	out.ExistingAppointments = domain.BusyIntervals(aps, 0, loc)

	var onlyAfter time.Time
	if isToday {
		onlyAfter = now
	}
	out.AvailableSlots = domain.EnumerateSlots(window, duration, out.ExistingAppointments, onlyAfter)
	out.TotalSlots = len(out.AvailableSlots)

	if cacheable {
		uc.deps.Cache.Save(ctx, key, out)
	}

	return out, nil
}
