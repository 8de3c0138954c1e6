package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/models"
)

type slotRequest struct {
	AccountID uint
	StaffID   uint
	Service   *models.Service
	// Start must be in the account's location.
	Start     time.Time
	ExcludeID uint
	// ConflictOnly skips the working-hours checks. Used when an appointment
	// keeps its slot and only has to reclaim it.
	ConflictOnly bool
}

type slotResult struct {
	Start  time.Time
	End    time.Time
	Window domain.WorkingWindow
}

// checkSlot is the single booking decision used by create, update and the
// dry-run validation: working day, working window containment, then the
// conflict detector.
func checkSlot(ctx context.Context, repo domain.Repository, req slotRequest) (*slotResult, error) {
	start := req.Start
	end := start.Add(time.Duration(req.Service.Duration()) * time.Minute)

	var window domain.WorkingWindow
	if !req.ConflictOnly {
		var err error
		if window, err = checkWorkingHours(ctx, repo, req.StaffID, start, end); err != nil {
			return nil, err
		}
	}

	dayStart, dayEnd := dayBounds(start)
	aps, err := repo.ListStaffAppointmentsForDay(ctx, req.AccountID, req.StaffID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	busy := domain.BusyIntervals(aps, req.ExcludeID, start.Location())
	if c := domain.FindConflict(busy, domain.Interval{Start: start, End: end}); c != nil {
		return nil, httperr.ErrBusiness(httperr.CodeTimeConflict).
			WithMessage(fmt.Sprintf(
				"Bu saatte personelin başka bir randevusu var: %s (%s - %s).",
				c.ClientName, c.StartTime, c.EndTime,
			)).
			WithDetails(map[string]any{"conflict": c})
	}

	return &slotResult{Start: start, End: end, Window: window}, nil
}

func checkWorkingHours(ctx context.Context, repo domain.Repository, staffID uint, start, end time.Time) (domain.WorkingWindow, error) {
	wh, err := repo.GetWorkingHours(ctx, staffID, int(start.Weekday()))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.WorkingWindow{}, httperr.ErrBusiness(httperr.CodeNotWorkingDay).
			WithDetails(map[string]any{"dayOfWeek": int(start.Weekday())})
	}
	if err != nil {
		return domain.WorkingWindow{}, err
	}

	window, err := domain.ResolveWindow(wh, start)
	if err != nil {
		return domain.WorkingWindow{}, fmt.Errorf("staff %d working hours: %w", staffID, err)
	}

	if !window.Contains(start, end) {
		view := window.View()
		return domain.WorkingWindow{}, httperr.ErrBusiness(httperr.CodeOutsideWorkingHours).
			WithMessage(fmt.Sprintf("Randevu saati personelin çalışma saatleri (%s - %s) dışında.", view.Start, view.End)).
			WithDetails(map[string]any{
				"workingHours":   view,
				"requestedStart": start.Format(domain.ClockLayout),
				"requestedEnd":   end.Format(domain.ClockLayout),
			})
	}
	return window, nil
}
