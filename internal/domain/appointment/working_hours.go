package appointment

import (
	"fmt"
	"time"

	"github.com/huseyingedek/geras-api/internal/models"
)

const ClockLayout = "15:04"

type WorkingWindow struct {
	Start time.Time
	End   time.Time
}

type WindowView struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ParseClock parses an "HH:MM" time of day.
func ParseClock(hm string) (hour, minute int, err error) {
	t, err := time.Parse(ClockLayout, hm)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid clock %q: %w", hm, err)
	}
	return t.Hour(), t.Minute(), nil
}

// ResolveWindow anchors the working-hours clock times on the calendar day
// of day, in day's location.
func ResolveWindow(wh *models.WorkingHours, day time.Time) (WorkingWindow, error) {
	sh, sm, err := ParseClock(wh.StartTime)
	if err != nil {
		return WorkingWindow{}, err
	}
	eh, em, err := ParseClock(wh.EndTime)
	if err != nil {
		return WorkingWindow{}, err
	}

	loc := day.Location()
	start := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, loc)
	if !end.After(start) {
		return WorkingWindow{}, fmt.Errorf("working hours end %s is not after start %s", wh.EndTime, wh.StartTime)
	}

	return WorkingWindow{Start: start, End: end}, nil
}

// Contains reports whether [start,end) lies entirely inside the window.
func (w WorkingWindow) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

func (w WorkingWindow) View() WindowView {
	return WindowView{Start: w.Start.Format(ClockLayout), End: w.End.Format(ClockLayout)}
}
