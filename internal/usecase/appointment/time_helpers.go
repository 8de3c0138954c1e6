package appointment

import (
	"strings"
	"time"

	"github.com/huseyingedek/geras-api/internal/httperr"
	"github.com/huseyingedek/geras-api/internal/timezone"
)

const dateLayout = "2006-01-02"

// Accepted appointmentDate layouts. Values without an offset are read in
// the account's location.
var localDateTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidDate)
	}
	return t, nil
}

func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range localDateTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, httperr.ErrBusiness(httperr.CodeInvalidDate)
}

// dayBounds returns [00:00, next 00:00) of t's calendar day in t's location.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := timezone.StartOfDay(t)
	return start, start.AddDate(0, 0, 1)
}

func ensureFuture(start, now time.Time) error {
	if !start.After(now) {
		return httperr.ErrBusiness(httperr.CodePastDate)
	}
	return nil
}
