package timezone

import (
	"sync"
	"time"
)

const FallbackTimezone = "Europe/Istanbul"

var (
	mu              sync.RWMutex
	defaultTimezone = FallbackTimezone
)

// SetDefault changes the timezone used for accounts without one.
func SetDefault(tz string) {
	if !IsValid(tz) {
		return
	}
	mu.Lock()
	defaultTimezone = tz
	mu.Unlock()
}

func Default() string {
	mu.RLock()
	defer mu.RUnlock()
	return defaultTimezone
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(Default()); err == nil {
		return loc
	}
	return time.UTC
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay compares calendar days in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
