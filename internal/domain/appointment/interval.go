package appointment

import "time"

type Interval struct {
	Start time.Time
	End   time.Time
}

// MinutesOfDay returns hours*60+minutes of t in its own location.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// IntervalsOverlap uses half-open semantics: [startA,endA) and [startB,endB)
// overlap iff startA < endB && startB < endA. Touching endpoints do not overlap.
func IntervalsOverlap(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && startB.Before(endA)
}

func (i Interval) Overlaps(other Interval) bool {
	return IntervalsOverlap(i.Start, i.End, other.Start, other.End)
}

func (i Interval) Minutes() int {
	return int(i.End.Sub(i.Start) / time.Minute)
}

// SlotIntervalMinutes is the step between candidate slots for a service
// of the given length.
func SlotIntervalMinutes(serviceDurationMinutes int) int {
	if serviceDurationMinutes <= 20 {
		return 15
	}
	return 30
}
