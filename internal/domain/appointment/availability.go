package appointment

import "time"

type AvailabilityInput struct {
	AccountID uint
	StaffID   uint
	ServiceID uint
	Date      string
}

type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	Duration  int       `json:"duration"`
}

type Availability struct {
	Date                 string      `json:"date"`
	StaffID              uint        `json:"staffId"`
	ServiceID            uint        `json:"serviceId"`
	IsWorking            bool        `json:"isWorking"`
	Message              string      `json:"message,omitempty"`
	WorkingHours         *WindowView `json:"workingHours,omitempty"`
	ServiceDuration      int         `json:"serviceDuration"`
	SlotInterval         int         `json:"slotInterval"`
	AvailableSlots       []Slot      `json:"availableSlots"`
	TotalSlots           int         `json:"totalSlots"`
	ExistingAppointments []Busy      `json:"existingAppointments"`
}

// EnumerateSlots walks the window from its start in steps of
// SlotIntervalMinutes(duration). A slot is kept when it ends inside the
// window, overlaps no busy interval and, if onlyAfter is non-zero, starts
// strictly after it.
func EnumerateSlots(window WorkingWindow, durationMinutes int, busy []Busy, onlyAfter time.Time) []Slot {
	slots := []Slot{}
	if durationMinutes <= 0 {
		return slots
	}

	length := time.Duration(durationMinutes) * time.Minute
	step := time.Duration(SlotIntervalMinutes(durationMinutes)) * time.Minute

	for cur := window.Start; !cur.Add(length).After(window.End); cur = cur.Add(step) {
		slot := Interval{Start: cur, End: cur.Add(length)}

		if !onlyAfter.IsZero() && !cur.After(onlyAfter) {
			continue
		}
		if FindConflict(busy, slot) != nil {
			continue
		}

		slots = append(slots, Slot{
			Start:     slot.Start,
			End:       slot.End,
			StartTime: slot.Start.Format(ClockLayout),
			EndTime:   slot.End.Format(ClockLayout),
			Duration:  slot.Minutes(),
		})
	}

	return slots
}
