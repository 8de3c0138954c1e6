package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTimes(slots []Slot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.StartTime
	}
	return out
}

func TestEnumerateSlotsFullDay(t *testing.T) {
	w := WorkingWindow{Start: at(9, 0), End: at(17, 0)}

	slots := EnumerateSlots(w, 30, nil, time.Time{})

	require.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "16:30", slots[15].StartTime)
	assert.Equal(t, "17:00", slots[15].EndTime)
	for _, s := range slots {
		assert.Equal(t, 30, s.Duration)
	}
}

func TestEnumerateSlotsShortServiceUsesFifteenMinuteStep(t *testing.T) {
	w := WorkingWindow{Start: at(9, 0), End: at(10, 0)}

	slots := EnumerateSlots(w, 20, nil, time.Time{})

	assert.Equal(t, []string{"09:00", "09:15", "09:30"}, startTimes(slots))
}

func TestEnumerateSlotsSkipsBusy(t *testing.T) {
	w := WorkingWindow{Start: at(9, 0), End: at(12, 0)}
	busy := []Busy{{AppointmentID: 1, Start: at(10, 0), End: at(11, 0)}}

	slots := EnumerateSlots(w, 60, busy, time.Time{})

	assert.Equal(t, []string{"09:00", "11:00"}, startTimes(slots))
}

func TestEnumerateSlotsTodayOnlyAfterNow(t *testing.T) {
	w := WorkingWindow{Start: at(9, 0), End: at(12, 0)}

	slots := EnumerateSlots(w, 30, nil, at(10, 0))

	// 10:00 itself is not strictly after now.
	assert.Equal(t, []string{"10:30", "11:00", "11:30"}, startTimes(slots))
}

func TestEnumerateSlotsNeverOverrunsWindow(t *testing.T) {
	w := WorkingWindow{Start: at(9, 0), End: at(10, 10)}

	slots := EnumerateSlots(w, 45, nil, time.Time{})

	for _, s := range slots {
		assert.False(t, s.End.After(w.End), "slot %s overruns window", s.StartTime)
	}
	assert.Equal(t, []string{"09:00"}, startTimes(slots))
}

func TestEnumerateSlotsZeroDuration(t *testing.T) {
	slots := EnumerateSlots(WorkingWindow{Start: at(9, 0), End: at(10, 0)}, 0, nil, time.Time{})
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}
