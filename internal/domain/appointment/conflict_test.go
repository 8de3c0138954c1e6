package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huseyingedek/geras-api/internal/models"
)

func appointmentAt(id uint, start time.Time, minutes int, status Status) models.Appointment {
	return models.Appointment{
		ID:              id,
		AppointmentDate: start,
		Status:          string(status),
		Client:          models.Client{FirstName: "Ayşe", LastName: "Yılmaz"},
		Service:         models.Service{ServiceName: "Cilt Bakımı", DurationMinutes: &minutes},
	}
}

func TestBusyIntervalsSkipsCancelledAndExcluded(t *testing.T) {
	aps := []models.Appointment{
		appointmentAt(1, at(10, 0), 60, StatusPlanned),
		appointmentAt(2, at(11, 0), 30, StatusCancelled),
		appointmentAt(3, at(12, 0), 45, StatusCompleted),
	}

	busy := BusyIntervals(aps, 3, time.UTC)

	require.Len(t, busy, 1)
	assert.Equal(t, uint(1), busy[0].AppointmentID)
	assert.Equal(t, "10:00", busy[0].StartTime)
	assert.Equal(t, "11:00", busy[0].EndTime)
	assert.Equal(t, "Ayşe Yılmaz", busy[0].ClientName)
}

func TestFindConflict(t *testing.T) {
	busy := BusyIntervals([]models.Appointment{appointmentAt(7, at(10, 0), 60, StatusPlanned)}, 0, time.UTC)

	assert.Nil(t, FindConflict(busy, Interval{Start: at(11, 0), End: at(12, 0)}))
	assert.Nil(t, FindConflict(busy, Interval{Start: at(9, 0), End: at(10, 0)}))

	c := FindConflict(busy, Interval{Start: at(10, 30), End: at(11, 30)})
	require.NotNil(t, c)
	assert.Equal(t, uint(7), c.AppointmentID)
}

func TestBusyIntervalsDefaultDuration(t *testing.T) {
	ap := models.Appointment{ID: 1, AppointmentDate: at(10, 0), Status: string(StatusPlanned)}

	busy := BusyIntervals([]models.Appointment{ap}, 0, time.UTC)

	require.Len(t, busy, 1)
	assert.Equal(t, at(11, 0), busy[0].End)
}
