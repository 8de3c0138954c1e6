package appointment

import (
	"time"

	"github.com/huseyingedek/geras-api/internal/models"
)

// Busy is an existing non-cancelled appointment expanded to its interval.
type Busy struct {
	AppointmentID uint      `json:"appointmentId"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	StartTime     string    `json:"startTime"`
	EndTime       string    `json:"endTime"`
	ClientName    string    `json:"clientName"`
	ServiceName   string    `json:"serviceName"`
	Status        string    `json:"status"`
}

func (b Busy) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// BusyIntervals expands appointments to [start, start+serviceDuration),
// skipping cancelled ones and the appointment with id excludeID.
func BusyIntervals(aps []models.Appointment, excludeID uint, loc *time.Location) []Busy {
	out := make([]Busy, 0, len(aps))
	for _, ap := range aps {
		if Status(ap.Status) == StatusCancelled {
			continue
		}
		if excludeID != 0 && ap.ID == excludeID {
			continue
		}

		start := ap.AppointmentDate.In(loc)
		end := ap.EndTime().In(loc)
		out = append(out, Busy{
			AppointmentID: ap.ID,
			Start:         start,
			End:           end,
			StartTime:     start.Format(ClockLayout),
			EndTime:       end.Format(ClockLayout),
			ClientName:    ap.Client.FullName(),
			ServiceName:   ap.Service.ServiceName,
			Status:        ap.Status,
		})
	}
	return out
}

// FindConflict returns the first busy interval overlapping want.
func FindConflict(busy []Busy, want Interval) *Busy {
	for i := range busy {
		if want.Overlaps(busy[i].Interval()) {
			return &busy[i]
		}
	}
	return nil
}
