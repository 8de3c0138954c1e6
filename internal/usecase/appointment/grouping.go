package appointment

import (
	"time"

	domain "github.com/huseyingedek/geras-api/internal/domain/appointment"
	"github.com/huseyingedek/geras-api/internal/dto"
)

var dayNames = [...]string{"Pazar", "Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi"}

type HourGroup struct {
	Hour         string                   `json:"hour"`
	Appointments []dto.AppointmentListDTO `json:"appointments"`
}

type DayGroup struct {
	Date         string                   `json:"date"`
	DayOfWeek    int                      `json:"dayOfWeek"`
	DayName      string                   `json:"dayName"`
	Appointments []dto.AppointmentListDTO `json:"appointments"`
}

type StatusSummary struct {
	Total     int `json:"total"`
	Planned   int `json:"planned"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// groupByHour keys on the "HH:00" of each start; input order is kept.
func groupByHour(items []dto.AppointmentListDTO) []HourGroup {
	groups := []HourGroup{}
	index := map[string]int{}

	for _, it := range items {
		hour := it.AppointmentDate.Format("15") + ":00"
		i, ok := index[hour]
		if !ok {
			i = len(groups)
			index[hour] = i
			groups = append(groups, HourGroup{Hour: hour, Appointments: []dto.AppointmentListDTO{}})
		}
		groups[i].Appointments = append(groups[i].Appointments, it)
	}
	return groups
}

// groupByDay returns one entry per day in [start, start+days), empty days
// included.
func groupByDay(items []dto.AppointmentListDTO, start time.Time, days int) []DayGroup {
	groups := make([]DayGroup, days)
	index := make(map[string]int, days)

	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		key := d.Format(dateLayout)
		index[key] = i
		groups[i] = DayGroup{
			Date:         key,
			DayOfWeek:    int(d.Weekday()),
			DayName:      dayNames[d.Weekday()],
			Appointments: []dto.AppointmentListDTO{},
		}
	}

	for _, it := range items {
		if i, ok := index[it.AppointmentDate.Format(dateLayout)]; ok {
			groups[i].Appointments = append(groups[i].Appointments, it)
		}
	}
	return groups
}

func summarize(items []dto.AppointmentListDTO) StatusSummary {
	s := StatusSummary{Total: len(items)}
	for _, it := range items {
		switch domain.Status(it.Status) {
		case domain.StatusPlanned:
			s.Planned++
		case domain.StatusCompleted:
			s.Completed++
		case domain.StatusCancelled:
			s.Cancelled++
		}
	}
	return s
}

// startOfWeek returns Monday 00:00 of t's week.
func startOfWeek(t time.Time) time.Time {
	day, _ := dayBounds(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
