package dto

import (
	"time"

	"github.com/huseyingedek/geras-api/internal/models"
)

type AppointmentListDTO struct {
	ID                uint       `json:"id"`
	AppointmentDate   time.Time  `json:"appointmentDate"`
	EndTime           time.Time  `json:"endTime"`
	StartClock        string     `json:"startClock"`
	EndClock          string     `json:"endClock"`
	Duration          int        `json:"duration"`
	Status            string     `json:"status"`
	Notes             string     `json:"notes"`
	ClientID          uint       `json:"clientId"`
	ClientName        string     `json:"clientName"`
	ClientPhone       string     `json:"clientPhone"`
	ServiceID         uint       `json:"serviceId"`
	ServiceName       string     `json:"serviceName"`
	StaffID           uint       `json:"staffId"`
	StaffName         string     `json:"staffName"`
	SaleID            *uint      `json:"saleId"`
	RemainingSessions *int       `json:"remainingSessions,omitempty"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
	CancelledAt       *time.Time `json:"cancelledAt,omitempty"`
}

// FromAppointment flattens an appointment with its relations preloaded.
// Times are rendered in loc.
func FromAppointment(ap models.Appointment, loc *time.Location) AppointmentListDTO {
	start := ap.AppointmentDate.In(loc)
	end := ap.EndTime().In(loc)

	out := AppointmentListDTO{
		ID:              ap.ID,
		AppointmentDate: start,
		EndTime:         end,
		StartClock:      start.Format("15:04"),
		EndClock:        end.Format("15:04"),
		Duration:        ap.Service.Duration(),
		Status:          ap.Status,
		Notes:           ap.Notes,
		ClientID:        ap.ClientID,
		ClientName:      ap.Client.FullName(),
		ClientPhone:     ap.Client.Phone,
		ServiceID:       ap.ServiceID,
		ServiceName:     ap.Service.ServiceName,
		StaffID:         ap.StaffID,
		StaffName:       ap.Staff.FullName,
		SaleID:          ap.SaleID,
		CompletedAt:     ap.CompletedAt,
		CancelledAt:     ap.CancelledAt,
	}
	if ap.Sale != nil {
		remaining := ap.Sale.RemainingSessions
		out.RemainingSessions = &remaining
	}
	return out
}

func FromAppointments(aps []models.Appointment, loc *time.Location) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, FromAppointment(ap, loc))
	}
	return out
}
