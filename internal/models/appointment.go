package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	AccountID uint `gorm:"index;not null" json:"accountId"`

	ClientID uint   `gorm:"index;not null" json:"clientId"`
	Client   Client `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`

	ServiceID uint    `gorm:"index;not null" json:"serviceId"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	StaffID uint  `gorm:"index:idx_appointments_staff_date;not null" json:"staffId"`
	Staff   Staff `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"staff"`

	SaleID *uint `gorm:"index" json:"saleId"`
	Sale   *Sale `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"sale,omitempty"`

	// Duration is derived from Service.Duration(), not stored.
	AppointmentDate time.Time `gorm:"index:idx_appointments_staff_date;not null" json:"appointmentDate"`

	Status string `gorm:"size:20;default:'PLANNED';not null" json:"status"`
	Notes  string `gorm:"size:500" json:"notes"`

	ReminderSentAt *time.Time `json:"reminderSentAt"`
	CompletedAt    *time.Time `json:"completedAt"`
	CancelledAt    *time.Time `json:"cancelledAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EndTime is AppointmentDate plus the linked service duration.
func (a Appointment) EndTime() time.Time {
	return a.AppointmentDate.Add(time.Duration(a.Service.Duration()) * time.Minute)
}
