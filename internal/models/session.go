package models

import "time"

const SessionStatusCompleted = "COMPLETED"

// Session is one consumed unit of a session-based Sale.
type Session struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	SaleID  uint  `gorm:"index;not null" json:"saleId"`
	StaffID *uint `gorm:"index" json:"staffId"`

	SessionDate time.Time `json:"sessionDate"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	Notes       string    `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
