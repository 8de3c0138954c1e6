package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is a purchased service package. RemainingSessions is decremented
// when an appointment is completed, never when it is booked.
type Sale struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AccountID uint `gorm:"index;not null" json:"accountId"`

	ClientID  uint    `gorm:"index;not null" json:"clientId"`
	Client    Client  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client"`
	ServiceID uint    `gorm:"index;not null" json:"serviceId"`
	Service   Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service"`

	TotalAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"totalAmount"`
	RemainingSessions int             `gorm:"not null;default:1" json:"remainingSessions"`
	SaleDate          time.Time       `json:"saleDate"`
	Notes             string          `gorm:"size:255" json:"notes"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
