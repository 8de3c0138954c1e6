package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const DefaultServiceDurationMinutes = 60

type Service struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AccountID uint `gorm:"index;not null" json:"accountId"`

	ServiceName     string          `gorm:"size:100;not null" json:"serviceName"`
	Description     string          `gorm:"size:255" json:"description"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	IsSessionBased  bool            `gorm:"default:false" json:"isSessionBased"`
	SessionCount    int             `gorm:"default:1" json:"sessionCount"`
	DurationMinutes *int            `json:"durationMinutes"`
	IsActive        bool            `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Duration returns the service length in minutes, 60 when unset.
func (s Service) Duration() int {
	if s.DurationMinutes == nil || *s.DurationMinutes <= 0 {
		return DefaultServiceDurationMinutes
	}
	return *s.DurationMinutes
}
