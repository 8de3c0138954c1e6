package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const PaymentStatusCompleted = "COMPLETED"

type Payment struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	SaleID uint `gorm:"index;not null" json:"saleId"`

	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"size:30" json:"paymentMethod"`
	Status        string          `gorm:"size:20;not null" json:"status"`
	PaymentDate   time.Time       `json:"paymentDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
