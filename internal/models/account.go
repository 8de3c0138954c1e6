package models

import "time"

// Account is a tenant (business). Everything else is scoped by AccountID.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BusinessName string    `gorm:"size:150;not null" json:"businessName"`
	Phone        string    `gorm:"size:20" json:"phone"`
	Timezone     string    `gorm:"size:64" json:"timezone"`
	IsActive     bool      `gorm:"default:true" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
