package models

import "time"

type Staff struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	AccountID uint    `gorm:"index;not null" json:"accountId"`
	Account   Account `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	FullName string `gorm:"size:100;not null" json:"fullName"`
	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	Role     string `gorm:"size:50" json:"role"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	WorkingHours []WorkingHours `gorm:"foreignKey:StaffID" json:"workingHours,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
