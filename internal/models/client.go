package models

import (
	"strings"
	"time"
)

type Client struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	AccountID uint `gorm:"index;not null" json:"accountId"`

	FirstName string `gorm:"size:100;not null" json:"firstName"`
	LastName  string `gorm:"size:100" json:"lastName"`
	Phone     string `gorm:"size:20;index" json:"phone"`
	Email     string `gorm:"size:100;index" json:"email"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
