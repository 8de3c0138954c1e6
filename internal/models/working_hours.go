package models

import "time"

// WorkingHours holds one weekday window for a staff member. Only the
// time of day is meaningful, so start/end are kept as "15:04" strings.
type WorkingHours struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	StaffID uint `gorm:"uniqueIndex:idx_working_hours_staff_day;not null" json:"staffId"`

	// 0 = Sunday ... 6 = Saturday
	DayOfWeek int `gorm:"uniqueIndex:idx_working_hours_staff_day;not null" json:"dayOfWeek"`

	StartTime string `gorm:"size:5" json:"startTime"`
	EndTime   string `gorm:"size:5" json:"endTime"`
	IsWorking bool   `gorm:"default:true" json:"isWorking"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
