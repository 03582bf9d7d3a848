package models

import (
	"time"

	"gorm.io/gorm"
)

// WeeklyAvailability is one recurring window. Rows are only ever replaced
// as a whole set per staff member; previous sets stay soft-deleted.
type WeeklyAvailability struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	EmployeeID uint `gorm:"index:idx_availability_owner" json:"employee_id"`
	BusinessID uint `gorm:"index:idx_availability_owner" json:"business_id"`

	DayOfWeek   int    `gorm:"not null" json:"day_of_week"`
	StartTime   string `gorm:"size:5;not null" json:"start_time"`
	EndTime     string `gorm:"size:5;not null" json:"end_time"`
	IsOvernight bool   `gorm:"default:false" json:"is_overnight"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (WeeklyAvailability) TableName() string {
	return "weekly_availabilities"
}
