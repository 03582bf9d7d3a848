package models

import "time"

// ServiceDefinition is what a business sells. BaseDuration drives the
// length of every appointment booked against it.
type ServiceDefinition struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	Name         string  `gorm:"size:100;not null" json:"name"`
	Description  string  `gorm:"size:255" json:"description"`
	BaseDuration int     `gorm:"not null" json:"base_duration"`
	BasePrice    float64 `json:"base_price"`
	Category     string  `gorm:"size:50" json:"category"`
	Active       bool    `gorm:"default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
