package models

import "time"

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint     `gorm:"index" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	StaffServiceID uint         `gorm:"index:idx_appointment_slot" json:"staff_service_id"`
	StaffService   StaffService `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"staff_service,omitempty"`

	CustomerName  string `gorm:"size:100;not null" json:"customer_name"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone,omitempty"`
	CustomerEmail string `gorm:"size:100" json:"customer_email,omitempty"`

	// EndTime is start + service duration at booking time.
	StartTime time.Time `gorm:"index:idx_appointment_slot;not null" json:"start_time"`
	EndTime   time.Time `gorm:"not null" json:"end_time"`

	Status string `gorm:"size:20;default:'RESERVED';index" json:"status"`
	Notes  string `gorm:"size:255" json:"notes"`

	CreatedByID *uint `json:"created_by_id"`

	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`
	CancelReason string     `gorm:"size:255" json:"cancel_reason,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}
