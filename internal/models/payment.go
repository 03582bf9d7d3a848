package models

import "time"

// Payment settles one appointment. A non-empty external reference settles
// at most one appointment per provider.
type Payment struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	BusinessID    uint        `gorm:"index" json:"business_id"`
	AppointmentID uint        `gorm:"uniqueIndex" json:"appointment_id"`
	Appointment   Appointment `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Amount            float64 `json:"amount"`
	Method            string  `gorm:"size:30" json:"method"`
	Provider          string  `gorm:"size:30;uniqueIndex:idx_payment_reference,priority:1,where:external_reference <> ''" json:"provider"`
	ExternalReference string  `gorm:"size:100;uniqueIndex:idx_payment_reference,priority:2,where:external_reference <> ''" json:"external_reference,omitempty"`

	RecordedByID *uint     `json:"recorded_by_id"`
	CreatedAt    time.Time `json:"created_at"`
}
