package models

import "time"

// AuditLog is one booking or availability event. Rows are append-only.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint   `gorm:"index:idx_audit_business_created,priority:1" json:"business_id"`
	UserID     *uint  `json:"user_id"`
	Action     string `gorm:"size:50;not null;index" json:"action"`

	Entity   string `gorm:"size:50;index" json:"entity"`
	EntityID *uint  `json:"entity_id"`
	Metadata string `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_audit_business_created,priority:2" json:"created_at"`
}
