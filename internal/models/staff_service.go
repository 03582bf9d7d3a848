package models

import "time"

// StaffService binds one staff member to one service definition.
// Appointments are booked against this row, never against the definition.
type StaffService struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"index" json:"business_id"`

	EmployeeID uint `gorm:"index:idx_staff_service_pair,unique" json:"employee_id"`
	Employee   User `gorm:"foreignKey:EmployeeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"employee,omitempty"`

	ServiceDefinitionID uint              `gorm:"index:idx_staff_service_pair,unique" json:"service_definition_id"`
	ServiceDefinition   ServiceDefinition `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"service_definition,omitempty"`

	Price    *float64 `json:"price"`
	Disabled bool     `gorm:"default:false" json:"disabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectivePrice is the staff-specific price, falling back to the
// definition's base price.
func (s StaffService) EffectivePrice() float64 {
	if s.Price != nil {
		return *s.Price
	}
	return s.ServiceDefinition.BasePrice
}
