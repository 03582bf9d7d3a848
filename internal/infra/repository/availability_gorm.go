package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type AvailabilityGormRepository struct {
	db *gorm.DB
}

func NewAvailabilityGormRepository(db *gorm.DB) *AvailabilityGormRepository {
	return &AvailabilityGormRepository{db: db}
}

func (r *AvailabilityGormRepository) GetStaff(
	ctx context.Context,
	businessID uint,
	staffID uint,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", staffID, businessID).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AvailabilityGormRepository) ListSlots(
	ctx context.Context,
	businessID uint,
	staffID uint,
) ([]models.WeeklyAvailability, error) {
	return listActiveSlots(r.db.WithContext(ctx), businessID, staffID)
}

func (r *AvailabilityGormRepository) ReplaceSlots(
	ctx context.Context,
	businessID uint,
	staffID uint,
	slots []models.WeeklyAvailability,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Serializes concurrent replaces for the same staff member.
		var staff models.User
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ? AND business_id = ?", staffID, businessID).
			First(&staff).Error; err != nil {
			return err
		}

		if err := tx.
			Where("employee_id = ? AND business_id = ?", staffID, businessID).
			Delete(&models.WeeklyAvailability{}).Error; err != nil {
			return err
		}

		if len(slots) == 0 {
			return nil
		}

		for i := range slots {
			slots[i].ID = 0
			slots[i].EmployeeID = staffID
			slots[i].BusinessID = businessID
		}
		return tx.Create(&slots).Error
	})
}

func listActiveSlots(db *gorm.DB, businessID, staffID uint) ([]models.WeeklyAvailability, error) {
	var slots []models.WeeklyAvailability
	if err := db.
		Where("employee_id = ? AND business_id = ?", staffID, businessID).
		Order("day_of_week ASC, start_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// Compile-time check
var _ domain.Repository = (*AvailabilityGormRepository)(nil)
