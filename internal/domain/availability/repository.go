package availability

import (
	"context"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type Repository interface {
	// GetStaff returns a staff member of the business, soft-deleted rows excluded.
	GetStaff(
		ctx context.Context,
		businessID uint,
		staffID uint,
	) (*models.User, error)

	ListSlots(
		ctx context.Context,
		businessID uint,
		staffID uint,
	) ([]models.WeeklyAvailability, error)

	// ReplaceSlots soft-deletes every active slot of the staff member and
	// inserts slots, atomically.
	ReplaceSlots(
		ctx context.Context,
		businessID uint,
		staffID uint,
		slots []models.WeeklyAvailability,
	) error
}
