package availability

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type GetWeeklyAvailability struct {
	repo domain.Repository
}

func NewGetWeeklyAvailability(repo domain.Repository) *GetWeeklyAvailability {
	return &GetWeeklyAvailability{repo: repo}
}

// Execute lists the active slots ordered by day, then start.
func (uc *GetWeeklyAvailability) Execute(
	ctx context.Context,
	businessID uint,
	staffID uint,
) ([]models.WeeklyAvailability, error) {

	if _, err := activeStaff(ctx, uc.repo, businessID, staffID); err != nil {
		return nil, err
	}

	rows, err := uc.repo.ListSlots(ctx, businessID, staffID)
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return rows, nil
}
