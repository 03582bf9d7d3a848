package availability

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// SlotSource is the read side the checker needs. Both gorm repositories
// satisfy it, so the booking transaction can pass itself in.
type SlotSource interface {
	ListSlots(ctx context.Context, businessID, staffID uint) ([]models.WeeklyAvailability, error)
}

type Checker struct{}

func NewChecker() *Checker {
	return &Checker{}
}

// IsAvailable reports whether [start, start+duration) fits inside one of
// the staff member's weekly slots.
func (Checker) IsAvailable(
	ctx context.Context,
	src SlotSource,
	businessID uint,
	staffID uint,
	start time.Time,
	durationMinutes int,
) (bool, error) {

	if durationMinutes <= 0 {
		return false, nil
	}

	rows, err := src.ListSlots(ctx, businessID, staffID)
	if err != nil {
		return false, fmt.Errorf("list availability: %w", err)
	}

	schedule, err := domain.ScheduleFromModels(rows)
	if err != nil {
		return false, err
	}

	return schedule.Covers(start, time.Duration(durationMinutes)*time.Minute), nil
}

// ======================================================
// Query use case
// ======================================================

type CheckAvailability struct {
	repo    domain.Repository
	checker *Checker
}

func NewCheckAvailability(repo domain.Repository, checker *Checker) *CheckAvailability {
	return &CheckAvailability{repo: repo, checker: checker}
}

func (uc *CheckAvailability) Execute(
	ctx context.Context,
	businessID uint,
	staffID uint,
	start time.Time,
	durationMinutes int,
) (bool, error) {

	if _, err := activeStaff(ctx, uc.repo, businessID, staffID); err != nil {
		return false, err
	}
	return uc.checker.IsAvailable(ctx, uc.repo, businessID, staffID, start, durationMinutes)
}
