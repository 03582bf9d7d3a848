package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type SlotInput struct {
	DayOfWeek   int
	StartTime   string
	EndTime     string
	IsOvernight bool
}

type SetWeeklyAvailabilityInput struct {
	BusinessID uint
	StaffID    uint
	ActorID    *uint
	Slots      []SlotInput
}

// ======================================================
// USE CASE
// ======================================================

// SetWeeklyAvailability replaces a staff member's whole weekly set.
type SetWeeklyAvailability struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSetWeeklyAvailability(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *SetWeeklyAvailability {
	return &SetWeeklyAvailability{
		repo:  repo,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *SetWeeklyAvailability) Execute(
	ctx context.Context,
	in SetWeeklyAvailabilityInput,
) ([]models.WeeklyAvailability, error) {

	// --------------------------------------------------
	// 1. Staff member
	// --------------------------------------------------
	if _, err := activeStaff(ctx, uc.repo, in.BusinessID, in.StaffID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Parse + well-formedness
	// --------------------------------------------------
	rows := make([]models.WeeklyAvailability, 0, len(in.Slots))
	slots := make([]domain.Slot, 0, len(in.Slots))

	for _, s := range in.Slots {
		row := models.WeeklyAvailability{
			EmployeeID:  in.StaffID,
			BusinessID:  in.BusinessID,
			DayOfWeek:   s.DayOfWeek,
			StartTime:   s.StartTime,
			EndTime:     s.EndTime,
			IsOvernight: s.IsOvernight,
		}

		slot, err := domain.SlotFromModel(row)
		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
		slots = append(slots, slot)
	}

	// --------------------------------------------------
	// 3. No two slots may share a minute
	// --------------------------------------------------
	if err := domain.ValidateSlots(slots); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Replace (soft-delete + insert, one transaction)
	// --------------------------------------------------
	if err := uc.repo.ReplaceSlots(ctx, in.BusinessID, in.StaffID, rows); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staffNotFound(in.StaffID)
		}
		return nil, fmt.Errorf("replace availability: %w", err)
	}

	slog.InfoContext(ctx, "availability replaced",
		"business_id", in.BusinessID,
		"staff_id", in.StaffID,
		"slots", len(rows),
	)

	staffID := in.StaffID
	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     in.ActorID,
		Action:     audit.ActionAvailabilityReplaced,
		Entity:     "user",
		EntityID:   &staffID,
		Metadata:   map[string]any{"slots": len(rows)},
	})

	return rows, nil
}

// ------------------------------------------------------
// helpers
// ------------------------------------------------------

func activeStaff(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
	staffID uint,
) (*models.User, error) {

	staff, err := repo.GetStaff(ctx, businessID, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staffNotFound(staffID)
		}
		return nil, fmt.Errorf("load staff %d: %w", staffID, err)
	}
	if !staff.Active {
		return nil, staffNotFound(staffID)
	}
	return staff, nil
}

func staffNotFound(staffID uint) error {
	return httperr.NotFound("staff_not_found", "staff member %d not found", staffID)
}
