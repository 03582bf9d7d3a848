package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ConflictSource is the read side of the overlap detector.
type ConflictSource interface {
	ListActiveAppointments(
		ctx context.Context,
		staffServiceID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)
}

// HasOverlap returns the first non-cancelled appointment of the
// staff-service intersecting [start, start+duration), ignoring excludeID.
func HasOverlap(
	ctx context.Context,
	src ConflictSource,
	staffServiceID uint,
	start time.Time,
	durationMinutes int,
	excludeID uint,
) (*models.Appointment, error) {

	candidate := domain.NewInterval(start, time.Duration(durationMinutes)*time.Minute)

	existing, err := src.ListActiveAppointments(ctx, staffServiceID, candidate.Start, candidate.End)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	return domain.FindConflict(existing, candidate, excludeID), nil
}

func conflictError(ap *models.Appointment) error {
	return httperr.Conflict("time_conflict",
		"overlaps appointment %d (%s - %s)",
		ap.ID,
		ap.StartTime.Format(time.RFC3339),
		ap.EndTime.Format(time.RFC3339),
	)
}
