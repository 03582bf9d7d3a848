package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Cancel(ap *models.Appointment, now time.Time, reason string) error {
	if err := CanTransition(Status(ap.Status), StatusCancelled); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancelReason = reason
	return nil
}

func Pay(ap *models.Appointment, now time.Time) error {
	if err := CanTransition(Status(ap.Status), StatusPaid); err != nil {
		return err
	}

	ap.Status = string(StatusPaid)
	ap.PaidAt = &now
	return nil
}

// Edit holds the optional field changes of an update; nil means unchanged.
type Edit struct {
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string
	Notes         *string
	StartTime     *time.Time
}

func (e Edit) Reschedules(ap *models.Appointment) bool {
	return e.StartTime != nil && !e.StartTime.Equal(ap.StartTime)
}

// ApplyEdit copies the changed fields. A new start keeps the snapshotted
// duration unless the caller supplies a fresh one.
func ApplyEdit(ap *models.Appointment, e Edit, duration time.Duration) error {
	if err := CanEdit(Status(ap.Status)); err != nil {
		return err
	}

	var name string
	if e.CustomerName != nil {
		name = strings.TrimSpace(*e.CustomerName)
		if name == "" {
			return httperr.BadRequest("customer_name_required", "customer name is required")
		}
	}

	if e.CustomerName != nil {
		ap.CustomerName = name
	}
	if e.CustomerPhone != nil {
		ap.CustomerPhone = *e.CustomerPhone
	}
	if e.CustomerEmail != nil {
		ap.CustomerEmail = *e.CustomerEmail
	}
	if e.Notes != nil {
		ap.Notes = *e.Notes
	}
	if e.StartTime != nil {
		if duration <= 0 {
			duration = ap.Duration()
		}
		ap.StartTime = *e.StartTime
		ap.EndTime = e.StartTime.Add(duration)
	}
	return nil
}
