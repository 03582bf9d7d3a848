package appointment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/lock"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/telemetry"
	ucAvailability "github.com/BruksfildServices01/service-scheduler/internal/usecase/availability"
)

type UpdateAppointmentInput struct {
	BusinessID    uint
	AppointmentID uint
	ActorID       *uint
	Edit          domain.Edit
}

// UpdateAppointment edits a RESERVED appointment. A new start time goes
// through the same availability and overlap checks as a fresh booking,
// with the appointment itself excluded.
type UpdateAppointment struct {
	repo    domain.Repository
	locker  lock.Locker
	checker *ucAvailability.Checker
	audit   *audit.Dispatcher
}

func NewUpdateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	checker *ucAvailability.Checker,
	audit *audit.Dispatcher,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:    repo,
		locker:  locker,
		checker: checker,
		audit:   audit,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	ctx, span := telemetry.Tracer().Start(ctx, "appointment.update",
		trace.WithAttributes(attribute.Int64("appointment.id", int64(in.AppointmentID))),
	)
	defer span.End()

	current, err := loadAppointment(ctx, uc.repo, in.BusinessID, in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.CanEdit(domain.Status(current.Status)); err != nil {
		return nil, err
	}

	unlock, err := uc.locker.Lock(ctx, LockKey(current.StaffServiceID))
	if err != nil {
		return nil, fmt.Errorf("booking lock: %w", err)
	}
	defer unlock()

	var (
		ap          *models.Appointment
		rescheduled bool
	)

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error

		// Fresh copy under the lock.
		ap, err = lockAppointment(ctx, tx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return err
		}
		from := domain.Status(ap.Status)
		if err := domain.CanEdit(from); err != nil {
			return err
		}

		var duration time.Duration
		if in.Edit.Reschedules(ap) {
			rescheduled = true

			ss, err := resolveStaffService(ctx, tx, in.BusinessID, ap.StaffServiceID)
			if err != nil {
				return err
			}

			minutes := ss.ServiceDefinition.BaseDuration
			if err := checkSlot(ctx, tx, uc.checker, ss, *in.Edit.StartTime, minutes, ap.ID); err != nil {
				return err
			}
			duration = time.Duration(minutes) * time.Minute
		}

		if err := domain.ApplyEdit(ap, in.Edit, duration); err != nil {
			return err
		}
		return saveAppointment(ctx, tx, ap, from)
	})
	if err != nil {
		return nil, asConflict(err)
	}

	slog.InfoContext(ctx, "appointment updated",
		"appointment_id", ap.ID,
		"rescheduled", rescheduled,
	)

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     in.ActorID,
		Action:     audit.ActionAppointmentUpdated,
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   map[string]any{"rescheduled": rescheduled},
	})

	return ap, nil
}
