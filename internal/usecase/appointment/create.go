package appointment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/lock"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/telemetry"
	ucAvailability "github.com/BruksfildServices01/service-scheduler/internal/usecase/availability"
)

// ======================================================
// INPUT
// ======================================================

type CustomerInfo struct {
	Name  string
	Phone string
	Email string
	Notes string
}

type CreateAppointmentInput struct {
	BusinessID     uint
	StaffServiceID uint
	Start          time.Time
	Customer       CustomerInfo
	CreatedByID    *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	locker  lock.Locker
	checker *ucAvailability.Checker
	audit   *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	locker lock.Locker,
	checker *ucAvailability.Checker,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		locker:  locker,
		checker: checker,
		audit:   audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	ctx, span := telemetry.Tracer().Start(ctx, "appointment.create",
		trace.WithAttributes(
			attribute.Int64("business.id", int64(in.BusinessID)),
			attribute.Int64("staff_service.id", int64(in.StaffServiceID)),
		),
	)
	defer span.End()

	if in.Start.IsZero() {
		return nil, httperr.BadRequest("invalid_start_time", "start time is required")
	}
	if strings.TrimSpace(in.Customer.Name) == "" {
		return nil, httperr.BadRequest("customer_name_required", "customer name is required")
	}

	// --------------------------------------------------
	// 1. Serialize bookings on this staff-service
	// --------------------------------------------------
	unlock, err := uc.locker.Lock(ctx, LockKey(in.StaffServiceID))
	if err != nil {
		return nil, fmt.Errorf("booking lock: %w", err)
	}
	defer unlock()

	// --------------------------------------------------
	// 2. Resolve, check, insert (one transaction)
	// --------------------------------------------------
	var ap *models.Appointment

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		ss, err := resolveStaffService(ctx, tx, in.BusinessID, in.StaffServiceID)
		if err != nil {
			return err
		}

		duration := ss.ServiceDefinition.BaseDuration

		if err := checkSlot(ctx, tx, uc.checker, ss, in.Start, duration, 0); err != nil {
			return err
		}

		ap = &models.Appointment{
			BusinessID:     in.BusinessID,
			StaffServiceID: ss.ID,
			CustomerName:   strings.TrimSpace(in.Customer.Name),
			CustomerPhone:  in.Customer.Phone,
			CustomerEmail:  in.Customer.Email,
			StartTime:      in.Start,
			EndTime:        in.Start.Add(time.Duration(duration) * time.Minute),
			Status:         string(domain.InitialStatus()),
			Notes:          in.Customer.Notes,
			CreatedByID:    in.CreatedByID,
		}

		return tx.CreateAppointment(ctx, ap)
	})
	if err != nil {
		err = asConflict(err)
		uc.reject(ctx, span, in, err)
		return nil, err
	}

	// --------------------------------------------------
	// 3. Audit
	// --------------------------------------------------
	slog.InfoContext(ctx, "appointment reserved",
		"appointment_id", ap.ID,
		"staff_service_id", ap.StaffServiceID,
		"start", ap.StartTime,
		"end", ap.EndTime,
	)
	span.SetAttributes(attribute.Int64("appointment.id", int64(ap.ID)))

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     in.CreatedByID,
		Action:     audit.ActionAppointmentCreated,
		Entity:     "appointment",
		EntityID:   &ap.ID,
	})

	return ap, nil
}

func (uc *CreateAppointment) reject(
	ctx context.Context,
	span trace.Span,
	in CreateAppointmentInput,
	err error,
) {
	kind := httperr.KindOf(err)
	if kind == "" {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create appointment failed")
		return
	}

	span.SetAttributes(attribute.String("booking.rejected", string(kind)))
	slog.InfoContext(ctx, "booking rejected",
		"staff_service_id", in.StaffServiceID,
		"start", in.Start,
		"reason", err.Error(),
	)

	if kind == httperr.KindConflict {
		uc.audit.Dispatch(audit.Event{
			BusinessID: in.BusinessID,
			UserID:     in.CreatedByID,
			Action:     audit.ActionAppointmentConflict,
			Entity:     "staff_service",
			EntityID:   &in.StaffServiceID,
			Metadata:   map[string]any{"start": in.Start, "reason": err.Error()},
		})
	}
}
