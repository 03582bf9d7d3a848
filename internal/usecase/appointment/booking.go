package appointment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/availability"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	ucAvailability "github.com/BruksfildServices01/service-scheduler/internal/usecase/availability"
)

// LockKey names the booking lock of a staff-service.
func LockKey(staffServiceID uint) string {
	return "staff-service:" + strconv.FormatUint(uint64(staffServiceID), 10)
}

// resolveStaffService row-locks the staff-service inside tx and checks it
// can take bookings.
func resolveStaffService(
	ctx context.Context,
	tx domain.Repository,
	businessID uint,
	staffServiceID uint,
) (*models.StaffService, error) {

	if err := tx.LockStaffService(ctx, staffServiceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staffServiceNotFound(staffServiceID)
		}
		return nil, fmt.Errorf("lock staff-service %d: %w", staffServiceID, err)
	}

	ss, err := tx.GetStaffService(ctx, businessID, staffServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staffServiceNotFound(staffServiceID)
		}
		return nil, fmt.Errorf("load staff-service %d: %w", staffServiceID, err)
	}

	if ss.Disabled {
		return nil, httperr.BadRequest("staff_service_disabled",
			"staff-service %d is disabled", ss.ID)
	}
	if ss.Employee.ID == 0 || !ss.Employee.Active {
		return nil, httperr.BadRequest("staff_inactive",
			"staff member %d is not active", ss.EmployeeID)
	}
	if !ss.ServiceDefinition.Active {
		return nil, httperr.BadRequest("service_inactive",
			"service %d is not active", ss.ServiceDefinitionID)
	}
	if ss.ServiceDefinition.BaseDuration <= 0 {
		return nil, httperr.BadRequest("invalid_service_duration",
			"service %d has no duration", ss.ServiceDefinitionID)
	}

	return ss, nil
}

// checkSlot runs the availability engine and then the overlap detector.
func checkSlot(
	ctx context.Context,
	tx domain.Repository,
	checker *ucAvailability.Checker,
	ss *models.StaffService,
	start time.Time,
	durationMinutes int,
	excludeID uint,
) error {

	ok, err := checker.IsAvailable(ctx, tx, ss.BusinessID, ss.EmployeeID, start, durationMinutes)
	if err != nil {
		return err
	}
	if !ok {
		end := start.Add(time.Duration(durationMinutes) * time.Minute)
		return httperr.BadRequest("not_available",
			"staff member %d is not available on %s %s-%s",
			ss.EmployeeID,
			availability.WeekdayOf(start),
			start.Format("15:04"),
			end.Format("15:04"),
		)
	}

	conflict, err := HasOverlap(ctx, tx, ss.ID, start, durationMinutes, excludeID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return conflictError(conflict)
	}
	return nil
}

func staffServiceNotFound(id uint) error {
	return httperr.BadRequest("staff_service_not_found",
		"staff-service %d not found", id)
}

func appointmentNotFound(id uint) error {
	return httperr.NotFound("appointment_not_found",
		"appointment %d not found", id)
}

// loadAppointment maps a missing row to a business error.
func loadAppointment(
	ctx context.Context,
	repo domain.Repository,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointmentNotFound(appointmentID)
		}
		return nil, fmt.Errorf("load appointment %d: %w", appointmentID, err)
	}
	return ap, nil
}

// lockAppointment is loadAppointment with the row held until tx ends.
func lockAppointment(
	ctx context.Context,
	tx domain.Repository,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := tx.LockAppointment(ctx, businessID, appointmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointmentNotFound(appointmentID)
		}
		return nil, fmt.Errorf("lock appointment %d: %w", appointmentID, err)
	}
	return ap, nil
}

// saveAppointment writes ap if nobody moved it off from since it was read.
func saveAppointment(
	ctx context.Context,
	tx domain.Repository,
	ap *models.Appointment,
	from domain.Status,
) error {

	err := tx.UpdateAppointment(ctx, ap, from)
	if errors.Is(err, domain.ErrStatusChanged) {
		return httperr.BadRequest("appointment_changed",
			"appointment %d is no longer %s", ap.ID, from)
	}
	return err
}

// asConflict turns a storage-level overlap into the same error the
// detector returns.
func asConflict(err error) error {
	if httperr.IsExclusionConflict(err) {
		return httperr.Conflict("time_conflict", "the requested interval is already booked")
	}
	return err
}
