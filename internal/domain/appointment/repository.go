package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ErrStatusChanged is returned by UpdateAppointment when the stored
// status no longer matches the one the caller read.
var ErrStatusChanged = errors.New("appointment status changed")

type ListFilter struct {
	BusinessID     uint
	StaffServiceID uint
	Status         Status
	From           *time.Time
	To             *time.Time
	Limit          int
	Offset         int
}

type Repository interface {
	// WithinTx runs fn against a repository bound to a single transaction.
	WithinTx(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Staff-service --------
	GetStaffService(
		ctx context.Context,
		businessID uint,
		staffServiceID uint,
	) (*models.StaffService, error)

	LockStaffService(
		ctx context.Context,
		staffServiceID uint,
	) error

	// -------- Availability (read) --------
	ListSlots(
		ctx context.Context,
		businessID uint,
		staffID uint,
	) ([]models.WeeklyAvailability, error)

	// -------- Appointment (conflict) --------
	ListActiveAppointments(
		ctx context.Context,
		staffServiceID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment (create / state change) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	// LockAppointment reads the appointment and row-locks it until the
	// surrounding transaction ends.
	LockAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	// UpdateAppointment writes ap only if its stored status is still
	// expected, else ErrStatusChanged.
	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
		expected Status,
	) error

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	// -------- Payment --------
	CreatePayment(
		ctx context.Context,
		p *models.Payment,
	) error

	PaymentReferenceUsed(
		ctx context.Context,
		provider string,
		reference string,
	) (bool, error)
}
