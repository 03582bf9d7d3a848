package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func (r *AppointmentGormRepository) WithinTx(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Staff-service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetStaffService(
	ctx context.Context,
	businessID uint,
	staffServiceID uint,
) (*models.StaffService, error) {

	var ss models.StaffService
	if err := r.db.WithContext(ctx).
		Preload("ServiceDefinition").
		Preload("Employee").
		Where("id = ? AND business_id = ?", staffServiceID, businessID).
		First(&ss).Error; err != nil {
		return nil, err
	}
	return &ss, nil
}

// LockStaffService takes a row lock that serializes bookings on the same
// staff-service until the surrounding transaction ends. No-op on SQLite.
func (r *AppointmentGormRepository) LockStaffService(
	ctx context.Context,
	staffServiceID uint,
) error {

	var ss models.StaffService
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", staffServiceID).
		First(&ss).Error
}

// --------------------------------------------------
// Availability (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListSlots(
	ctx context.Context,
	businessID uint,
	staffID uint,
) ([]models.WeeklyAvailability, error) {
	return listActiveSlots(r.db.WithContext(ctx), businessID, staffID)
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveAppointments(
	ctx context.Context,
	staffServiceID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"staff_service_id = ? AND status <> ? AND start_time < ? AND end_time > ?",
			staffServiceID,
			string(domain.StatusCancelled),
			end,
			start,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("StaffService.ServiceDefinition").
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) LockAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("StaffService.ServiceDefinition").
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

// UpdateAppointment is a compare-and-set on status: the row is written only
// while it still holds expected.
func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
	expected domain.Status,
) error {

	now := time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND business_id = ? AND status = ?", ap.ID, ap.BusinessID, string(expected)).
		Updates(map[string]any{
			"customer_name":  ap.CustomerName,
			"customer_phone": ap.CustomerPhone,
			"customer_email": ap.CustomerEmail,
			"start_time":     ap.StartTime,
			"end_time":       ap.EndTime,
			"status":         ap.Status,
			"notes":          ap.Notes,
			"cancelled_at":   ap.CancelledAt,
			"cancel_reason":  ap.CancelReason,
			"paid_at":        ap.PaidAt,
			"updated_at":     now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrStatusChanged
	}

	ap.UpdatedAt = now
	return nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("StaffService.ServiceDefinition").
		Where("business_id = ?", filter.BusinessID)

	if filter.StaffServiceID != 0 {
		q = q.Where("staff_service_id = ?", filter.StaffServiceID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.From != nil {
		q = q.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_time < ?", *filter.To)
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var apps []models.Appointment
	if err := q.
		Order("start_time ASC").
		Limit(limit).
		Offset(filter.Offset).
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Payment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *AppointmentGormRepository) PaymentReferenceUsed(
	ctx context.Context,
	provider string,
	reference string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("provider = ? AND external_reference = ?", provider, reference).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
