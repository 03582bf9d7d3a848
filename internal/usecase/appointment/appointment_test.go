package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/db/dbtest"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/service-scheduler/internal/lock"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	ucAvailability "github.com/BruksfildServices01/service-scheduler/internal/usecase/availability"
)

type env struct {
	db     *gorm.DB
	f      dbtest.Fixture
	repo   *repository.AppointmentGormRepository
	create *CreateAppointment
	update *UpdateAppointment
	cancel *CancelAppointment
}

// newEnv seeds a 30-minute service with Monday 09:00-17:00 availability.
func newEnv(t *testing.T) env {
	t.Helper()

	gdb := dbtest.New(t)
	f := dbtest.Seed(t, gdb, "booking")
	require.NoError(t, gdb.Model(&f.Service).Update("base_duration", 30).Error)
	dbtest.Slot(t, gdb, f, 1, "09:00", "17:00", false)

	repo := repository.NewAppointmentGormRepository(gdb)
	locker := lock.NewLocalLocker()
	checker := ucAvailability.NewChecker()

	return env{
		db:     gdb,
		f:      f,
		repo:   repo,
		create: NewCreateAppointment(repo, locker, checker, nil),
		update: NewUpdateAppointment(repo, locker, checker, nil),
		cancel: NewCancelAppointment(repo, nil),
	}
}

func (e env) book(t *testing.T, start time.Time) (*models.Appointment, error) {
	t.Helper()
	return e.create.Execute(context.Background(), CreateAppointmentInput{
		BusinessID:     e.f.Business.ID,
		StaffServiceID: e.f.StaffService.ID,
		Start:          start,
		Customer:       CustomerInfo{Name: "Jordan", Phone: "555-0100"},
	})
}

// Monday 2025-01-06.
func monday(hour, min int) time.Time {
	return dbtest.At(2025, time.January, 6, hour, min)
}

// ======================================================
// Create
// ======================================================

func TestCreate_ThenOverlappingBookingConflicts(t *testing.T) {
	e := newEnv(t)

	ap, err := e.book(t, monday(9, 0))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusReserved), ap.Status)
	assert.Equal(t, monday(9, 30), ap.EndTime)

	_, err = e.book(t, monday(9, 15))
	require.Error(t, err)
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))
	assert.Contains(t, err.Error(), "appointment 1")

	_, err = e.book(t, monday(9, 30))
	assert.NoError(t, err, "back-to-back bookings touch but do not overlap")
}

func TestCreate_NoAvailability(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Where("1 = 1").Delete(&models.WeeklyAvailability{}).Error)

	_, err := e.book(t, monday(10, 0))
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "not_available"))
	assert.Contains(t, err.Error(), "Monday")
}

func TestCreate_OutsideSlot(t *testing.T) {
	e := newEnv(t)

	_, err := e.book(t, monday(16, 45))
	assert.True(t, httperr.IsBusiness(err, "not_available"))

	_, err = e.book(t, dbtest.At(2025, time.January, 7, 10, 0))
	assert.True(t, httperr.IsBusiness(err, "not_available"), "Tuesday has no slot")
}

func TestCreate_CancelledFreesInterval(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ap, err := e.book(t, monday(11, 0))
	require.NoError(t, err)

	_, err = e.cancel.Execute(ctx, CancelAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: ap.ID,
		Reason:        "no-show",
	})
	require.NoError(t, err)

	_, err = e.book(t, monday(11, 0))
	assert.NoError(t, err)
}

func TestCreate_StaffServiceChecks(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.create.Execute(ctx, CreateAppointmentInput{
		BusinessID:     e.f.Business.ID,
		StaffServiceID: 424242,
		Start:          monday(10, 0),
		Customer:       CustomerInfo{Name: "Jordan"},
	})
	assert.True(t, httperr.IsBusiness(err, "staff_service_not_found"))

	_, err = e.create.Execute(ctx, CreateAppointmentInput{
		BusinessID:     e.f.Business.ID + 1,
		StaffServiceID: e.f.StaffService.ID,
		Start:          monday(10, 0),
		Customer:       CustomerInfo{Name: "Jordan"},
	})
	assert.True(t, httperr.IsBusiness(err, "staff_service_not_found"), "other business")

	require.NoError(t, e.db.Model(&e.f.StaffService).Update("disabled", true).Error)
	_, err = e.book(t, monday(10, 0))
	assert.True(t, httperr.IsBusiness(err, "staff_service_disabled"))

	require.NoError(t, e.db.Model(&e.f.StaffService).Update("disabled", false).Error)
	require.NoError(t, e.db.Model(&e.f.Staff).Update("active", false).Error)
	_, err = e.book(t, monday(10, 0))
	assert.True(t, httperr.IsBusiness(err, "staff_inactive"))
}

func TestCreate_RequiresCustomerName(t *testing.T) {
	e := newEnv(t)

	_, err := e.create.Execute(context.Background(), CreateAppointmentInput{
		BusinessID:     e.f.Business.ID,
		StaffServiceID: e.f.StaffService.ID,
		Start:          monday(10, 0),
	})
	assert.True(t, httperr.IsBusiness(err, "customer_name_required"))
}

func TestCreate_ConcurrentRequestsBookOnce(t *testing.T) {
	e := newEnv(t)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			_, err := e.book(t, monday(14, offset))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case httperr.KindOf(err) == httperr.KindConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i * 2)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)

	var apps []models.Appointment
	require.NoError(t, e.db.Order("start_time").Find(&apps).Error)
	assertNoOverlap(t, apps)
}

func assertNoOverlap(t *testing.T, apps []models.Appointment) {
	t.Helper()
	for i := range apps {
		for j := i + 1; j < len(apps); j++ {
			a, b := apps[i], apps[j]
			if a.Status == string(domain.StatusCancelled) || b.Status == string(domain.StatusCancelled) {
				continue
			}
			if a.StaffServiceID != b.StaffServiceID {
				continue
			}
			assert.False(t,
				domain.Interval{Start: a.StartTime, End: a.EndTime}.
					Overlaps(domain.Interval{Start: b.StartTime, End: b.EndTime}),
				"appointments %d and %d overlap", a.ID, b.ID)
		}
	}
}

// ======================================================
// Update / reschedule
// ======================================================

func TestUpdate_RescheduleChecksAgain(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.book(t, monday(9, 0))
	require.NoError(t, err)
	second, err := e.book(t, monday(10, 0))
	require.NoError(t, err)

	// moving onto itself (overlapping its old interval) is fine
	start := monday(10, 15)
	ap, err := e.update.Execute(ctx, UpdateAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: second.ID,
		Edit:          domain.Edit{StartTime: &start},
	})
	require.NoError(t, err)
	assert.Equal(t, monday(10, 45), ap.EndTime)

	clash := monday(9, 15)
	_, err = e.update.Execute(ctx, UpdateAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: second.ID,
		Edit:          domain.Edit{StartTime: &clash},
	})
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))

	outside := monday(18, 0)
	_, err = e.update.Execute(ctx, UpdateAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: first.ID,
		Edit:          domain.Edit{StartTime: &outside},
	})
	assert.True(t, httperr.IsBusiness(err, "not_available"))

	stored, err := e.repo.GetAppointment(ctx, e.f.Business.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, monday(9, 0), stored.StartTime.UTC(), "rejected reschedule leaves the row alone")
}

func TestUpdate_TerminalAppointment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ap, err := e.book(t, monday(9, 0))
	require.NoError(t, err)
	_, err = e.cancel.Execute(ctx, CancelAppointmentInput{BusinessID: e.f.Business.ID, AppointmentID: ap.ID})
	require.NoError(t, err)

	notes := "bring coffee"
	_, err = e.update.Execute(ctx, UpdateAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: ap.ID,
		Edit:          domain.Edit{Notes: &notes},
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_state"))
}

// ======================================================
// Cancel / Pay
// ======================================================

type stubVerifier struct {
	err    error
	called bool
	amount float64
}

func (s *stubVerifier) Provider() string { return "stub" }

func (s *stubVerifier) Verify(_ context.Context, _ string, amount float64) error {
	s.called = true
	s.amount = amount
	return s.err
}

func TestPay_ThenCancelFails(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	verifier := &stubVerifier{}
	pay := NewPayAppointment(e.repo, verifier, nil)

	ap, err := e.book(t, monday(9, 0))
	require.NoError(t, err)

	paid, p, err := pay.Execute(ctx, PayAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: ap.ID,
		Method:        "card",
		Reference:     "98765",
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPaid), paid.Status)
	assert.True(t, verifier.called)
	assert.InDelta(t, 50.0, verifier.amount, 1e-9)
	assert.Equal(t, "stub", p.Provider)
	assert.Equal(t, "card", p.Method)

	_, err = e.cancel.Execute(ctx, CancelAppointmentInput{BusinessID: e.f.Business.ID, AppointmentID: ap.ID})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_state_transition"))

	_, _, err = pay.Execute(ctx, PayAppointmentInput{BusinessID: e.f.Business.ID, AppointmentID: ap.ID})
	assert.True(t, httperr.IsBusiness(err, "invalid_state_transition"))

	var count int64
	require.NoError(t, e.db.Model(&models.Payment{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestPay_StaffPriceOverridesBase(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.db.Model(&e.f.StaffService).Update("price", 80.0).Error)

	ap, err := e.book(t, monday(9, 0))
	require.NoError(t, err)

	_, p, err := NewPayAppointment(e.repo, nil, nil).Execute(context.Background(), PayAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: ap.ID,
	})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, p.Amount, 1e-9)
	assert.Equal(t, "manual", p.Provider)
	assert.Equal(t, "cash", p.Method)
}

func TestPay_VerificationFailureWritesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	verifier := &stubVerifier{err: httperr.BadRequest("payment_not_approved", "pending")}

	ap, err := e.book(t, monday(9, 0))
	require.NoError(t, err)

	_, _, err = NewPayAppointment(e.repo, verifier, nil).Execute(ctx, PayAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: ap.ID,
		Reference:     "1",
	})
	assert.True(t, httperr.IsBusiness(err, "payment_not_approved"))

	stored, err := e.repo.GetAppointment(ctx, e.f.Business.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusReserved), stored.Status)
}

func TestPay_ReferenceSettlesOneAppointment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	pay := NewPayAppointment(e.repo, &stubVerifier{}, nil)

	first, err := e.book(t, monday(9, 0))
	require.NoError(t, err)
	second, err := e.book(t, monday(10, 0))
	require.NoError(t, err)

	_, _, err = pay.Execute(ctx, PayAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: first.ID,
		Reference:     "555",
	})
	require.NoError(t, err)

	_, _, err = pay.Execute(ctx, PayAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: second.ID,
		Reference:     " 555 ",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "payment_reference_used"))
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))

	stored, err := e.repo.GetAppointment(ctx, e.f.Business.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusReserved), stored.Status)
	assert.Nil(t, stored.PaidAt)

	var count int64
	require.NoError(t, e.db.Model(&models.Payment{}).Where("external_reference = ?", "555").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// Referenceless payments never collide.
	_, _, err = NewPayAppointment(e.repo, nil, nil).Execute(ctx, PayAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: second.ID,
	})
	require.NoError(t, err)
}

func TestPaymentReferenceIndexRejectsReplay(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first, err := e.book(t, monday(9, 0))
	require.NoError(t, err)
	second, err := e.book(t, monday(10, 0))
	require.NoError(t, err)

	require.NoError(t, e.repo.CreatePayment(ctx, &models.Payment{
		BusinessID: e.f.Business.ID, AppointmentID: first.ID, Amount: 50, Provider: "stub", ExternalReference: "555",
	}))
	err = e.repo.CreatePayment(ctx, &models.Payment{
		BusinessID: e.f.Business.ID, AppointmentID: second.ID, Amount: 50, Provider: "stub", ExternalReference: "555",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey) || httperr.IsUniqueViolation(err))

	used, err := e.repo.PaymentReferenceUsed(ctx, "stub", "555")
	require.NoError(t, err)
	assert.True(t, used)
	used, err = e.repo.PaymentReferenceUsed(ctx, "mercadopago", "555")
	require.NoError(t, err)
	assert.False(t, used)
}

func TestUpdateAppointment_StaleStatusWritesNothing(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	ap, err := e.book(t, monday(9, 0))
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, domain.Pay(ap, now))
	require.NoError(t, e.repo.UpdateAppointment(ctx, ap, domain.StatusReserved))

	locked, err := e.repo.LockAppointment(ctx, e.f.Business.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPaid), locked.Status)
	assert.Equal(t, e.f.StaffService.ID, locked.StaffService.ID)

	// A writer that still believes it is RESERVED loses.
	stale := *ap
	stale.Status = string(domain.StatusCancelled)
	stale.Notes = "stale"
	err = e.repo.UpdateAppointment(ctx, &stale, domain.StatusReserved)
	assert.ErrorIs(t, err, domain.ErrStatusChanged)

	stored, err := e.repo.GetAppointment(ctx, e.f.Business.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPaid), stored.Status)
	assert.Empty(t, stored.Notes)

	_, err = e.repo.LockAppointment(ctx, e.f.Business.ID+1, ap.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCancel_NotFound(t *testing.T) {
	e := newEnv(t)

	_, err := e.cancel.Execute(context.Background(), CancelAppointmentInput{
		BusinessID:    e.f.Business.ID,
		AppointmentID: 777,
	})
	require.Error(t, err)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))
}

// ======================================================
// Queries
// ======================================================

func TestListAppointments_Filters(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	a, err := e.book(t, monday(9, 0))
	require.NoError(t, err)
	_, err = e.book(t, monday(10, 0))
	require.NoError(t, err)
	_, err = e.cancel.Execute(ctx, CancelAppointmentInput{BusinessID: e.f.Business.ID, AppointmentID: a.ID})
	require.NoError(t, err)

	list := NewListAppointments(e.repo)

	all, err := list.Execute(ctx, domain.ListFilter{BusinessID: e.f.Business.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	reserved, err := list.Execute(ctx, domain.ListFilter{BusinessID: e.f.Business.ID, Status: domain.StatusReserved})
	require.NoError(t, err)
	require.Len(t, reserved, 1)
	assert.Equal(t, "Haircut", reserved[0].StaffService.ServiceDefinition.Name)

	_, err = list.Execute(ctx, domain.ListFilter{BusinessID: e.f.Business.ID, Status: "LATE"})
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))

	got, err := NewGetAppointment(e.repo).Execute(ctx, e.f.Business.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), got.Status)

	_, err = NewGetAppointment(e.repo).Execute(ctx, e.f.Business.ID+1, a.ID)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

// ======================================================
// Overlap detector
// ======================================================

type listErr struct{}

func (listErr) ListActiveAppointments(context.Context, uint, time.Time, time.Time) ([]models.Appointment, error) {
	return nil, errors.New("db down")
}

func TestHasOverlap_PropagatesStorageError(t *testing.T) {
	_, err := HasOverlap(context.Background(), listErr{}, 1, monday(9, 0), 30, 0)
	require.Error(t, err)
	assert.Equal(t, httperr.Kind(""), httperr.KindOf(err))
}

func TestLockKey(t *testing.T) {
	assert.Equal(t, "staff-service:42", LockKey(42))
}
