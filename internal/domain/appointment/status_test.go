package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

func TestCanTransition(t *testing.T) {
	all := []Status{StatusReserved, StatusCancelled, StatusPaid}

	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			allowed := from == StatusReserved && (to == StatusCancelled || to == StatusPaid)

			if allowed {
				assert.NoError(t, err, "%s -> %s", from, to)
				continue
			}
			require.Error(t, err, "%s -> %s", from, to)
			assert.Equal(t, httperr.KindBadRequest, httperr.KindOf(err))
			assert.Contains(t, err.Error(), string(from))
			assert.Contains(t, err.Error(), string(to))
		}
	}
}

func TestTerminalStates(t *testing.T) {
	assert.False(t, StatusReserved.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusPaid.Terminal())
	assert.Equal(t, StatusReserved, InitialStatus())
	assert.False(t, Status("DONE").Valid())
}

func TestPayThenCancelFails(t *testing.T) {
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusReserved)}

	require.NoError(t, Pay(ap, now))
	assert.Equal(t, string(StatusPaid), ap.Status)
	require.NotNil(t, ap.PaidAt)

	err := Cancel(ap, now, "changed mind")
	assert.True(t, httperr.IsBusiness(err, "invalid_state_transition"))
	assert.Equal(t, string(StatusPaid), ap.Status)
	assert.Nil(t, ap.CancelledAt)
}

func TestCancelTwiceFails(t *testing.T) {
	now := time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusReserved)}

	require.NoError(t, Cancel(ap, now, "sick"))
	assert.Equal(t, "sick", ap.CancelReason)

	assert.Error(t, Cancel(ap, now, "again"))
	assert.Equal(t, "sick", ap.CancelReason)
}

func TestApplyEdit(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	ap := &models.Appointment{
		Status:    string(StatusReserved),
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	}

	name := "Sam"
	newStart := start.Add(2 * time.Hour)
	e := Edit{CustomerName: &name, StartTime: &newStart}
	assert.True(t, e.Reschedules(ap))

	require.NoError(t, ApplyEdit(ap, e, 0))
	assert.Equal(t, "Sam", ap.CustomerName)
	assert.Equal(t, newStart, ap.StartTime)
	assert.Equal(t, 30*time.Minute, ap.Duration())

	later := newStart.Add(time.Hour)
	require.NoError(t, ApplyEdit(ap, Edit{StartTime: &later}, 45*time.Minute))
	assert.Equal(t, 45*time.Minute, ap.Duration())
}

func TestApplyEdit_OnlyWhileReserved(t *testing.T) {
	notes := "late"
	for _, s := range []Status{StatusCancelled, StatusPaid} {
		ap := &models.Appointment{Status: string(s)}
		err := ApplyEdit(ap, Edit{Notes: &notes}, 0)
		assert.True(t, httperr.IsBusiness(err, "invalid_state"), s)
		assert.Empty(t, ap.Notes)
	}
}

func TestApplyEdit_BlankNameRejected(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	ap := &models.Appointment{
		Status:       string(StatusReserved),
		CustomerName: "Ana",
		StartTime:    start,
		EndTime:      start.Add(30 * time.Minute),
	}

	for _, blank := range []string{"", "   ", "\t"} {
		notes := "moved"
		later := start.Add(time.Hour)
		err := ApplyEdit(ap, Edit{CustomerName: &blank, Notes: &notes, StartTime: &later}, 0)

		assert.True(t, httperr.IsBusiness(err, "customer_name_required"), "%q", blank)
		assert.Equal(t, "Ana", ap.CustomerName)
		assert.Empty(t, ap.Notes)
		assert.Equal(t, start, ap.StartTime)
	}

	padded := "  Bia "
	require.NoError(t, ApplyEdit(ap, Edit{CustomerName: &padded}, 0))
	assert.Equal(t, "Bia", ap.CustomerName)
}
