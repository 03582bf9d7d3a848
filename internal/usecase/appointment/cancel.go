package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type CancelAppointmentInput struct {
	BusinessID    uint
	AppointmentID uint
	ActorID       *uint
	Reason        string
}

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {

	var ap *models.Appointment

	err := uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = lockAppointment(ctx, tx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return err
		}

		from := domain.Status(ap.Status)
		if err := domain.Cancel(ap, uc.now(), strings.TrimSpace(in.Reason)); err != nil {
			return err
		}

		return saveAppointment(ctx, tx, ap, from)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     in.ActorID,
		Action:     audit.ActionAppointmentCancelled,
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   map[string]any{"reason": ap.CancelReason},
	})

	return ap, nil
}
