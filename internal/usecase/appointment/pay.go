package appointment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/payment"
)

type PayAppointmentInput struct {
	BusinessID    uint
	AppointmentID uint
	ActorID       *uint
	Method        string
	Reference     string
}

// PayAppointment moves RESERVED to PAID and records the payment. A
// reference is checked against the gateway before anything is written.
type PayAppointment struct {
	repo     domain.Repository
	verifier payment.Verifier
	audit    *audit.Dispatcher
	now      func() time.Time
}

func NewPayAppointment(
	repo domain.Repository,
	verifier payment.Verifier,
	audit *audit.Dispatcher,
) *PayAppointment {
	if verifier == nil {
		verifier = payment.ManualVerifier{}
	}
	return &PayAppointment{
		repo:     repo,
		verifier: verifier,
		audit:    audit,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (uc *PayAppointment) Execute(
	ctx context.Context,
	in PayAppointmentInput,
) (*models.Appointment, *models.Payment, error) {

	ap, err := loadAppointment(ctx, uc.repo, in.BusinessID, in.AppointmentID)
	if err != nil {
		return nil, nil, err
	}
	if err := domain.CanTransition(domain.Status(ap.Status), domain.StatusPaid); err != nil {
		return nil, nil, err
	}

	amount := ap.StaffService.EffectivePrice()
	reference := strings.TrimSpace(in.Reference)

	provider := payment.ProviderManual
	if reference != "" {
		if err := uc.verifier.Verify(ctx, reference, amount); err != nil {
			return nil, nil, err
		}
		provider = uc.verifier.Provider()
	}

	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = "cash"
	}

	var p *models.Payment

	err = uc.repo.WithinTx(ctx, func(tx domain.Repository) error {
		var err error
		ap, err = lockAppointment(ctx, tx, in.BusinessID, in.AppointmentID)
		if err != nil {
			return err
		}

		if reference != "" {
			used, err := tx.PaymentReferenceUsed(ctx, provider, reference)
			if err != nil {
				return fmt.Errorf("check payment reference: %w", err)
			}
			if used {
				return referenceUsed(reference)
			}
		}

		from := domain.Status(ap.Status)
		if err := domain.Pay(ap, uc.now()); err != nil {
			return err
		}
		if err := saveAppointment(ctx, tx, ap, from); err != nil {
			return err
		}

		p = &models.Payment{
			BusinessID:        in.BusinessID,
			AppointmentID:     ap.ID,
			Amount:            amount,
			Method:            method,
			Provider:          provider,
			ExternalReference: reference,
			RecordedByID:      in.ActorID,
		}
		if err := tx.CreatePayment(ctx, p); err != nil {
			if reference != "" && (httperr.IsUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey)) {
				return referenceUsed(reference)
			}
			return fmt.Errorf("record payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	slog.InfoContext(ctx, "appointment paid",
		"appointment_id", ap.ID,
		"amount", amount,
		"provider", provider,
	)

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     in.ActorID,
		Action:     audit.ActionAppointmentPaid,
		Entity:     "appointment",
		EntityID:   &ap.ID,
		Metadata:   map[string]any{"amount": amount, "provider": provider},
	})

	return ap, p, nil
}

func referenceUsed(reference string) error {
	return httperr.Conflict("payment_reference_used",
		"payment reference %s already settles another appointment", reference)
}
