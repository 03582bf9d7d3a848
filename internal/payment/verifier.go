package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"

	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
)

const (
	ProviderManual      = "manual"
	ProviderMercadoPago = "mercadopago"

	mpStatusApproved = "approved"
)

// Verifier confirms that an external payment settles an appointment.
type Verifier interface {
	Provider() string
	Verify(ctx context.Context, reference string, amount float64) error
}

// ======================================================
// Manual
// ======================================================

// ManualVerifier accepts every payment; the operator vouches for it.
type ManualVerifier struct{}

func (ManualVerifier) Provider() string { return ProviderManual }

func (ManualVerifier) Verify(context.Context, string, float64) error { return nil }

// ======================================================
// Mercado Pago
// ======================================================

type paymentGetter interface {
	Get(ctx context.Context, id int) (*mppayment.Response, error)
}

type MercadoPagoVerifier struct {
	client paymentGetter
}

func NewMercadoPagoVerifier(accessToken string) (*MercadoPagoVerifier, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	return &MercadoPagoVerifier{client: mppayment.NewClient(cfg)}, nil
}

func (v *MercadoPagoVerifier) Provider() string { return ProviderMercadoPago }

// Verify looks the payment up by id and requires it approved and covering amount.
func (v *MercadoPagoVerifier) Verify(ctx context.Context, reference string, amount float64) error {
	id, err := strconv.Atoi(strings.TrimSpace(reference))
	if err != nil || id <= 0 {
		return httperr.BadRequest("invalid_payment_reference",
			"payment reference %q is not a Mercado Pago payment id", reference)
	}

	resp, err := v.client.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("mercadopago get payment %d: %w", id, err)
	}

	if resp.Status != mpStatusApproved {
		return httperr.BadRequest("payment_not_approved",
			"payment %d is %s", id, resp.Status)
	}

	// cents tolerance
	if amount > 0 && resp.TransactionAmount+0.005 < amount {
		return httperr.BadRequest("payment_amount_mismatch",
			"payment %d covers %.2f of %.2f", id, resp.TransactionAmount, amount)
	}

	return nil
}
