// Package payment wraps the Stripe API for the payment-first purchase
// path. The direct-order path never touches this package; it assumes
// funds were already authorized upstream.
package payment

import (
	"fmt"

	stripe "github.com/stripe/stripe-go"
	"github.com/stripe/stripe-go/paymentintent"
)

// Init sets the global Stripe API key. Call once at startup.
func Init(apiKey string) {
	stripe.Key = apiKey
}

// Intent is the subset of a Stripe payment intent the frontend needs
// to finish the card flow.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
}

// CreateIntent authorizes amountCents for a purchase. The idempotency
// key guards against double charges on client retries; the description
// shows up on the buyer's statement metadata.
func CreateIntent(amountCents int64, idempotencyKey, description string) (*Intent, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amountCents)
	}
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(string(stripe.CurrencyUSD)),
		Description: stripe.String(description),
	}
	params.SetIdempotencyKey(idempotencyKey)

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountCents:  amountCents,
	}, nil
}
