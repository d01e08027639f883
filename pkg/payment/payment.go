// Package payment creates hosted checkout sessions. Without a provider key it
// settles charges immediately through the mock gateway.
package payment

import (
	"context"
	"errors"

	"fanhouse/pkg/config"

	"github.com/shopspring/decimal"
)

// Checkout kinds, mirrored into session metadata.
const (
	KindSubscription = "subscription"
	KindPPVUnlock    = "ppv_unlock"
)

var ErrWebhookNotConfigured = errors.New("webhook secret not configured")

type CheckoutRequest struct {
	Kind       string
	FanID      string
	FanEmail   string
	CustomerID string
	CreatorID  string
	PostID     string
	Amount     decimal.Decimal
	SuccessURL string
	CancelURL  string
}

// Result is either a redirect to a hosted checkout page or an already
// settled transaction.
type Result struct {
	CheckoutURL   string
	SessionID     string
	CustomerID    string
	TransactionID string
	Status        string
}

func (r *Result) Hosted() bool {
	return r.CheckoutURL != ""
}

// CompletedCheckout is what a provider reports once the fan has paid, either
// a finished checkout session or a subscription renewal. Amount is set when
// the provider reports what was charged.
type CompletedCheckout struct {
	SessionID string
	Kind      string
	FanID     string
	CreatorID string
	PostID    string
	Amount    *decimal.Decimal
	Paid      bool
}

type Gateway interface {
	Checkout(ctx context.Context, req CheckoutRequest) (*Result, error)
	// ParseWebhook verifies the payload signature. It returns nil for events
	// that neither complete a checkout nor renew a subscription.
	ParseWebhook(payload []byte, signature string) (*CompletedCheckout, error)
	Name() string
}

func New(cfg *config.Config) Gateway {
	if cfg.StripeSecretKey != "" {
		return NewStripeGateway(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	}
	return NewMockGateway()
}

// ToCents converts a dollar amount to the provider's minor unit.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
