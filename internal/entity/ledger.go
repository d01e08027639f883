package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSubscription TransactionType = "subscription"
	TransactionPPVUnlock    TransactionType = "ppv_unlock"
)

const (
	DefaultCurrency  = "USD"
	LedgerCompleted  = "completed"
	PaymentCompleted = "completed"
)

// DefaultSubscriptionPrice is charged when a subscribe request names no amount.
var DefaultSubscriptionPrice = decimal.RequireFromString("9.99")

type LedgerEntry struct {
	ID                    string                 `json:"id"`
	TransactionType       TransactionType        `json:"transaction_type"`
	FanID                 *string                `json:"fan_id"`
	CreatorID             *string                `json:"creator_id"`
	PostID                *string                `json:"post_id"`
	Amount                decimal.Decimal        `json:"amount"`
	Currency              string                 `json:"currency"`
	Status                string                 `json:"status"`
	ExternalTransactionID string                 `json:"external_transaction_id"`
	Metadata              map[string]interface{} `json:"metadata"`
	CreatedAt             time.Time              `json:"created_at"`

	FanEmail        *string `json:"fan_email,omitempty"`
	FanUsername     *string `json:"fan_username,omitempty"`
	CreatorEmail    *string `json:"creator_email,omitempty"`
	CreatorUsername *string `json:"creator_username,omitempty"`
}

type LedgerFilter struct {
	FanID           string
	CreatorID       string
	TransactionType TransactionType
	Limit           int
}

// Payment describes a settled or pending charge as seen by the platform.
type Payment struct {
	TransactionID string          `json:"transactionId"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
}

// CheckoutResult is either a hosted checkout redirect or a settled payment.
type CheckoutResult struct {
	CheckoutURL string
	SessionID   string
	Payment     *Payment
}

func (r *CheckoutResult) Hosted() bool {
	return r.CheckoutURL != ""
}

type Confirmation struct {
	SessionID string
	Type      TransactionType
	FanID     string
	PostID    string
	CreatorID string
	// Amount overrides the default subscription price when the provider
	// reported the charge.
	Amount *decimal.Decimal
}
