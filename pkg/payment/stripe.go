package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	session "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/customer"
	"github.com/stripe/stripe-go/v82/webhook"
)

type StripeGateway struct {
	webhookSecret string
}

func NewStripeGateway(secretKey, webhookSecret string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

func (g *StripeGateway) Name() string {
	return "stripe"
}

func (g *StripeGateway) Checkout(ctx context.Context, req CheckoutRequest) (*Result, error) {
	customerID, err := g.ensureCustomer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("stripe customer: %w", err)
	}

	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(ToCents(req.Amount)),
	}
	params := &stripe.CheckoutSessionParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		ClientReferenceID:  stripe.String(req.FanID),
	}

	switch req.Kind {
	case KindSubscription:
		priceData.ProductData = &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String("Creator Subscription"),
			Description: stripe.String("Monthly subscription to creator"),
		}
		priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		}
		params.Mode = stripe.String(string(stripe.CheckoutSessionModeSubscription))
		params.AddMetadata("creatorId", req.CreatorID)
		// Renewal invoices only carry the subscription's metadata.
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{}
		params.SubscriptionData.AddMetadata("fanId", req.FanID)
		params.SubscriptionData.AddMetadata("creatorId", req.CreatorID)
		params.SubscriptionData.AddMetadata("type", KindSubscription)
	case KindPPVUnlock:
		priceData.ProductData = &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String("PPV Content Unlock"),
			Description: stripe.String("Unlock PPV content for post " + req.PostID),
		}
		params.Mode = stripe.String(string(stripe.CheckoutSessionModePayment))
		params.AddMetadata("postId", req.PostID)
	default:
		return nil, fmt.Errorf("unknown checkout kind %q", req.Kind)
	}

	params.LineItems = []*stripe.CheckoutSessionLineItemParams{
		{PriceData: priceData, Quantity: stripe.Int64(1)},
	}
	params.AddMetadata("fanId", req.FanID)
	params.AddMetadata("type", req.Kind)
	params.Context = ctx

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout failed: %w", err)
	}

	return &Result{
		CheckoutURL: s.URL,
		SessionID:   s.ID,
		CustomerID:  customerID,
		Status:      "pending",
	}, nil
}

// ensureCustomer reuses the stored customer when Stripe still knows it.
func (g *StripeGateway) ensureCustomer(ctx context.Context, req CheckoutRequest) (string, error) {
	if req.CustomerID != "" {
		params := &stripe.CustomerParams{}
		params.Context = ctx
		if c, err := customer.Get(req.CustomerID, params); err == nil && !c.Deleted {
			return c.ID, nil
		}
	}

	params := &stripe.CustomerParams{}
	if req.FanEmail != "" {
		params.Email = stripe.String(req.FanEmail)
	}
	params.AddMetadata("fanId", req.FanID)
	params.Context = ctx

	c, err := customer.New(params)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*CompletedCheckout, error) {
	if g.webhookSecret == "" {
		return nil, ErrWebhookNotConfigured
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		return parseCompletedSession(event.Data.Raw)
	case stripe.EventTypeInvoicePaid, stripe.EventTypeInvoicePaymentSucceeded:
		return parseRenewalInvoice(event.Data.Raw)
	}
	return nil, nil
}

func parseCompletedSession(raw json.RawMessage) (*CompletedCheckout, error) {
	var s stripe.CheckoutSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session: %w", err)
	}

	return &CompletedCheckout{
		SessionID: s.ID,
		Kind:      s.Metadata["type"],
		FanID:     s.Metadata["fanId"],
		CreatorID: s.Metadata["creatorId"],
		PostID:    s.Metadata["postId"],
		Paid:      s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}, nil
}

// parseRenewalInvoice reports a paid monthly renewal as a completed
// subscription checkout keyed by the invoice id. The first invoice of a
// subscription is settled by checkout.session.completed instead.
func parseRenewalInvoice(raw json.RawMessage) (*CompletedCheckout, error) {
	var inv stripe.Invoice
	if err := json.Unmarshal(raw, &inv); err != nil {
		return nil, fmt.Errorf("failed to parse invoice: %w", err)
	}
	if inv.BillingReason != stripe.InvoiceBillingReasonSubscriptionCycle {
		return nil, nil
	}

	meta := inv.Metadata
	if inv.Parent != nil && inv.Parent.SubscriptionDetails != nil && len(inv.Parent.SubscriptionDetails.Metadata) > 0 {
		meta = inv.Parent.SubscriptionDetails.Metadata
	}

	amount := decimal.New(inv.AmountPaid, -2)
	return &CompletedCheckout{
		SessionID: inv.ID,
		Kind:      KindSubscription,
		FanID:     meta["fanId"],
		CreatorID: meta["creatorId"],
		Amount:    &amount,
		Paid:      inv.Status == stripe.InvoiceStatusPaid,
	}, nil
}
