package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// MockGateway settles every checkout on the spot.
type MockGateway struct {
	now func() time.Time
}

func NewMockGateway() *MockGateway {
	return &MockGateway{now: time.Now}
}

func (g *MockGateway) Name() string {
	return "mock"
}

func (g *MockGateway) Checkout(ctx context.Context, req CheckoutRequest) (*Result, error) {
	var prefix string
	switch req.Kind {
	case KindSubscription:
		prefix = "mock_sub"
	case KindPPVUnlock:
		prefix = "mock_ppv"
	default:
		return nil, fmt.Errorf("unknown checkout kind %q", req.Kind)
	}

	return &Result{
		TransactionID: fmt.Sprintf("%s_%d_%06d", prefix, g.now().UnixMilli(), rand.Intn(1000000)),
		Status:        "completed",
	}, nil
}

func (g *MockGateway) ParseWebhook(payload []byte, signature string) (*CompletedCheckout, error) {
	return nil, errors.New("mock gateway does not send webhooks")
}
