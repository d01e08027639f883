package usecase

import (
	"context"

	"fanhouse/pkg/logger"
	"fanhouse/pkg/metrics"
	"fanhouse/pkg/realtime"
)

// EventBus publishes realtime events. Delivery failures never fail the
// operation that produced the event.
type EventBus struct {
	publisher realtime.Publisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewEventBus(publisher realtime.Publisher, m *metrics.Metrics, log *logger.Logger) *EventBus {
	return &EventBus{publisher: publisher, metrics: m, logger: log}
}

func (b *EventBus) publish(ctx context.Context, channel, event string, data map[string]interface{}) {
	if b == nil || b.publisher == nil {
		return
	}

	outcome := "ok"
	if err := b.publisher.Publish(ctx, channel, event, data); err != nil {
		outcome = "error"
		b.logger.Error("[REALTIME] Failed to publish %s/%s: %v", channel, event, err)
	}
	if b.metrics != nil {
		b.metrics.EventsPublished.WithLabelValues(channel, outcome).Inc()
	}
}
