// Package realtime publishes fire-and-forget domain events to subscribers
// such as the frontend's live feed and the admin dashboard.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fanhouse/pkg/config"
	"fanhouse/pkg/logger"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
)

// Channels and event names.
const (
	ChannelAdmin         = "admin"
	ChannelPosts         = "posts"
	ChannelSubscriptions = "subscriptions"
	ChannelUnlocks       = "unlocks"

	EventCreatorApplication  = "creator_application"
	EventCreatorApproved     = "creator_approved"
	EventCreatorRejected     = "creator_rejected"
	EventNewPost             = "new_post"
	EventNewSubscription     = "new_subscription"
	EventSubscriptionRenewed = "subscription_renewed"
	EventPPVUnlocked         = "ppv_unlocked"
)

type Publisher interface {
	Publish(ctx context.Context, channel, event string, data interface{}) error
	Close() error
}

// Message is the envelope written to the transport.
type Message struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func encode(event string, data interface{}) ([]byte, error) {
	payload, err := json.Marshal(Message{Event: event, Data: data, Timestamp: time.Now().UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}
	return payload, nil
}

// New builds the publisher named by REALTIME_DRIVER, falling back to the
// log publisher when the transport is unavailable.
func New(cfg *config.Config, redisClient *redis.Client, log *logger.Logger) Publisher {
	switch cfg.RealtimeDriver {
	case "nats":
		p, err := NewNATSPublisher(cfg.NATSURL)
		if err == nil {
			return p
		}
		log.Error("Failed to connect to NATS: %v (falling back to log publisher)", err)
	case "redis":
		if redisClient != nil {
			return NewRedisPublisher(redisClient)
		}
		log.Warn("Redis unavailable, realtime events will only be logged")
	}
	return NewLogPublisher(log)
}

type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel, event string, data interface{}) error {
	payload, err := encode(event, data)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, channel, payload).Err()
}

// Close leaves the shared redis client to its owner.
func (p *RedisPublisher) Close() error {
	return nil
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("fanhouse-api"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn}, nil
}

// Subject maps a channel/event pair to a NATS subject.
func Subject(channel, event string) string {
	return "fanhouse." + channel + "." + event
}

func (p *NATSPublisher) Publish(ctx context.Context, channel, event string, data interface{}) error {
	payload, err := encode(event, data)
	if err != nil {
		return err
	}
	return p.conn.Publish(Subject(channel, event), payload)
}

func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}

type LogPublisher struct {
	log *logger.Logger
}

func NewLogPublisher(log *logger.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(ctx context.Context, channel, event string, data interface{}) error {
	payload, err := encode(event, data)
	if err != nil {
		return err
	}
	p.log.Info("[REALTIME] channel=%s event=%s payload=%s", channel, event, string(payload))
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
