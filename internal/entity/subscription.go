package entity

import (
	"io"
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionExpired  SubscriptionStatus = "expired"
	SubscriptionCanceled SubscriptionStatus = "canceled"
)

type Subscription struct {
	ID        string             `json:"id"`
	FanID     string             `json:"fan_id"`
	CreatorID string             `json:"creator_id"`
	Status    SubscriptionStatus `json:"status"`
	StartedAt time.Time          `json:"started_at"`
	ExpiresAt *time.Time         `json:"expires_at"`
	CreatedAt time.Time          `json:"created_at"`

	DisplayName     *string `json:"display_name,omitempty"`
	CreatorUsername *string `json:"creator_username,omitempty"`
}

type PPVUnlock struct {
	ID         string    `json:"id"`
	FanID      string    `json:"fan_id"`
	PostID     string    `json:"post_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
	CreatedAt  time.Time `json:"created_at"`
}

type MediaUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
