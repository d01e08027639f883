package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccessType string

const (
	AccessPublic     AccessType = "public"
	AccessSubscriber AccessType = "subscriber"
	AccessPPV        AccessType = "ppv"
)

func (a AccessType) Valid() bool {
	switch a {
	case AccessPublic, AccessSubscriber, AccessPPV:
		return true
	}
	return false
}

type Post struct {
	ID         string           `json:"id"`
	CreatorID  string           `json:"creator_id"`
	Title      *string          `json:"title"`
	Content    *string          `json:"content"`
	MediaURL   *string          `json:"media_url"`
	MediaType  *string          `json:"media_type"`
	AccessType AccessType       `json:"access_type"`
	PPVPrice   *decimal.Decimal `json:"ppv_price"`
	IsActive   bool             `json:"is_active"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	CreatorUserID   string  `json:"creator_user_id,omitempty"`
	CreatorUsername *string `json:"creator_username,omitempty"`

	Locked   bool       `json:"locked,omitempty"`
	LockType AccessType `json:"lock_type,omitempty"`
}

// Redacted returns a copy with the paid payload removed and the lock marker set.
func (p *Post) Redacted() *Post {
	cp := *p
	cp.Content = nil
	cp.MediaURL = nil
	cp.Locked = true
	cp.LockType = p.AccessType
	return &cp
}

type PostFilter struct {
	CreatorID  string
	AccessType AccessType
	Limit      int
}

// NewPost carries the fields a creator submits for a post.
type NewPost struct {
	Title      string
	Content    string
	AccessType AccessType
	PPVPrice   *decimal.Decimal
	Media      *MediaUpload
}
