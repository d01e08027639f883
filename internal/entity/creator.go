package entity

import "time"

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type Creator struct {
	ID                 string             `json:"id"`
	UserID             string             `json:"user_id"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	PersonaInquiryID   *string            `json:"persona_inquiry_id"`
	Bio                *string            `json:"bio"`
	DisplayName        *string            `json:"display_name"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`

	// Joined from users when listing.
	Email    string  `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
}

func (c *Creator) IsApproved() bool {
	return c.VerificationStatus == VerificationApproved
}

type CreatorStats struct {
	SubscriberCount int64 `json:"subscriber_count"`
	PostCount       int64 `json:"post_count"`
}

type CreatorProfile struct {
	*Creator
	Stats CreatorStats `json:"stats"`
}

// Inquiry is the identity verification state reported by the provider.
type Inquiry struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
