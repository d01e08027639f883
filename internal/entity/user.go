package entity

import "time"

type UserRole string

const (
	RoleFan     UserRole = "fan"
	RoleCreator UserRole = "creator"
	RoleAdmin   UserRole = "admin"
)

type User struct {
	ID               string       `json:"id"`
	Email            string       `json:"email"`
	PasswordHash     string       `json:"-"`
	Role             UserRole     `json:"role"`
	Username         *string      `json:"username"`
	StripeCustomerID string       `json:"-"`
	Creator          *CreatorInfo `json:"creator,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at,omitempty"`
}

// CreatorInfo is the slice of a creator profile attached to /auth/me.
type CreatorInfo struct {
	ID                 string             `json:"id"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Bio                *string            `json:"bio"`
	DisplayName        *string            `json:"display_name"`
}
