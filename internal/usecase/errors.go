package usecase

import "errors"

// Domain errors. The HTTP layer maps each of them to a status code and a
// client message; anything else is reported as an internal error.
var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")

	ErrAlreadyCreator         = errors.New("already a creator")
	ErrCreatorNotFound        = errors.New("creator not found")
	ErrCreatorProfileNotFound = errors.New("creator profile not found")
	ErrCreatorNotApproved     = errors.New("creator is not approved")
	ErrNoVerificationInquiry  = errors.New("creator has no verification inquiry")

	ErrInvalidAccessType = errors.New("invalid access type")
	ErrPPVPriceRequired  = errors.New("ppv price required for ppv posts")
	ErrPostNotFound      = errors.New("post not found")

	// Returned together with the redacted post by the access gate.
	ErrSubscriptionRequired = errors.New("subscription required")
	ErrPPVUnlockRequired    = errors.New("ppv unlock required")

	ErrCreatorIDRequired = errors.New("creator_id required")
	ErrPostIDRequired    = errors.New("post_id required")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrPostNotPPV        = errors.New("post is not ppv")
	ErrPPVPriceNotSet    = errors.New("ppv price not set")
	ErrAlreadyUnlocked   = errors.New("already unlocked")
	ErrInvalidWebhook    = errors.New("invalid webhook payload")
)
