package http

import (
	"errors"
	"net/http"

	"fanhouse/internal/usecase"
	"fanhouse/pkg/logger"
	"fanhouse/pkg/middleware"
	"fanhouse/pkg/payment"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	err     error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{usecase.ErrMissingCredentials, http.StatusBadRequest, "Email and password required"},
	{usecase.ErrUserExists, http.StatusBadRequest, "User already exists"},
	{usecase.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{usecase.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{usecase.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{usecase.ErrAlreadyCreator, http.StatusBadRequest, "Already a creator"},
	{usecase.ErrCreatorNotFound, http.StatusNotFound, "Creator not found"},
	{usecase.ErrCreatorProfileNotFound, http.StatusNotFound, "Creator profile not found"},
	{usecase.ErrCreatorNotApproved, http.StatusBadRequest, "Creator is not approved"},
	{usecase.ErrNoVerificationInquiry, http.StatusNotFound, "No verification inquiry"},
	{usecase.ErrInvalidAccessType, http.StatusBadRequest, "Invalid access type"},
	{usecase.ErrPPVPriceRequired, http.StatusBadRequest, "PPV price required for PPV posts"},
	{usecase.ErrPostNotFound, http.StatusNotFound, "Post not found"},
	{usecase.ErrSubscriptionRequired, http.StatusForbidden, "Subscription required"},
	{usecase.ErrPPVUnlockRequired, http.StatusForbidden, "PPV unlock required"},
	{usecase.ErrCreatorIDRequired, http.StatusBadRequest, "Creator ID required"},
	{usecase.ErrPostIDRequired, http.StatusBadRequest, "Post ID required"},
	{usecase.ErrInvalidAmount, http.StatusBadRequest, "Invalid amount"},
	{usecase.ErrPostNotPPV, http.StatusBadRequest, "Post is not PPV"},
	{usecase.ErrPPVPriceNotSet, http.StatusBadRequest, "PPV price not set"},
	{usecase.ErrAlreadyUnlocked, http.StatusBadRequest, "Already unlocked"},
	{usecase.ErrInvalidWebhook, http.StatusBadRequest, "Invalid webhook signature"},
	{payment.ErrWebhookNotConfigured, http.StatusServiceUnavailable, "Webhook not configured"},
}

// statusFor maps a use case error to its status and client message. ok is
// false for unexpected errors.
func statusFor(err error) (int, string, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.status, m.message, true
		}
	}
	return http.StatusInternalServerError, "", false
}

// respondError writes the mapped error, or logs err and answers 500 with
// fallback.
func respondError(c *gin.Context, log *logger.Logger, err error, fallback string) {
	status, message, ok := statusFor(err)
	if !ok {
		log.Error("%s %s: %s: %v", c.Request.Method, c.FullPath(), fallback, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
		return
	}
	c.JSON(status, gin.H{"error": message})
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}
