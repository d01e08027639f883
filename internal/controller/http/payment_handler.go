package http

import (
	"io"
	"net/http"

	"fanhouse/internal/entity"
	"fanhouse/internal/usecase"
	"fanhouse/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// maxWebhookBody bounds the webhook payload read into memory.
const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	paymentUseCase usecase.PaymentUseCase
	logger         *logger.Logger
}

func NewPaymentHandler(paymentUseCase usecase.PaymentUseCase, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
		logger:         logger,
	}
}

type SubscribeRequest struct {
	CreatorID string           `json:"creator_id"`
	Amount    *decimal.Decimal `json:"amount"`
}

type UnlockPPVRequest struct {
	PostID string `json:"post_id"`
}

type ConfirmRequest struct {
	SessionID string `json:"sessionId"`
	Type      string `json:"type"`
	PostID    string `json:"post_id"`
	CreatorID string `json:"creator_id"`
}

type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	SessionID   string `json:"sessionId"`
}

// Subscribe godoc
// @Summary      Subscribe to a creator
// @Description  Returns a hosted checkout URL, or with the mock gateway the activated subscription
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SubscribeRequest true "Creator and optional amount (default 9.99)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /payment/subscribe [post]
func (h *PaymentHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.paymentUseCase.Subscribe(c.Request.Context(), currentUserID(c), req.CreatorID, req.Amount)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create subscription")
		return
	}

	if result.Checkout.Hosted() {
		c.JSON(http.StatusOK, CheckoutResponse{
			CheckoutURL: result.Checkout.CheckoutURL,
			SessionID:   result.Checkout.SessionID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription": result.Subscription,
		"payment":      result.Checkout.Payment,
	})
}

// UnlockPPV godoc
// @Summary      Unlock a pay-per-view post
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UnlockPPVRequest true "Post to unlock"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /payment/unlock-ppv [post]
func (h *PaymentHandler) UnlockPPV(c *gin.Context) {
	var req UnlockPPVRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.paymentUseCase.UnlockPPV(c.Request.Context(), currentUserID(c), req.PostID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to unlock PPV")
		return
	}

	if result.Checkout.Hosted() {
		c.JSON(http.StatusOK, CheckoutResponse{
			CheckoutURL: result.Checkout.CheckoutURL,
			SessionID:   result.Checkout.SessionID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"unlock":  result.Unlock,
		"payment": result.Checkout.Payment,
	})
}

// Confirm godoc
// @Summary      Confirm a completed checkout
// @Description  Records the subscription or unlock for a finished hosted checkout. Safe to call more than once.
// @Tags         payment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ConfirmRequest true "Checkout session"
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /payment/confirm [post]
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.paymentUseCase.Confirm(c.Request.Context(), entity.Confirmation{
		SessionID: req.SessionID,
		Type:      confirmationType(req.Type),
		FanID:     currentUserID(c),
		PostID:    req.PostID,
		CreatorID: req.CreatorID,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to confirm payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// confirmationType returns an empty type for anything it does not know, which
// Confirm treats as a no-op.
func confirmationType(t string) entity.TransactionType {
	switch t {
	case "ppv", string(entity.TransactionPPVUnlock):
		return entity.TransactionPPVUnlock
	case string(entity.TransactionSubscription):
		return entity.TransactionSubscription
	default:
		return ""
	}
}

// ListSubscriptions godoc
// @Summary      List own subscriptions
// @Tags         payment
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]entity.Subscription
// @Failure      500  {object}  map[string]string
// @Router       /payment/subscriptions [get]
func (h *PaymentHandler) ListSubscriptions(c *gin.Context) {
	subscriptions, err := h.paymentUseCase.ListSubscriptions(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get subscriptions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subscriptions})
}

// Webhook godoc
// @Summary      Payment provider webhook
// @Description  Verifies the Stripe-Signature header and records completed checkouts
// @Tags         payment
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /payment/webhook [post]
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	if err := h.paymentUseCase.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		respondError(c, h.logger, err, "Webhook handling failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
