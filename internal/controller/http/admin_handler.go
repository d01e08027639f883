package http

import (
	"net/http"
	"strconv"

	"fanhouse/internal/entity"
	"fanhouse/internal/usecase"
	"fanhouse/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	defaultTransactionsLimit = 100
	maxTransactionsLimit     = 1000
)

type AdminHandler struct {
	adminUseCase usecase.AdminUseCase
	logger       *logger.Logger
}

func NewAdminHandler(adminUseCase usecase.AdminUseCase, logger *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminUseCase: adminUseCase,
		logger:       logger,
	}
}

// ListUsers godoc
// @Summary      List latest users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]entity.User
// @Failure      403  {object}  map[string]string
// @Router       /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminUseCase.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to get users")
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

// ListCreators godoc
// @Summary      List all creators
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string][]entity.Creator
// @Failure      403  {object}  map[string]string
// @Router       /admin/creators [get]
func (h *AdminHandler) ListCreators(c *gin.Context) {
	creators, err := h.adminUseCase.ListCreators(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to get creators")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creators": creators})
}

// ApproveCreator godoc
// @Summary      Approve a creator
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Creator ID"
// @Success      200  {object}  map[string]entity.Creator
// @Failure      404  {object}  map[string]string
// @Router       /admin/creators/{id}/approve [post]
func (h *AdminHandler) ApproveCreator(c *gin.Context) {
	creator, err := h.adminUseCase.ApproveCreator(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to approve creator")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creator": creator})
}

// RejectCreator godoc
// @Summary      Reject a creator
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Creator ID"
// @Success      200  {object}  map[string]entity.Creator
// @Failure      404  {object}  map[string]string
// @Router       /admin/creators/{id}/reject [post]
func (h *AdminHandler) RejectCreator(c *gin.Context) {
	creator, err := h.adminUseCase.RejectCreator(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to reject creator")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creator": creator})
}

// DisableCreator godoc
// @Summary      Disable a creator and all of their posts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Creator ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /admin/creators/{id}/disable [post]
func (h *AdminHandler) DisableCreator(c *gin.Context) {
	creator, err := h.adminUseCase.DisableCreator(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to disable creator")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creator": creator, "message": "Creator disabled"})
}

// DisablePost godoc
// @Summary      Disable a post
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /admin/posts/{id}/disable [post]
func (h *AdminHandler) DisablePost(c *gin.Context) {
	post, err := h.adminUseCase.DisablePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to disable post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post, "message": "Post disabled"})
}

// Transactions godoc
// @Summary      List ledger transactions
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max rows" default(100) maximum(1000)
// @Param        fan_id query string false "Filter by fan"
// @Param        creator_id query string false "Filter by creator"
// @Param        type query string false "Filter by transaction type" Enums(subscription, ppv_unlock)
// @Success      200  {object}  map[string][]entity.LedgerEntry
// @Failure      403  {object}  map[string]string
// @Router       /admin/transactions [get]
func (h *AdminHandler) Transactions(c *gin.Context) {
	limit := defaultTransactionsLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = min(n, maxTransactionsLimit)
		}
	}

	transactions, err := h.adminUseCase.Transactions(c.Request.Context(), entity.LedgerFilter{
		FanID:           c.Query("fan_id"),
		CreatorID:       c.Query("creator_id"),
		TransactionType: entity.TransactionType(c.Query("type")),
		Limit:           limit,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to get transactions")
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
