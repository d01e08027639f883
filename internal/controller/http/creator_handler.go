package http

import (
	"net/http"

	"fanhouse/internal/usecase"
	"fanhouse/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CreatorHandler struct {
	creatorUseCase usecase.CreatorUseCase
	logger         *logger.Logger
}

func NewCreatorHandler(creatorUseCase usecase.CreatorUseCase, logger *logger.Logger) *CreatorHandler {
	return &CreatorHandler{
		creatorUseCase: creatorUseCase,
		logger:         logger,
	}
}

type ApplyRequest struct {
	Bio         string `json:"bio"`
	DisplayName string `json:"display_name"`
}

// Apply godoc
// @Summary      Apply to become a creator
// @Description  Opens an identity verification inquiry and a pending creator profile
// @Tags         creator
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body ApplyRequest false "Profile data"
// @Success      200  {object}  map[string]entity.Creator
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /creator/apply [post]
func (h *CreatorHandler) Apply(c *gin.Context) {
	var req ApplyRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}

	creator, err := h.creatorUseCase.Apply(c.Request.Context(), currentUserID(c), usecase.ApplyInput{
		Bio:         req.Bio,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		respondError(c, h.logger, err, "Failed to submit application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creator": creator})
}

// ListCreators godoc
// @Summary      List approved creators
// @Tags         creator
// @Produce      json
// @Success      200  {object}  map[string][]entity.Creator
// @Failure      500  {object}  map[string]string
// @Router       /creator [get]
func (h *CreatorHandler) ListCreators(c *gin.Context) {
	creators, err := h.creatorUseCase.ListApproved(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "Failed to get creators")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creators": creators})
}

// GetCreator godoc
// @Summary      Get a creator
// @Tags         creator
// @Produce      json
// @Param        id   path      string  true  "Creator ID"
// @Success      200  {object}  map[string]entity.Creator
// @Failure      404  {object}  map[string]string
// @Router       /creator/{id} [get]
func (h *CreatorHandler) GetCreator(c *gin.Context) {
	creator, err := h.creatorUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get creator")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creator": creator})
}

// MyProfile godoc
// @Summary      Get own creator profile with stats
// @Tags         creator
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]entity.CreatorProfile
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /creator/me/profile [get]
func (h *CreatorHandler) MyProfile(c *gin.Context) {
	profile, err := h.creatorUseCase.MyProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"creator": profile})
}

// MyVerification godoc
// @Summary      Get own identity verification status
// @Tags         creator
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]entity.Inquiry
// @Failure      404  {object}  map[string]string
// @Router       /creator/me/verification [get]
func (h *CreatorHandler) MyVerification(c *gin.Context) {
	inquiry, err := h.creatorUseCase.MyVerification(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to get verification status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"inquiry": inquiry})
}
