package http

import (
	"errors"
	"net/http"
	"strings"

	"fanhouse/internal/entity"
	"fanhouse/internal/usecase"
	"fanhouse/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ContentHandler struct {
	contentUseCase usecase.ContentUseCase
	logger         *logger.Logger
}

func NewContentHandler(contentUseCase usecase.ContentUseCase, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{
		contentUseCase: contentUseCase,
		logger:         logger,
	}
}

type CreatePostRequest struct {
	Title      string `form:"title"`
	Content    string `form:"content"`
	AccessType string `form:"access_type"`
	PPVPrice   string `form:"ppv_price"`
}

// CreatePost godoc
// @Summary      Create a new post
// @Description  Creates a post for the approved creator. PPV posts need a positive ppv_price.
// @Tags         content
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title formData string false "Post title"
// @Param        content formData string false "Post text"
// @Param        access_type formData string false "Access tier" Enums(public, subscriber, ppv)
// @Param        ppv_price formData string false "Unlock price for ppv posts"
// @Param        media formData file false "Image or video file"
// @Success      200  {object}  map[string]entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /content [post]
func (h *ContentHandler) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form data"})
		return
	}

	in := entity.NewPost{
		Title:      req.Title,
		Content:    req.Content,
		AccessType: entity.AccessType(req.AccessType),
	}

	if price := strings.TrimSpace(req.PPVPrice); price != "" {
		d, err := decimal.NewFromString(price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PPV price"})
			return
		}
		in.PPVPrice = &d
	}

	if fh, err := c.FormFile("media"); err == nil {
		f, err := fh.Open()
		if err != nil {
			h.logger.Error("Failed to open upload: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read media file"})
			return
		}
		defer f.Close()
		in.Media = &entity.MediaUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Body:        f,
		}
	}

	post, err := h.contentUseCase.CreatePost(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		if errors.Is(err, usecase.ErrCreatorNotApproved) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Creator must be approved to create posts"})
			return
		}
		respondError(c, h.logger, err, "Failed to create post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// ListPosts godoc
// @Summary      List posts
// @Description  Active posts, newest first. Posts the requester cannot access are redacted.
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        creator_id query string false "Filter by creator"
// @Param        access_type query string false "Filter by access tier"
// @Success      200  {object}  map[string][]entity.Post
// @Failure      500  {object}  map[string]string
// @Router       /content [get]
func (h *ContentHandler) ListPosts(c *gin.Context) {
	filter := entity.PostFilter{
		CreatorID:  c.Query("creator_id"),
		AccessType: entity.AccessType(c.Query("access_type")),
	}

	posts, err := h.contentUseCase.ListPosts(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to get posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost godoc
// @Summary      Get post by ID
// @Description  Locked posts answer 403 with the redacted post attached
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]entity.Post
// @Failure      403  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /content/{id} [get]
func (h *ContentHandler) GetPost(c *gin.Context) {
	post, err := h.contentUseCase.GetPost(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		if post != nil {
			status, message, _ := statusFor(err)
			c.JSON(status, gin.H{"error": message, "post": post})
			return
		}
		respondError(c, h.logger, err, "Failed to get post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}
