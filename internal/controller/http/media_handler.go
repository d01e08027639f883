package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

var mediaContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

// MediaHandler serves locally stored uploads.
type MediaHandler struct {
	dir string
}

func NewMediaHandler(dir string) *MediaHandler {
	return &MediaHandler{dir: dir}
}

func mediaContentType(name string) string {
	if ct, ok := mediaContentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Serve godoc
// @Summary      Serve an uploaded media file
// @Tags         media
// @Produce      octet-stream
// @Param        filepath path string true "File path inside the uploads directory"
// @Success      200
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /uploads/{filepath} [get]
func (h *MediaHandler) Serve(c *gin.Context) {
	root, err := filepath.Abs(h.dir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to serve file"})
		return
	}

	path := filepath.Join(root, filepath.FromSlash(c.Param("filepath")))
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	c.Header("Content-Type", mediaContentType(path))
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	c.Header("Access-Control-Expose-Headers", "Content-Type")
	c.Header("X-Content-Type-Options", "nosniff")
	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}
