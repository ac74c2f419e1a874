package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/xid"

	"messenger-service/internal/repositories"
)

// MediaHandler stores uploaded files on local disk and records them.
type MediaHandler struct {
	media     repositories.MediaRepository
	uploadDir string
}

// NewMediaHandler builds a MediaHandler writing into uploadDir.
func NewMediaHandler(media repositories.MediaRepository, uploadDir string) *MediaHandler {
	return &MediaHandler{media: media, uploadDir: uploadDir}
}

// Upload saves a multipart file and returns the upload record. The
// returned file path is what the client sends as media_url afterwards.
func (h *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	var messageID *int
	if raw := c.PostForm("message_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
			return
		}
		messageID = &id
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), xid.New().String(), filepath.Ext(file.Filename))
	dest := filepath.Join(h.uploadDir, name)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save file"})
		return
	}

	fileType := file.Header.Get("Content-Type")
	media, err := h.media.CreateMedia(c.Request.Context(), messageID, "/uploads/"+name, fileType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record upload"})
		return
	}

	c.JSON(http.StatusCreated, media)
}
