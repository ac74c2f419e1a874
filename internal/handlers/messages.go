package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/service"
)

// MessageHandler serves the message REST endpoints. Live delivery happens
// inside the ingest pipeline regardless of which transport carried the send.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Send stores a message and pushes it to the receiver if online.
func (h *MessageHandler) Send(c *gin.Context) {
	var req struct {
		ReceiverID   int    `json:"receiver_id" binding:"required"`
		Content      string `json:"content"`
		MediaURL     string `json:"media_url"`
		MediaType    string `json:"media_type"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var media *service.MediaRef
	if req.MediaURL != "" {
		media = &service.MediaRef{URL: req.MediaURL, Type: req.MediaType, ThumbnailURL: req.ThumbnailURL}
	}

	userID := c.GetInt("userID")
	msg, err := h.messages.Send(c.Request.Context(), userID, req.ReceiverID, req.Content, media)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPayload) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message needs content or media"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "message": msg})
}

// History returns the conversation with another user, oldest first.
func (h *MessageHandler) History(c *gin.Context) {
	otherID, err := strconv.Atoi(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	userID := c.GetInt("userID")
	page, limit := pageParams(c, 50)

	msgs, pagination, err := h.messages.History(c.Request.Context(), userID, otherID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": msgs, "pagination": pagination})
}
