package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/service"
	"messenger-service/internal/telemetry"
)

// FriendHandler serves the friend-request endpoints.
type FriendHandler struct {
	relationships *service.RelationshipService
	emitter       *telemetry.AuditEmitter
}

// NewFriendHandler builds a FriendHandler.
func NewFriendHandler(relationships *service.RelationshipService, emitter *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{relationships: relationships, emitter: emitter}
}

// SendRequest creates a pending friend request to another user.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	var req struct {
		ReceiverID int `json:"receiver_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "receiver id is required"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.relationships.Request(c.Request.Context(), userID, req.ReceiverID); err != nil {
		respondRelationshipError(c, err)
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO", "friend request sent", requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusOK, gin.H{"message": "friend request sent"})
}

// AcceptRequest accepts a pending friend request.
func (h *FriendHandler) AcceptRequest(c *gin.Context) {
	var req struct {
		RequesterID int `json:"requester_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requester id is required"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.relationships.Accept(c.Request.Context(), userID, req.RequesterID); err != nil {
		respondRelationshipError(c, err)
		return
	}

	h.emitter.Emit(c.Request.Context(), "INFO", "friend request accepted", requestIDFromContext(c), userIDFromContext(c))
	c.JSON(http.StatusOK, gin.H{"message": "friend request accepted"})
}

// DeclineRequest removes a pending friend request without accepting it.
func (h *FriendHandler) DeclineRequest(c *gin.Context) {
	var req struct {
		RequesterID int `json:"requester_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requester id is required"})
		return
	}

	userID := c.GetInt("userID")
	if err := h.relationships.Decline(c.Request.Context(), userID, req.RequesterID); err != nil {
		respondRelationshipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "friend request declined"})
}

// ListRequests returns the caller's pending received requests.
func (h *FriendHandler) ListRequests(c *gin.Context) {
	userID := c.GetInt("userID")
	requests, err := h.relationships.Requests(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch friend requests"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"friend_requests": requests})
}

func respondRelationshipError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSelfRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot send a friend request to yourself"})
	case errors.Is(err, service.ErrUnknownUser):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, service.ErrAlreadyPending):
		c.JSON(http.StatusBadRequest, gin.H{"error": "friend request already sent"})
	case errors.Is(err, service.ErrAlreadyContacts):
		c.JSON(http.StatusBadRequest, gin.H{"error": "already contacts"})
	case errors.Is(err, service.ErrNoSuchRequest):
		c.JSON(http.StatusNotFound, gin.H{"error": "no such friend request"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
