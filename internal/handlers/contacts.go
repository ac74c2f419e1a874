package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"messenger-service/internal/models"
	"messenger-service/internal/repositories"
	"messenger-service/internal/service"
)

// ContactHandler serves the contact book endpoints.
type ContactHandler struct {
	relationships *service.RelationshipService
	users         repositories.UserRepository
}

// NewContactHandler builds a ContactHandler.
func NewContactHandler(relationships *service.RelationshipService, users repositories.UserRepository) *ContactHandler {
	return &ContactHandler{relationships: relationships, users: users}
}

// ListContacts returns the caller's contacts with pagination and an
// optional search filter.
func (h *ContactHandler) ListContacts(c *gin.Context) {
	userID := c.GetInt("userID")
	page, limit := pageParams(c, 20)
	search := c.Query("search")

	contacts, pagination, err := h.relationships.Contacts(c.Request.Context(), userID, search, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "pagination": pagination})
}

// SearchUsers finds users to add as contacts.
func (h *ContactHandler) SearchUsers(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		term = c.Query("username")
	}
	if len(term) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "search term must be at least 2 characters"})
		return
	}

	userID := c.GetInt("userID")
	page, limit := pageParams(c, 10)

	users, total, err := h.users.SearchUsers(c.Request.Context(), userID, term, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// GetContact returns a single contact of the caller.
func (h *ContactHandler) GetContact(c *gin.Context) {
	contactID, err := strconv.Atoi(c.Param("contact_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}

	userID := c.GetInt("userID")
	contact, err := h.relationships.ContactByID(c.Request.Context(), userID, contactID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}

	c.JSON(http.StatusOK, contact)
}

func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit
}
