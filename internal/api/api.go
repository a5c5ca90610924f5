package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ladleworks/spoonful/backend/internal/service"
)

// respondError maps the service error taxonomy onto HTTP statuses.
// Validation problems and missing entities are the caller's to fix;
// everything else is a generic server failure.
func respondError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"errors": ve.Message})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// viewerID returns the authenticated viewer, or nil for anonymous requests.
func viewerID(c *gin.Context) *uuid.UUID {
	if v, ok := c.Get("user_id"); ok {
		id := v.(uuid.UUID)
		return &id
	}
	return nil
}

// currentUserID returns the authenticated user or writes a 401.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get("user_id")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	return v.(uuid.UUID), true
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// boolFlag parses the 0/1 query flags of the recipe listing. Unknown
// values are treated as absent rather than errors.
func boolFlag(raw string) *bool {
	switch raw {
	case "1", "true":
		v := true
		return &v
	case "0", "false":
		v := false
		return &v
	}
	return nil
}
