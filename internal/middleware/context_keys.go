package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the caller identity. Authentication happens upstream;
// the value is only used for audit fields.
const UserIDHeader = "X-User-ID"

// userIDKey is the key used to store the caller's ID in the Gin context.
const userIDKey = contextKey("userID")

// CallerIdentity copies the caller id header into the Gin and request contexts.
// A missing header is not rejected here: write operations validate the id.
func CallerIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserIDHeader))
		if userID != "" {
			c.Set(string(userIDKey), userID)
			c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userIDKey, userID))
		}
		c.Next()
	}
}

// GetUserIDFromContext retrieves the caller ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userIDVal, exists := c.Get(string(userIDKey))
	if !exists {
		// check in the request context as well
		if userID, ok := c.Request.Context().Value(userIDKey).(string); ok {
			return userID, true
		}
		return "", false
	}

	userID, ok := userIDVal.(string)
	if !ok {
		return "", false
	}

	return userID, true
}
