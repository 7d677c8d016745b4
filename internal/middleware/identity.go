package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey         = contextKey("userID")
	organizationIDKey = contextKey("organizationID")

	// HeaderUserID carries the caller identity established upstream.
	HeaderUserID = "X-User-ID"
	// HeaderOrganizationID carries the organization the caller acts within.
	HeaderOrganizationID = "X-Organization-ID"
)

// CallerIdentityMiddleware reads the caller and organization identifiers the
// upstream gateway attaches to each request. Authentication itself happens
// before this service; requests arriving without the headers are rejected.
func CallerIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing " + HeaderUserID + " header"})
			return
		}
		orgID := c.GetHeader(HeaderOrganizationID)
		if orgID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing " + HeaderOrganizationID + " header"})
			return
		}

		c.Set(string(userIDKey), userID)
		c.Set(string(organizationIDKey), orgID)
		c.Next()
	}
}

// GetUserIDFromContext retrieves the caller's user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(userIDKey))
	if !exists {
		return "", false
	}
	userID, ok := val.(string)
	if !ok {
		return "", false
	}
	return userID, true
}

// GetOrganizationIDFromContext retrieves the caller's organization ID from
// the Gin context.
func GetOrganizationIDFromContext(c *gin.Context) (string, bool) {
	val, exists := c.Get(string(organizationIDKey))
	if !exists {
		return "", false
	}
	orgID, ok := val.(string)
	if !ok {
		return "", false
	}
	return orgID, true
}
