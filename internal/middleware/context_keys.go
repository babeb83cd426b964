package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey     = contextKey("userID")
	authMethodKey = contextKey("authMethod")
)

// AnonymousUserID is recorded as the actor when authentication is disabled.
const AnonymousUserID = "anonymous"

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(userIDKey)); exists {
		userID, ok := v.(string)
		return userID, ok && userID != ""
	}
	return userIDFromCtx(c.Request.Context())
}

// ActorFromContext returns the authenticated user ID or AnonymousUserID.
func ActorFromContext(c *gin.Context) string {
	if userID, ok := GetUserIDFromContext(c); ok {
		return userID
	}
	return AnonymousUserID
}

func userIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
