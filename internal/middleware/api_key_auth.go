package middleware

import (
	"log/slog"

	"github.com/SscSPs/finance_tracker/internal/utils/credentials"
	"github.com/gin-gonic/gin"
)

// APIKeyHeader is the header checked by APIKeyAuth.
const APIKeyHeader = "X-API-Key"

// apiKeyUserID is the actor recorded for requests authenticated by the shared key.
const apiKeyUserID = "api-key"

// APIKeyAuth accepts requests whose X-API-Key matches keyHash (bcrypt) and
// marks them as authenticated so AuthMiddleware skips JWT parsing.
// Requests without a valid key fall through unchanged.
func APIKeyAuth(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if keyHash == "" {
			c.Next()
			return
		}
		provided := c.GetHeader(APIKeyHeader)
		if provided == "" {
			c.Next()
			return
		}
		if !credentials.CheckAPIKey(provided, keyHash) {
			GetLoggerFromCtx(c.Request.Context()).Warn("Invalid API key")
			c.Next()
			return
		}

		c.Set(string(userIDKey), apiKeyUserID)
		c.Set(string(authMethodKey), "api_key")
		logger := GetLoggerFromCtx(c.Request.Context()).With(slog.String("user_id", apiKeyUserID))
		c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), logger))
		c.Next()
	}
}
