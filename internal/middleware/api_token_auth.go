package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceTokenAuth authenticates machine callers (the market-data feed and the
// settlement processor) by a shared key in the x-api-key header. User JWTs are
// not accepted here. An empty configured key disables the guarded endpoints
// rather than leaving them open.
func ServiceTokenAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader("x-api-key")
		if apiKey == "" || provided == "" ||
			subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) != 1 {
			GetLoggerFromCtx(c.Request.Context()).Warn("Service API key missing or invalid",
				slog.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Valid service API key required"})
			return
		}
		c.Next()
	}
}
