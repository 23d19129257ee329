package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MarcelloBorromeo/SearchSift/internal/dto"
)

// APIKeyAuth verifies the X-API-Key header the extension sends.
func APIKeyAuth(apiKey string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")

		if key == "" {
			log.Warn("Missing API key", zap.String("remote_addr", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Error: "api_key_required",
			})
			return
		}

		if key != apiKey {
			log.Warn("Invalid API key", zap.String("remote_addr", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Error: "invalid_api_key",
			})
			return
		}

		c.Next()
	}
}

// ExtensionCORS allows requests from configured extension origins.
// Patterns may end with a wildcard, e.g. "chrome-extension://*".
func ExtensionCORS(allowedOrigins []string, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" {
			if !originAllowed(origin, allowedOrigins) {
				log.Warn("Blocked request from origin", zap.String("origin", origin))
				c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
					Error: "origin_not_allowed",
				})
				return
			}
			c.Header("Access-Control-Allow-Origin", origin)
		}

		c.Header("Access-Control-Allow-Headers", "Content-Type, X-API-Key")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func originAllowed(origin string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "*") {
			if strings.HasPrefix(origin, strings.TrimSuffix(pattern, "*")) {
				return true
			}
		} else if origin == pattern {
			return true
		}
	}
	return false
}
