package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/helm-collect/models"
	"github.com/yourusername/helm-collect/utils"
)

const (
	ContextClientID = "clientID"
	ContextAPIKeyID = "apiKeyID"
)

// APIKeyLookup finds an active key by the sha256 hash of its plaintext.
type APIKeyLookup interface {
	ActiveAPIKeyByHash(ctx context.Context, hash string) (*models.APIKey, error)
}

// APIKeyAuthMiddleware authenticates server-to-server calls with a bearer
// API key and binds the key's client to the request.
func APIKeyAuthMiddleware(keys APIKeyLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing API key"})
			c.Abort()
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if raw == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing API key"})
			c.Abort()
			return
		}

		key, err := keys.ActiveAPIKeyByHash(c.Request.Context(), utils.HashAPIKey(raw))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		c.Set(ContextClientID, key.ClientID)
		c.Set(ContextAPIKeyID, key.ID)
		c.Next()
	}
}

// CurrentClientID returns the client bound by APIKeyAuthMiddleware.
func CurrentClientID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextClientID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
