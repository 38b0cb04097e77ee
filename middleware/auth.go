package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yourusername/helm-collect/cache"
	"github.com/yourusername/helm-collect/models"
)

const (
	SessionCookie = "session"
	LoginPath     = "/login"

	ContextUserID   = "userID"
	ContextUsername = "username"
	ContextRole     = "role"
)

// Claims represents the session token claims
type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateToken creates a signed session token for a user
func GenerateToken(principal models.Principal, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   principal.ID,
		Username: principal.Username,
		Role:     principal.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// SetSession writes the session cookie.
func SetSession(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
}

func ClearSession(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", c.Request.TLS != nil, true)
}

// SessionAuthMiddleware requires a valid session cookie and loads the
// principal for every request so deleted users lose access immediately.
func SessionAuthMiddleware(secret string, principals cache.PrincipalLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookie)
		if err != nil || tokenString == "" {
			handleAuthError(c, "Login required")
			return
		}

		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			ClearSession(c)
			if errors.Is(err, jwt.ErrTokenExpired) {
				handleAuthError(c, "Session has expired")
			} else {
				handleAuthError(c, "Invalid session")
			}
			return
		}

		principal, err := principals.Principal(c.Request.Context(), claims.UserID)
		if err != nil {
			ClearSession(c)
			handleAuthError(c, "Invalid session")
			return
		}

		c.Set(ContextUserID, principal.ID)
		c.Set(ContextUsername, principal.Username)
		c.Set(ContextRole, principal.Role)

		c.Next()
	}
}

// RequireRole checks if the user has specific roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User role not found in context"})
			c.Abort()
			return
		}

		roleStr, ok := userRole.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid role type in context"})
			c.Abort()
			return
		}

		for _, role := range roles {
			if roleStr == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
		c.Abort()
	}
}

// WantsJSON reports whether the caller asked for JSON rather than a page.
func WantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// CurrentUserID returns the authenticated user id set by SessionAuthMiddleware.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func handleAuthError(c *gin.Context, message string) {
	if WantsJSON(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	} else {
		c.Redirect(http.StatusFound, LoginPath)
	}
	c.Abort()
}
