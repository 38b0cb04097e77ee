package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/helm-collect/config"
	"github.com/yourusername/helm-collect/middleware"
	"github.com/yourusername/helm-collect/models"
	"golang.org/x/crypto/bcrypt"
)

// UserFinder looks up login principals by username.
type UserFinder interface {
	UserByUsername(ctx context.Context, username string) (*models.User, error)
}

type AuthHandler struct {
	users UserFinder
	cfg   *config.Config
}

func NewAuthHandler(users UserFinder, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		users: users,
		cfg:   cfg,
	}
}

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	renderPage(c, http.StatusOK, "login.tmpl", gin.H{"title": "Log in"})
}

// Login checks the password against the stored bcrypt hash and starts a
// session. Unknown users and wrong passwords are indistinguishable.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		flashRedirect(c, "Username and password are required", middleware.LoginPath)
		return
	}

	user, err := h.users.UserByUsername(c.Request.Context(), req.Username)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		slog.Warn("Failed login", "username", req.Username, "ip", c.ClientIP())
		flashRedirect(c, "Invalid username or password", middleware.LoginPath)
		return
	}

	token, err := middleware.GenerateToken(user.Principal(), h.cfg.SessionSecret, h.cfg.SessionTTL)
	if err != nil {
		slog.Error("Failed to sign session", "error", err, "user_id", user.ID)
		flashRedirect(c, "Could not start session", middleware.LoginPath)
		return
	}

	middleware.SetSession(c, token, h.cfg.SessionTTL)
	slog.Info("User logged in", "user_id", user.ID, "username", user.Username)
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSession(c)
	flashRedirect(c, "Logged out", middleware.LoginPath)
}
