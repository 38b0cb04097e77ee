package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/helm-collect/models"
	"github.com/yourusername/helm-collect/store"
	"github.com/yourusername/helm-collect/utils"
)

type APIKeyHandler struct {
	store *store.Store
}

func NewAPIKeyHandler(s *store.Store) *APIKeyHandler {
	return &APIKeyHandler{store: s}
}

// Create issues a key for the client. The plaintext key is only ever
// returned here.
func (h *APIKeyHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	clientID, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
		return
	}
	if _, err := h.store.ClientByID(ctx, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		slog.Error("Failed to load client", "error", err, "client_id", clientID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	key, hash, prefix, err := utils.GenerateAPIKey()
	if err != nil {
		slog.Error("Failed to generate API key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	record := models.APIKey{
		ClientID:  clientID,
		KeyHash:   hash,
		KeyPrefix: prefix,
		Name:      strings.TrimSpace(c.PostForm("name")),
		Active:    true,
	}
	if err := h.store.CreateAPIKey(ctx, &record); err != nil {
		slog.Error("Failed to store API key", "error", err, "client_id", clientID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	slog.Info("API key created", "client_id", clientID, "key_id", record.ID, "prefix", prefix)
	c.JSON(http.StatusCreated, gin.H{
		"id":        record.ID,
		"key":       key,
		"prefix":    prefix,
		"name":      record.Name,
		"client_id": clientID,
	})
}

func (h *APIKeyHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}

	err := h.store.DeactivateAPIKey(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}
	if err != nil {
		slog.Error("Failed to deactivate API key", "error", err, "key_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate API key"})
		return
	}

	slog.Info("API key deactivated", "key_id", id)
	c.JSON(http.StatusOK, gin.H{"id": id, "active": false})
}
