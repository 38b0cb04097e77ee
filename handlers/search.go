package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/helm-collect/store"
)

type SearchHandler struct {
	store *store.Store
}

func NewSearchHandler(s *store.Store) *SearchHandler {
	return &SearchHandler{store: s}
}

func searchMode(c *gin.Context) string {
	return c.DefaultQuery("mode", store.ModeContains)
}

// Search looks up cases by one of the allowed fields. Unknown fields and
// blank queries answer with an empty list.
func (h *SearchHandler) Search(c *gin.Context) {
	results, err := h.store.SearchCases(c.Request.Context(), c.Query("q"), c.Query("field"), searchMode(c))
	if err != nil {
		slog.Error("Case search failed", "error", err, "field", c.Query("field"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *SearchHandler) ClientSearch(c *gin.Context) {
	results, err := h.store.SearchClients(c.Request.Context(), c.Query("q"), c.Query("field"), searchMode(c))
	if err != nil {
		slog.Error("Client search failed", "error", err, "field", c.Query("field"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}
	c.JSON(http.StatusOK, results)
}
