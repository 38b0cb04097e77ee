package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yourusername/helm-collect/config"
	"github.com/yourusername/helm-collect/ledger"
	"github.com/yourusername/helm-collect/models"
	"github.com/yourusername/helm-collect/store"
	"github.com/yourusername/helm-collect/utils"
)

const apiPaymentNote = "API Payment"

type DebtorHandler struct {
	store *store.Store
	cfg   *config.Config
}

func NewDebtorHandler(s *store.Store, cfg *config.Config) *DebtorHandler {
	return &DebtorHandler{store: s, cfg: cfg}
}

// baseURL is the configured public URL, or the scheme and host the request
// arrived on.
func (h *DebtorHandler) baseURL(c *gin.Context) string {
	if h.cfg.BaseURL != "" {
		return strings.TrimRight(h.cfg.BaseURL, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host
}

// GenerateLink issues a time-limited token that lets the debtor view the
// case balance without logging in.
func (h *DebtorHandler) GenerateLink(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c, "id")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
		return
	}
	if _, err := h.store.CaseByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
			return
		}
		slog.Error("Failed to load case", "error", err, "case_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		return
	}

	token, err := h.store.CreateDebtorToken(ctx, id, utils.NewDebtorToken(), h.cfg.DebtorLinkTTL)
	if err != nil {
		slog.Error("Failed to create debtor token", "error", err, "case_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create link"})
		return
	}

	slog.Info("Debtor link created", "case_id", id, "expires", token.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"link":    h.baseURL(c) + "/api/landing/" + token.Token,
		"expires": token.ExpiresAt.Format(time.RFC3339),
	})
}

func (h *DebtorHandler) Landing(c *gin.Context) {
	token := c.Param("token")
	view, err := h.store.DebtorViewByToken(c.Request.Context(), token)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Link expired or invalid"})
		return
	}
	if err != nil {
		slog.Error("Failed to load debtor view", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load balance"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"debtor":      view.Case.DebtorName(),
		"balance":     toFloat(ledger.Balance(view.Entries)),
		"payment_url": h.baseURL(c) + "/api/pay/" + token,
	})
}

// PaymentPage is a placeholder until a payment provider is integrated.
func (h *DebtorHandler) PaymentPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Payment integration coming soon",
		"token":   c.Param("token"),
	})
}

type PaymentWebhookRequest struct {
	CaseID uint             `json:"case_id" binding:"required"`
	Amount *decimal.Decimal `json:"amount"`
}

// PaymentWebhook records a payment reported by the payment provider.
// TODO: verify the provider signature once a provider is chosen.
func (h *DebtorHandler) PaymentWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	var req PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Amount == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "case_id and amount are required"})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}
	if _, err := h.store.CaseByID(ctx, req.CaseID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Case not found"})
			return
		}
		slog.Error("Failed to load case", "error", err, "case_id", req.CaseID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	payment := models.Money{
		CaseID: req.CaseID,
		Type:   models.MoneyPayment,
		Amount: req.Amount.Round(2),
		Note:   apiPaymentNote,
	}
	if err := h.store.CreateMoney(ctx, &payment); err != nil {
		slog.Error("Failed to record webhook payment", "error", err, "case_id", req.CaseID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	slog.Info("Webhook payment recorded", "case_id", req.CaseID, "amount", payment.Amount.StringFixed(2))
	c.JSON(http.StatusOK, gin.H{"status": "received"})
}
