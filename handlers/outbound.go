package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/helm-collect/middleware"
	"github.com/yourusername/helm-collect/models"
	"github.com/yourusername/helm-collect/store"
	"github.com/yourusername/helm-collect/utils"
)

// OutboundHandler queues SMS, email and call requests for the client that
// owns the calling API key.
type OutboundHandler struct {
	store      *store.Store
	dispatcher utils.DispatcherInterface
}

func NewOutboundHandler(s *store.Store, dispatcher utils.DispatcherInterface) *OutboundHandler {
	return &OutboundHandler{store: s, dispatcher: dispatcher}
}

type SendSMSRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type SendEmailRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type StartCallRequest struct {
	Phone  string `json:"phone"`
	Script string `json:"script"`
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// queue stores the log row and then hands it to the dispatcher. A dispatch
// failure is logged only.
func (h *OutboundHandler) queue(c *gin.Context, entry *models.OutboundLog) bool {
	clientID, ok := middleware.CurrentClientID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
		return false
	}
	entry.ClientID = clientID
	entry.Status = models.OutboundQueued

	if err := h.store.CreateOutboundLog(c.Request.Context(), entry); err != nil {
		slog.Error("Failed to record outbound message", "error", err, "channel", entry.Channel, "client_id", clientID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to queue message"})
		return false
	}
	if err := h.dispatcher.Dispatch(c.Request.Context(), *entry); err != nil {
		slog.Error("Outbound dispatch failed", "error", err, "outbound_id", entry.ID, "channel", entry.Channel)
	}
	return true
}

func (h *OutboundHandler) SendSMS(c *gin.Context) {
	var req SendSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil || blank(req.Phone, req.Message) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing phone or message"})
		return
	}

	entry := models.OutboundLog{Channel: models.ChannelSMS, Recipient: req.Phone, Message: req.Message}
	if !h.queue(c, &entry) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.OutboundQueued, "to": req.Phone})
}

func (h *OutboundHandler) SendEmail(c *gin.Context) {
	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil || blank(req.Email, req.Subject, req.Body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email, subject or body"})
		return
	}

	entry := models.OutboundLog{
		Channel:   models.ChannelEmail,
		Recipient: req.Email,
		Message:   req.Subject + "\n\n" + req.Body,
	}
	if !h.queue(c, &entry) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.OutboundQueued, "to": req.Email})
}

func (h *OutboundHandler) StartCall(c *gin.Context) {
	var req StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil || blank(req.Phone, req.Script) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing phone or script"})
		return
	}

	entry := models.OutboundLog{
		Channel:   models.ChannelCall,
		Recipient: req.Phone,
		Message:   req.Script,
		Reference: utils.NewCallID(),
	}
	if !h.queue(c, &entry) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.OutboundQueued, "call_id": entry.Reference})
}
