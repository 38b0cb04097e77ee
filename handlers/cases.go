package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/yourusername/helm-collect/ledger"
	"github.com/yourusername/helm-collect/middleware"
	"github.com/yourusername/helm-collect/models"
	"github.com/yourusername/helm-collect/store"
)

type CaseHandler struct {
	store *store.Store
}

func NewCaseHandler(s *store.Store) *CaseHandler {
	return &CaseHandler{store: s}
}

func (h *CaseHandler) caseViews(c *gin.Context, cases []models.Case) ([]caseView, error) {
	ids := make([]uint, 0, len(cases))
	for _, cs := range cases {
		ids = append(ids, cs.ID)
	}
	entries, err := h.store.MoneyForCases(c.Request.Context(), ids)
	if err != nil {
		return nil, err
	}
	balances := ledger.BalancesByCase(entries)

	views := make([]caseView, 0, len(cases))
	for _, cs := range cases {
		views = append(views, newCaseView(cs, balances[cs.ID]))
	}
	return views, nil
}

// Dashboard lists every client and case. A case_id query parameter selects
// the detail pane for one case.
func (h *CaseHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	clients, err := h.store.ListClients(ctx)
	if err != nil {
		slog.Error("Failed to list clients", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	cases, err := h.store.ListCases(ctx)
	if err != nil {
		slog.Error("Failed to list cases", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}
	views, err := h.caseViews(c, cases)
	if err != nil {
		slog.Error("Failed to compute balances", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard"})
		return
	}

	data := gin.H{
		"title":    "Dashboard",
		"clients":  clients,
		"cases":    views,
		"selected": nil,
	}

	if raw := c.Query("case_id"); raw != "" {
		detail, err := h.caseDetail(c, raw)
		switch {
		case errors.Is(err, store.ErrNotFound):
			data["flash"] = "Case not found"
		case err != nil:
			slog.Error("Failed to load case detail", "error", err, "case_id", raw)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load case"})
			return
		default:
			data["selected"] = detail
		}
	}

	renderPage(c, http.StatusOK, "dashboard.tmpl", data)
}

func (h *CaseHandler) caseDetail(c *gin.Context, raw string) (*caseDetailView, error) {
	ctx := c.Request.Context()

	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, store.ErrNotFound
	}
	cs, err := h.store.CaseByID(ctx, uint(id))
	if err != nil {
		return nil, err
	}
	client, err := h.store.ClientByID(ctx, cs.ClientID)
	if err != nil {
		return nil, err
	}
	notes, err := h.store.NotesForCase(ctx, cs.ID)
	if err != nil {
		return nil, err
	}
	entries, err := h.store.MoneyForCase(ctx, cs.ID)
	if err != nil {
		return nil, err
	}
	detail := newCaseDetailView(*cs, *client, notes, entries)
	return &detail, nil
}

// ClientDashboard shows one client, its API keys and its cases with balances.
func (h *CaseHandler) ClientDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c, "id")
	if !ok {
		flashRedirect(c, "Client not found", "/dashboard")
		return
	}
	client, err := h.store.ClientByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		flashRedirect(c, "Client not found", "/dashboard")
		return
	}
	if err != nil {
		slog.Error("Failed to load client", "error", err, "client_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client"})
		return
	}

	cases, err := h.store.CasesForClient(ctx, id)
	if err != nil {
		slog.Error("Failed to list client cases", "error", err, "client_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client"})
		return
	}
	views, err := h.caseViews(c, cases)
	if err != nil {
		slog.Error("Failed to compute balances", "error", err, "client_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client"})
		return
	}

	keys, err := h.store.APIKeysForClient(ctx, id)
	if err != nil {
		slog.Error("Failed to list API keys", "error", err, "client_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load client"})
		return
	}
	if keys == nil {
		keys = []models.APIKey{}
	}

	renderPage(c, http.StatusOK, "client.tmpl", gin.H{
		"title":    client.BusinessName,
		"client":   client,
		"contact":  client.ContactName(),
		"cases":    views,
		"api_keys": keys,
	})
}

type AddClientRequest struct {
	BusinessType        string  `form:"business_type" binding:"required"`
	BusinessName        string  `form:"business_name" binding:"required"`
	ContactFirst        string  `form:"contact_first"`
	ContactLast         string  `form:"contact_last"`
	Phone               string  `form:"phone"`
	Email               string  `form:"email"`
	BacsDetails         string  `form:"bacs_details"`
	DefaultInterestRate float64 `form:"default_interest_rate"`
}

func (h *CaseHandler) AddClient(c *gin.Context) {
	var req AddClientRequest
	if err := c.ShouldBind(&req); err != nil {
		flashRedirect(c, "Business type and name are required", "/dashboard")
		return
	}

	client := models.Client{
		BusinessType:        strings.TrimSpace(req.BusinessType),
		BusinessName:        strings.TrimSpace(req.BusinessName),
		ContactFirst:        req.ContactFirst,
		ContactLast:         req.ContactLast,
		Phone:               req.Phone,
		Email:               req.Email,
		BacsDetails:         req.BacsDetails,
		DefaultInterestRate: req.DefaultInterestRate,
	}
	if err := h.store.CreateClient(c.Request.Context(), &client); err != nil {
		slog.Error("Failed to create client", "error", err)
		flashRedirect(c, "Could not add client", "/dashboard")
		return
	}

	slog.Info("Client added", "client_id", client.ID)
	flashRedirect(c, "Client added", "/dashboard")
}

func (h *CaseHandler) DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		flashRedirect(c, "Client not found", "/dashboard")
		return
	}

	err := h.store.DeleteClient(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		flashRedirect(c, "Client not found", "/dashboard")
	case err != nil:
		slog.Error("Failed to delete client", "error", err, "client_id", id)
		flashRedirect(c, "Could not delete client", "/dashboard")
	default:
		slog.Info("Client deleted", "client_id", id)
		flashRedirect(c, "Client deleted", "/dashboard")
	}
}

type AddCaseRequest struct {
	ClientID           uint   `form:"client_id" binding:"required"`
	DebtorBusinessType string `form:"debtor_business_type"`
	DebtorBusinessName string `form:"debtor_business_name"`
	DebtorFirst        string `form:"debtor_first"`
	DebtorLast         string `form:"debtor_last"`
	Phone              string `form:"phone"`
	Email              string `form:"email"`
	AddressLine1       string `form:"address_line1"`
	AddressLine2       string `form:"address_line2"`
	Town               string `form:"town"`
	Postcode           string `form:"postcode"`
	Status             string `form:"status"`
	Substatus          string `form:"substatus"`
	NextActionDate     string `form:"next_action_date"`
	InterestRate       string `form:"interest_rate"`
}

func (h *CaseHandler) AddCase(c *gin.Context) {
	ctx := c.Request.Context()

	var req AddCaseRequest
	if err := c.ShouldBind(&req); err != nil {
		flashRedirect(c, "A client is required", "/dashboard")
		return
	}
	if strings.TrimSpace(req.DebtorBusinessName) == "" && strings.TrimSpace(req.DebtorFirst+req.DebtorLast) == "" {
		flashRedirect(c, "A debtor name is required", "/dashboard")
		return
	}
	if req.Status != "" && !models.ValidCaseStatus(req.Status) {
		flashRedirect(c, "Invalid status", "/dashboard")
		return
	}
	nextAction, err := parseDate(req.NextActionDate)
	if err != nil {
		flashRedirect(c, "Invalid next action date", "/dashboard")
		return
	}
	var rate *float64
	if s := strings.TrimSpace(req.InterestRate); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			flashRedirect(c, "Invalid interest rate", "/dashboard")
			return
		}
		rate = &v
	}
	if _, err := h.store.ClientByID(ctx, req.ClientID); err != nil {
		flashRedirect(c, "Client not found", "/dashboard")
		return
	}

	cs := models.Case{
		ClientID:           req.ClientID,
		DebtorBusinessType: req.DebtorBusinessType,
		DebtorBusinessName: strings.TrimSpace(req.DebtorBusinessName),
		DebtorFirst:        strings.TrimSpace(req.DebtorFirst),
		DebtorLast:         strings.TrimSpace(req.DebtorLast),
		Phone:              req.Phone,
		Email:              req.Email,
		AddressLine1:       req.AddressLine1,
		AddressLine2:       req.AddressLine2,
		Town:               req.Town,
		Postcode:           strings.ToUpper(strings.TrimSpace(req.Postcode)),
		Status:             req.Status,
		Substatus:          req.Substatus,
		NextActionDate:     nextAction,
		InterestRate:       rate,
	}
	if err := h.store.CreateCase(ctx, &cs); err != nil {
		slog.Error("Failed to create case", "error", err, "client_id", req.ClientID)
		flashRedirect(c, "Could not add case", "/dashboard")
		return
	}

	slog.Info("Case added", "case_id", cs.ID, "client_id", cs.ClientID)
	flashRedirect(c, "Case added", caseLocation(cs.ID))
}

// EditCase updates only the fields present in the form. An empty date or
// rate clears it, so the case falls back to the client default rate. Status
// changes are not constrained beyond the allowed values.
func (h *CaseHandler) EditCase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		flashRedirect(c, "Case not found", "/dashboard")
		return
	}

	var upd store.CaseUpdate
	if v, ok := c.GetPostForm("status"); ok {
		if !models.ValidCaseStatus(v) {
			flashRedirect(c, "Invalid status", caseLocation(id))
			return
		}
		upd.Status = &v
	}
	if v, ok := c.GetPostForm("substatus"); ok {
		upd.Substatus = &v
	}
	if v, ok := c.GetPostForm("next_action_date"); ok {
		d, err := parseDate(v)
		if err != nil {
			flashRedirect(c, "Invalid next action date", caseLocation(id))
			return
		}
		upd.NextActionDate = d
		upd.ClearNextActionDate = d == nil
	}
	if v, ok := c.GetPostForm("interest_rate"); ok {
		if v = strings.TrimSpace(v); v == "" {
			upd.ClearInterestRate = true
		} else {
			rate, err := strconv.ParseFloat(v, 64)
			if err != nil {
				flashRedirect(c, "Invalid interest rate", caseLocation(id))
				return
			}
			upd.InterestRate = &rate
		}
	}

	err := h.store.UpdateCase(c.Request.Context(), id, upd)
	switch {
	case errors.Is(err, store.ErrNotFound):
		flashRedirect(c, "Case not found", "/dashboard")
	case err != nil:
		slog.Error("Failed to update case", "error", err, "case_id", id)
		flashRedirect(c, "Could not update case", caseLocation(id))
	default:
		flashRedirect(c, "Case updated", caseLocation(id))
	}
}

func (h *CaseHandler) DeleteCase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		flashRedirect(c, "Case not found", "/dashboard")
		return
	}

	err := h.store.DeleteCase(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		flashRedirect(c, "Case not found", "/dashboard")
	case err != nil:
		slog.Error("Failed to delete case", "error", err, "case_id", id)
		flashRedirect(c, "Could not delete case", caseLocation(id))
	default:
		slog.Info("Case deleted", "case_id", id)
		flashRedirect(c, "Case deleted", "/dashboard")
	}
}

type AddMoneyRequest struct {
	Type            string `form:"type" binding:"required"`
	Amount          string `form:"amount" binding:"required"`
	TransactionDate string `form:"transaction_date"`
	Note            string `form:"note"`
	Recoverable     string `form:"recoverable"`
	Billable        string `form:"billable"`
}

func (h *CaseHandler) AddMoney(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c, "id")
	if !ok {
		flashRedirect(c, "Case not found", "/dashboard")
		return
	}
	if _, err := h.store.CaseByID(ctx, id); err != nil {
		flashRedirect(c, "Case not found", "/dashboard")
		return
	}

	var req AddMoneyRequest
	if err := c.ShouldBind(&req); err != nil {
		flashRedirect(c, "Type and amount are required", caseLocation(id))
		return
	}
	if !models.ValidMoneyType(req.Type) {
		flashRedirect(c, "Invalid transaction type", caseLocation(id))
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(req.Amount))
	if err != nil || !amount.IsPositive() {
		flashRedirect(c, "Amount must be a positive number", caseLocation(id))
		return
	}
	txDate, err := parseDate(req.TransactionDate)
	if err != nil {
		flashRedirect(c, "Invalid transaction date", caseLocation(id))
		return
	}

	entry := models.Money{
		CaseID:      id,
		Type:        req.Type,
		Amount:      amount.Round(2),
		Note:        req.Note,
		Recoverable: checked(req.Recoverable),
		Billable:    checked(req.Billable),
	}
	if txDate != nil {
		entry.TransactionDate = *txDate
	}
	if userID, ok := middleware.CurrentUserID(c); ok {
		entry.CreatedBy = &userID
	}

	if err := h.store.CreateMoney(ctx, &entry); err != nil {
		slog.Error("Failed to add transaction", "error", err, "case_id", id)
		flashRedirect(c, "Could not add transaction", caseLocation(id))
		return
	}
	flashRedirect(c, req.Type+" added", caseLocation(id))
}

type AddNoteRequest struct {
	Type string `form:"type" binding:"required"`
	Note string `form:"note" binding:"required"`
}

func (h *CaseHandler) AddNote(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := parseID(c, "id")
	if !ok {
		flashRedirect(c, "Case not found", "/dashboard")
		return
	}
	if _, err := h.store.CaseByID(ctx, id); err != nil {
		flashRedirect(c, "Case not found", "/dashboard")
		return
	}

	var req AddNoteRequest
	if err := c.ShouldBind(&req); err != nil || strings.TrimSpace(req.Note) == "" {
		flashRedirect(c, "Note type and text are required", caseLocation(id))
		return
	}
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		flashRedirect(c, "Login required", middleware.LoginPath)
		return
	}

	note := models.Note{CaseID: id, Type: req.Type, CreatedBy: userID, Note: strings.TrimSpace(req.Note)}
	if err := h.store.CreateNote(ctx, &note); err != nil {
		slog.Error("Failed to add note", "error", err, "case_id", id)
		flashRedirect(c, "Could not add note", caseLocation(id))
		return
	}
	flashRedirect(c, "Note added", caseLocation(id))
}
