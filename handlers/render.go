package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/yourusername/helm-collect/ledger"
	"github.com/yourusername/helm-collect/models"
)

const flashCookie = "flash"

func setFlash(c *gin.Context, message string) {
	c.SetCookie(flashCookie, message, 60, "/", "", c.Request.TLS != nil, true)
}

func popFlash(c *gin.Context) string {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return ""
	}
	c.SetCookie(flashCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	return raw
}

// flashRedirect is how every page route reports an outcome.
func flashRedirect(c *gin.Context, message, location string) {
	if message != "" {
		setFlash(c, message)
	}
	c.Redirect(http.StatusFound, location)
}

// renderPage serves the named template to browsers and the same data as JSON
// to callers that ask for it.
func renderPage(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	flash := popFlash(c)
	if msg, ok := data["flash"].(string); ok && msg != "" {
		flash = msg
	}
	data["flash"] = flash
	c.Negotiate(status, gin.Negotiate{
		Offered:  []string{binding.MIMEHTML, binding.MIMEJSON},
		HTMLName: name,
		Data:     data,
	})
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func caseLocation(caseID uint) string {
	return "/dashboard?case_id=" + strconv.FormatUint(uint64(caseID), 10)
}

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

type caseView struct {
	models.Case
	DebtorName string  `json:"debtor_name"`
	Balance    float64 `json:"balance"`
}

func newCaseView(c models.Case, balance decimal.Decimal) caseView {
	return caseView{Case: c, DebtorName: c.DebtorName(), Balance: toFloat(balance)}
}

type moneyView struct {
	models.Money
	Amount float64 `json:"amount"`
}

type totalsView struct {
	Invoice           float64 `json:"invoice"`
	Payment           float64 `json:"payment"`
	Charge            float64 `json:"charge"`
	RecoverableCharge float64 `json:"recoverable_charge"`
	Interest          float64 `json:"interest"`
}

type caseDetailView struct {
	Case         caseView      `json:"case"`
	Client       models.Client `json:"client"`
	InterestRate float64       `json:"interest_rate"`
	Notes        []models.Note `json:"notes"`
	Money        []moneyView   `json:"money"`
	Totals       totalsView    `json:"totals"`
	Balance      float64       `json:"balance"`
}

func newCaseDetailView(c models.Case, client models.Client, notes []models.Note, entries []models.Money) caseDetailView {
	totals := ledger.Summarize(entries)
	money := make([]moneyView, 0, len(entries))
	for _, e := range entries {
		money = append(money, moneyView{Money: e, Amount: toFloat(e.Amount)})
	}
	if notes == nil {
		notes = []models.Note{}
	}
	return caseDetailView{
		Case:         newCaseView(c, totals.Balance),
		Client:       client,
		InterestRate: c.EffectiveInterestRate(client),
		Notes:        notes,
		Money:        money,
		Totals: totalsView{
			Invoice:           toFloat(totals.Invoice),
			Payment:           toFloat(totals.Payment),
			Charge:            toFloat(totals.Charge),
			RecoverableCharge: toFloat(totals.RecoverableCharge),
			Interest:          toFloat(totals.Interest),
		},
		Balance: toFloat(totals.Balance),
	}
}
