package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/helm-collect/middleware"
	"github.com/yourusername/helm-collect/models"
	"github.com/yourusername/helm-collect/store"
	"github.com/yourusername/helm-collect/store/storetest"
)

type dashboardBody struct {
	Flash string `json:"flash"`
	Cases []struct {
		ID         uint    `json:"id"`
		DebtorName string  `json:"debtor_name"`
		Balance    float64 `json:"balance"`
	} `json:"cases"`
	Selected *struct {
		Case struct {
			ID uint `json:"id"`
		} `json:"case"`
		InterestRate float64 `json:"interest_rate"`
		Money        []struct {
			Type   string  `json:"type"`
			Amount float64 `json:"amount"`
		} `json:"money"`
		Totals struct {
			Invoice float64 `json:"invoice"`
			Payment float64 `json:"payment"`
		} `json:"totals"`
		Balance float64 `json:"balance"`
	} `json:"selected"`
}

func setupCaseRouter(t *testing.T) (*store.Store, http.Handler, *http.Cookie, *http.Cookie) {
	s := storetest.New(t)
	agent := createUser(t, s, "agent", "pw", models.RoleUser)
	admin := createUser(t, s, "boss", "pw", models.RoleAdmin)

	handler := NewCaseHandler(s)
	router, staff := staffRouter(s)
	staff.GET("/dashboard", handler.Dashboard)
	staff.GET("/client/:id", handler.ClientDashboard)
	staff.POST("/client/add_client", handler.AddClient)
	staff.POST("/case/add_case", handler.AddCase)
	staff.POST("/case/:id/edit", handler.EditCase)
	staff.POST("/case/:id/money", handler.AddMoney)
	staff.POST("/case/:id/notes", handler.AddNote)

	adminOnly := staff.Group("/", middleware.RequireRole(models.RoleAdmin))
	adminOnly.POST("/client/:id/delete", handler.DeleteClient)
	adminOnly.POST("/case/:id/delete", handler.DeleteCase)

	return s, router, sessionCookie(t, agent), sessionCookie(t, admin)
}

func TestDashboardBalances(t *testing.T) {
	s, router, agent, _ := setupCaseRouter(t)
	client := createClient(t, s, "Acme Supplies")
	c := createCase(t, s, client.ID, "Jane", "Doe")
	addMoney(t, s, c.ID, models.MoneyInvoice, "500", false)
	addMoney(t, s, c.ID, models.MoneyPayment, "200", false)

	t.Run("List", func(t *testing.T) {
		w := getJSON(router, "/dashboard", agent)
		require.Equal(t, http.StatusOK, w.Code)

		var body dashboardBody
		decode(t, w, &body)
		require.Len(t, body.Cases, 1)
		assert.Equal(t, "Jane Doe", body.Cases[0].DebtorName)
		assert.Equal(t, 300.0, body.Cases[0].Balance)
		assert.Nil(t, body.Selected)
	})

	t.Run("Selected Case", func(t *testing.T) {
		w := getJSON(router, fmt.Sprintf("/dashboard?case_id=%d", c.ID), agent)
		require.Equal(t, http.StatusOK, w.Code)

		var body dashboardBody
		decode(t, w, &body)
		require.NotNil(t, body.Selected)
		assert.Equal(t, c.ID, body.Selected.Case.ID)
		assert.Equal(t, 300.0, body.Selected.Balance)
		assert.Equal(t, 500.0, body.Selected.Totals.Invoice)
		assert.Equal(t, 200.0, body.Selected.Totals.Payment)
		assert.Len(t, body.Selected.Money, 2)
	})

	t.Run("Unknown Case", func(t *testing.T) {
		w := getJSON(router, "/dashboard?case_id=999", agent)
		require.Equal(t, http.StatusOK, w.Code)

		var body dashboardBody
		decode(t, w, &body)
		assert.Equal(t, "Case not found", body.Flash)
		assert.Nil(t, body.Selected)
		assert.Len(t, body.Cases, 1)
	})

	t.Run("Requires Session", func(t *testing.T) {
		w := getJSON(router, "/dashboard", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestClientDashboard(t *testing.T) {
	s, router, agent, _ := setupCaseRouter(t)
	client := models.Client{BusinessType: "Ltd", BusinessName: "Acme Supplies", ContactFirst: "Sam", ContactLast: "Lee"}
	require.NoError(t, s.CreateClient(context.Background(), &client))
	createCase(t, s, client.ID, "Jane", "Doe")
	key := models.APIKey{ClientID: client.ID, KeyHash: "hash", KeyPrefix: "hk_1234abcd", Name: "crm", Active: true}
	require.NoError(t, s.CreateAPIKey(context.Background(), &key))

	w := getJSON(router, fmt.Sprintf("/client/%d", client.ID), agent)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe")

	var body struct {
		Client  models.Client   `json:"client"`
		Contact string          `json:"contact"`
		APIKeys []models.APIKey `json:"api_keys"`
	}
	decode(t, w, &body)
	assert.Equal(t, "Acme Supplies", body.Client.BusinessName)
	assert.Equal(t, "Sam Lee", body.Contact)
	require.Len(t, body.APIKeys, 1)
	assert.Equal(t, "hk_1234abcd", body.APIKeys[0].KeyPrefix)
	assert.NotContains(t, w.Body.String(), `"hash"`)

	w = getJSON(router, "/client/999", agent)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Equal(t, "Client not found", flashOf(w))
}

func TestAddClient(t *testing.T) {
	s, router, agent, _ := setupCaseRouter(t)
	ctx := context.Background()

	t.Run("Valid Request", func(t *testing.T) {
		w := postForm(router, "/client/add_client", url.Values{
			"business_type":         {"Ltd"},
			"business_name":         {"Acme Supplies"},
			"default_interest_rate": {"8"},
		}, agent)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
		assert.Equal(t, "Client added", flashOf(w))

		clients, err := s.ListClients(ctx)
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, 8.0, clients[0].DefaultInterestRate)
	})

	t.Run("Missing Name", func(t *testing.T) {
		w := postForm(router, "/client/add_client", url.Values{"business_type": {"Ltd"}}, agent)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.NotEqual(t, "Client added", flashOf(w))

		clients, err := s.ListClients(ctx)
		require.NoError(t, err)
		assert.Len(t, clients, 1)
	})
}

func TestAddAndEditCase(t *testing.T) {
	s, router, agent, _ := setupCaseRouter(t)
	client := createClient(t, s, "Acme Supplies")
	ctx := context.Background()

	w := postForm(router, "/case/add_case", url.Values{
		"client_id":    {fmt.Sprint(client.ID)},
		"debtor_first": {"Jane"},
		"debtor_last":  {"Doe"},
		"postcode":     {"ab1 2cd"},
	}, agent)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "Case added", flashOf(w))

	cases, err := s.CasesForClient(ctx, client.ID)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	c := cases[0]
	assert.Equal(t, models.CaseStatusOpen, c.Status)
	assert.Equal(t, "AB1 2CD", c.Postcode)
	assert.Equal(t, caseLocation(c.ID), w.Header().Get("Location"))

	t.Run("Invalid Status On Create", func(t *testing.T) {
		w := postForm(router, "/case/add_case", url.Values{
			"client_id":    {fmt.Sprint(client.ID)},
			"debtor_first": {"John"},
			"status":       {"Archived"},
		}, agent)
		assert.Equal(t, "Invalid status", flashOf(w))
	})

	t.Run("Unknown Client", func(t *testing.T) {
		w := postForm(router, "/case/add_case", url.Values{"client_id": {"999"}, "debtor_first": {"John"}}, agent)
		assert.Equal(t, "Client not found", flashOf(w))
	})

	t.Run("Edit", func(t *testing.T) {
		w := postForm(router, fmt.Sprintf("/case/%d/edit", c.ID), url.Values{
			"status":           {models.CaseStatusOnHold},
			"next_action_date": {"2026-03-01"},
			"interest_rate":    {"4.5"},
		}, agent)
		assert.Equal(t, "Case updated", flashOf(w))

		got, err := s.CaseByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CaseStatusOnHold, got.Status)
		require.NotNil(t, got.InterestRate)
		assert.Equal(t, 4.5, *got.InterestRate)
		require.NotNil(t, got.NextActionDate)
		assert.Equal(t, "2026-03-01", got.NextActionDate.Format("2006-01-02"))
	})

	t.Run("Edit Clears Date And Rate", func(t *testing.T) {
		w := postForm(router, fmt.Sprintf("/case/%d/edit", c.ID), url.Values{
			"next_action_date": {""},
			"interest_rate":    {" "},
		}, agent)
		assert.Equal(t, "Case updated", flashOf(w))

		got, err := s.CaseByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Nil(t, got.NextActionDate)
		assert.Nil(t, got.InterestRate)
		assert.Equal(t, client.DefaultInterestRate, got.EffectiveInterestRate(client))
	})

	t.Run("Edit Rejects Bad Date", func(t *testing.T) {
		w := postForm(router, fmt.Sprintf("/case/%d/edit", c.ID), url.Values{"next_action_date": {"01/03/2026"}}, agent)
		assert.Equal(t, "Invalid next action date", flashOf(w))
	})

	t.Run("Edit Rejects Unknown Status", func(t *testing.T) {
		w := postForm(router, fmt.Sprintf("/case/%d/edit", c.ID), url.Values{"status": {"Archived"}}, agent)
		assert.Equal(t, "Invalid status", flashOf(w))

		got, err := s.CaseByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.CaseStatusOnHold, got.Status)
	})
}

func TestAddMoneyAndNotes(t *testing.T) {
	s, router, agent, _ := setupCaseRouter(t)
	client := createClient(t, s, "Acme Supplies")
	c := createCase(t, s, client.ID, "Jane", "Doe")
	ctx := context.Background()
	moneyPath := fmt.Sprintf("/case/%d/money", c.ID)

	tests := []struct {
		name          string
		form          url.Values
		expectedFlash string
	}{
		{"Invoice", url.Values{"type": {"Invoice"}, "amount": {"500"}, "transaction_date": {"2026-01-05"}}, "Invoice added"},
		{"Recoverable Charge", url.Values{"type": {"Charge"}, "amount": {"25.50"}, "recoverable": {"on"}}, "Charge added"},
		{"Unknown Type", url.Values{"type": {"Refund"}, "amount": {"10"}}, "Invalid transaction type"},
		{"Zero Amount", url.Values{"type": {"Payment"}, "amount": {"0"}}, "Amount must be a positive number"},
		{"Garbage Amount", url.Values{"type": {"Payment"}, "amount": {"ten"}}, "Amount must be a positive number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(router, moneyPath, tt.form, agent)
			assert.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, caseLocation(c.ID), w.Header().Get("Location"))
			assert.Equal(t, tt.expectedFlash, flashOf(w))
		})
	}

	entries, err := s.MoneyForCase(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		require.NotNil(t, e.CreatedBy)
		if e.Type == models.MoneyCharge {
			assert.True(t, e.Recoverable)
			assert.Equal(t, "25.5", e.Amount.String())
		}
	}

	w := postForm(router, fmt.Sprintf("/case/%d/notes", c.ID), url.Values{"type": {"Call"}, "note": {"Promised to pay Friday"}}, agent)
	assert.Equal(t, "Note added", flashOf(w))

	notes, err := s.NotesForCase(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Promised to pay Friday", notes[0].Note)
	assert.NotZero(t, notes[0].CreatedBy)
}

func TestDeleteRequiresAdmin(t *testing.T) {
	s, router, agent, admin := setupCaseRouter(t)
	client := createClient(t, s, "Acme Supplies")
	c := createCase(t, s, client.ID, "Jane", "Doe")
	addMoney(t, s, c.ID, models.MoneyInvoice, "100", false)
	ctx := context.Background()

	w := postForm(router, fmt.Sprintf("/client/%d/delete", client.ID), nil, agent)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = postForm(router, fmt.Sprintf("/client/%d/delete", client.ID), nil, admin)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "Client deleted", flashOf(w))

	_, err := s.CaseByID(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	entries, err := s.MoneyForCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	w = postForm(router, fmt.Sprintf("/case/%d/delete", c.ID), nil, admin)
	assert.Equal(t, "Case not found", flashOf(w))
}
