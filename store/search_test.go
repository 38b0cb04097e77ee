package store_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/helm-collect/models"
	"github.com/yourusername/helm-collect/store"
	"github.com/yourusername/helm-collect/store/storetest"
)

func seedSearch(t *testing.T, s *store.Store) (models.Client, models.Client) {
	t.Helper()
	ctx := context.Background()

	acme := models.Client{BusinessType: "Ltd", BusinessName: "Acme Supplies"}
	require.NoError(t, s.CreateClient(ctx, &acme))
	brook := models.Client{BusinessType: "Sole Trader", BusinessName: "Brook Plumbing"}
	require.NoError(t, s.CreateClient(ctx, &brook))

	cases := []models.Case{
		{ClientID: acme.ID, DebtorBusinessName: "Widgets 100% Ltd", Postcode: "AB1 2CD", Email: "accounts@widgets.test", Phone: "0111"},
		{ClientID: acme.ID, DebtorFirst: "Jane", DebtorLast: "Doe", Postcode: "ZZ9 9ZZ", Email: "jane@doe.test", Phone: "0222"},
		{ClientID: brook.ID, DebtorFirst: "John", DebtorLast: "Smith", Postcode: "AB1 7XY", Email: "john@smith.test", Phone: "0333"},
	}
	for i := range cases {
		require.NoError(t, s.CreateCase(ctx, &cases[i]))
	}
	return acme, brook
}

func TestSearchCases(t *testing.T) {
	s := storetest.New(t)
	seedSearch(t, s)
	ctx := context.Background()

	tests := []struct {
		name    string
		q       string
		field   string
		mode    string
		debtors []string
	}{
		{name: "Debtor name contains", q: "doe", field: "debtor_name", mode: "contains", debtors: []string{"Jane Doe"}},
		{name: "Business name preferred", q: "widgets", field: "debtor_name", mode: "contains", debtors: []string{"Widgets 100% Ltd"}},
		{name: "Client name", q: "brook", field: "client_name", mode: "contains", debtors: []string{"John Smith"}},
		{name: "Postcode prefix via contains", q: "ab1", field: "postcode", mode: "contains", debtors: []string{"Widgets 100% Ltd", "John Smith"}},
		{name: "Exact postcode", q: "ab1 7xy", field: "postcode", mode: "exact", debtors: []string{"John Smith"}},
		{name: "Exact does not match partial", q: "ab1", field: "postcode", mode: "exact", debtors: nil},
		{name: "Email", q: "jane@", field: "email", mode: "contains", debtors: []string{"Jane Doe"}},
		{name: "Phone", q: "0333", field: "phone", mode: "contains", debtors: []string{"John Smith"}},
		{name: "Percent is literal", q: "100%", field: "debtor_name", mode: "contains", debtors: []string{"Widgets 100% Ltd"}},
		{name: "Wildcard alone matches nothing", q: "%", field: "phone", mode: "contains", debtors: nil},
		{name: "Field outside allow-list", q: "a", field: "password_hash", mode: "contains", debtors: nil},
		{name: "Injection attempt as field", q: "a", field: "s.id; DROP TABLE cases", mode: "contains", debtors: nil},
		{name: "Blank query", q: "   ", field: "debtor_name", mode: "contains", debtors: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := s.SearchCases(ctx, tt.q, tt.field, tt.mode)
			require.NoError(t, err)
			require.NotNil(t, results)

			var debtors []string
			for _, r := range results {
				debtors = append(debtors, r.Debtor)
			}
			assert.ElementsMatch(t, tt.debtors, debtors)
		})
	}
}

func TestSearchCasesResultShape(t *testing.T) {
	s := storetest.New(t)
	acme, _ := seedSearch(t, s)

	results, err := s.SearchCases(context.Background(), "jane", "debtor_name", "contains")
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.Equal(t, acme.ID, r.ClientID)
	assert.Equal(t, acme.ID, r.ClientCode)
	assert.Equal(t, "Acme Supplies", r.Client)
	assert.Equal(t, "Jane Doe", r.SearchField)
	assert.Equal(t, "ZZ9 9ZZ", r.Postcode)
	assert.Equal(t, "jane@doe.test", r.Email)
	assert.Equal(t, "0222", r.Phone)
	assert.NotZero(t, r.CaseID)
}

func TestSearchCasesLimit(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	client := models.Client{BusinessType: "Ltd", BusinessName: "Bulk"}
	require.NoError(t, s.CreateClient(ctx, &client))
	for i := 0; i < 60; i++ {
		c := models.Case{ClientID: client.ID, DebtorBusinessName: "Debtor " + strconv.Itoa(i)}
		require.NoError(t, s.CreateCase(ctx, &c))
	}

	results, err := s.SearchCases(ctx, "debtor", "debtor_name", "contains")
	require.NoError(t, err)
	assert.Len(t, results, 50)
}

func TestSearchClients(t *testing.T) {
	s := storetest.New(t)
	acme, brook := seedSearch(t, s)
	ctx := context.Background()

	t.Run("By name", func(t *testing.T) {
		results, err := s.SearchClients(ctx, "PLUMB", "client_name", "contains")
		require.NoError(t, err)
		assert.Equal(t, []store.ClientSearchResult{{ID: brook.ID, Name: "Brook Plumbing"}}, results)
	})

	t.Run("By code", func(t *testing.T) {
		results, err := s.SearchClients(ctx, strconv.Itoa(int(acme.ID)), "client_code", "contains")
		require.NoError(t, err)
		assert.Equal(t, []store.ClientSearchResult{{ID: acme.ID, Name: "Acme Supplies"}}, results)
	})

	for _, code := range []string{"abc", "18446744073709551615", "9223372036854775808", "0", "-3"} {
		t.Run("Unmatchable code "+code, func(t *testing.T) {
			results, err := s.SearchClients(ctx, code, "client_code", "contains")
			require.NoError(t, err)
			assert.Empty(t, results)
			assert.NotNil(t, results)
		})
	}

	t.Run("Unknown field", func(t *testing.T) {
		results, err := s.SearchClients(ctx, "acme", "email", "contains")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
