package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	caseSearchLimit   = 50
	clientSearchLimit = 20

	ModeContains = "contains"
)

const debtorNameExpr = "COALESCE(NULLIF(s.debtor_business_name, ''), s.debtor_first || ' ' || s.debtor_last)"

const caseSearchSQL = `
SELECT c.id AS client_id, c.business_name AS client, s.id AS case_id,
       %[1]s AS search_field,
       ` + debtorNameExpr + ` AS debtor,
       s.postcode, s.email, s.phone, c.id AS client_code
FROM cases s
JOIN clients c ON s.client_id = c.id
WHERE LOWER(%[1]s) LIKE LOWER(?) ESCAPE '\'
ORDER BY c.business_name, s.id
LIMIT ?`

// caseSearchQueries maps each accepted field identifier to its complete
// query. The SQL text is fixed at init; user input is only ever bound.
var caseSearchQueries = map[string]string{
	"debtor_name": fmt.Sprintf(caseSearchSQL, debtorNameExpr),
	"client_name": fmt.Sprintf(caseSearchSQL, "c.business_name"),
	"postcode":    fmt.Sprintf(caseSearchSQL, "s.postcode"),
	"email":       fmt.Sprintf(caseSearchSQL, "s.email"),
	"phone":       fmt.Sprintf(caseSearchSQL, "s.phone"),
}

const clientNameSearchSQL = `
SELECT id, business_name AS name
FROM clients
WHERE LOWER(business_name) LIKE LOWER(?) ESCAPE '\'
ORDER BY business_name, id
LIMIT ?`

const clientCodeSearchSQL = `
SELECT id, business_name AS name
FROM clients
WHERE id = ?`

type CaseSearchResult struct {
	ClientID    uint   `json:"client_id"`
	Client      string `json:"client"`
	CaseID      uint   `json:"case_id"`
	SearchField string `json:"search_field"`
	Debtor      string `json:"debtor"`
	Postcode    string `json:"postcode"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	ClientCode  uint   `json:"client_code"`
}

type ClientSearchResult struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func CaseSearchFields() []string {
	return []string{"debtor_name", "client_name", "postcode", "email", "phone"}
}

// likePattern escapes LIKE metacharacters in q and, in contains mode, wraps
// it in wildcards. Any other mode is an exact match.
func likePattern(q, mode string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(q)
	if mode == ModeContains {
		return "%" + escaped + "%"
	}
	return escaped
}

// SearchCases returns an empty result for blank queries and unknown fields.
func (s *Store) SearchCases(ctx context.Context, q, field, mode string) ([]CaseSearchResult, error) {
	results := []CaseSearchResult{}
	q = strings.TrimSpace(q)
	query, ok := caseSearchQueries[field]
	if q == "" || !ok {
		return results, nil
	}

	if err := s.db.WithContext(ctx).Raw(query, likePattern(q, mode), caseSearchLimit).Scan(&results).Error; err != nil {
		return nil, fmt.Errorf("search cases: %w", err)
	}
	if results == nil {
		results = []CaseSearchResult{}
	}
	return results, nil
}

// SearchClients matches on client_name or on client_code, which is the
// numeric client id. A code that is not a positive int64 yields no results.
func (s *Store) SearchClients(ctx context.Context, q, field, mode string) ([]ClientSearchResult, error) {
	results := []ClientSearchResult{}
	q = strings.TrimSpace(q)
	if q == "" {
		return results, nil
	}

	db := s.db.WithContext(ctx)
	switch field {
	case "client_code":
		id, err := strconv.ParseInt(q, 10, 64)
		if err != nil || id <= 0 {
			return results, nil
		}
		if err := db.Raw(clientCodeSearchSQL, id).Scan(&results).Error; err != nil {
			return nil, fmt.Errorf("search clients: %w", err)
		}
	case "client_name":
		if err := db.Raw(clientNameSearchSQL, likePattern(q, mode), clientSearchLimit).Scan(&results).Error; err != nil {
			return nil, fmt.Errorf("search clients: %w", err)
		}
	}
	if results == nil {
		results = []ClientSearchResult{}
	}
	return results, nil
}
