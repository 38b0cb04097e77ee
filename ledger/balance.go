// Package ledger derives case balances from money entries. Balances are never
// stored; callers recompute them from the rows on every read.
package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/yourusername/helm-collect/models"
)

// Totals holds per-type sums for one case alongside the derived balance.
type Totals struct {
	Invoice           decimal.Decimal `json:"invoice"`
	Payment           decimal.Decimal `json:"payment"`
	Charge            decimal.Decimal `json:"charge"`
	RecoverableCharge decimal.Decimal `json:"recoverable_charge"`
	Interest          decimal.Decimal `json:"interest"`
	Balance           decimal.Decimal `json:"balance"`
}

// Effect returns the signed contribution of one entry to the balance:
// invoices and interest add, payments subtract, charges add only when
// recoverable. Unknown types contribute nothing.
func Effect(entry models.Money) decimal.Decimal {
	switch entry.Type {
	case models.MoneyInvoice, models.MoneyInterest:
		return entry.Amount
	case models.MoneyPayment:
		return entry.Amount.Neg()
	case models.MoneyCharge:
		if entry.Recoverable {
			return entry.Amount
		}
	}
	return decimal.Zero
}

// Balance computes the outstanding amount rounded to 2 decimal places.
func Balance(entries []models.Money) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(Effect(e))
	}
	return total.Round(2)
}

// Summarize computes per-type totals and the balance in a single pass.
func Summarize(entries []models.Money) Totals {
	var t Totals
	for _, e := range entries {
		switch e.Type {
		case models.MoneyInvoice:
			t.Invoice = t.Invoice.Add(e.Amount)
		case models.MoneyPayment:
			t.Payment = t.Payment.Add(e.Amount)
		case models.MoneyCharge:
			t.Charge = t.Charge.Add(e.Amount)
			if e.Recoverable {
				t.RecoverableCharge = t.RecoverableCharge.Add(e.Amount)
			}
		case models.MoneyInterest:
			t.Interest = t.Interest.Add(e.Amount)
		}
	}
	t.Balance = t.Invoice.Add(t.Interest).Add(t.RecoverableCharge).Sub(t.Payment).Round(2)
	return t
}

// BalancesByCase groups entries by case id and computes each balance. Cases
// without entries are absent from the result and have a zero balance.
func BalancesByCase(entries []models.Money) map[uint]decimal.Decimal {
	grouped := make(map[uint][]models.Money)
	for _, e := range entries {
		grouped[e.CaseID] = append(grouped[e.CaseID], e)
	}
	balances := make(map[uint]decimal.Decimal, len(grouped))
	for caseID, rows := range grouped {
		balances[caseID] = Balance(rows)
	}
	return balances
}
