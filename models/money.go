package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Money entry types. The amount is always a magnitude; the type decides its
// effect on the balance.
const (
	MoneyInvoice  = "Invoice"
	MoneyPayment  = "Payment"
	MoneyCharge   = "Charge"
	MoneyInterest = "Interest"
)

var MoneyTypes = []string{MoneyInvoice, MoneyPayment, MoneyCharge, MoneyInterest}

func ValidMoneyType(t string) bool {
	for _, mt := range MoneyTypes {
		if mt == t {
			return true
		}
	}
	return false
}

type Money struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CaseID          uint            `gorm:"not null;index" json:"case_id"`
	Case            *Case           `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type            string          `gorm:"size:20;not null" json:"type"`
	Amount          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	TransactionDate time.Time       `gorm:"type:date" json:"transaction_date"`
	CreatedBy       *uint           `json:"created_by"` // nil for rows posted by the payment webhook
	Creator         *User           `gorm:"foreignKey:CreatedBy;constraint:OnDelete:SET NULL" json:"-"`
	Note            string          `gorm:"type:text" json:"note"`
	Recoverable     bool            `gorm:"default:false" json:"recoverable"`
	Billable        bool            `gorm:"default:false" json:"billable"`
}

// TableName overrides the table name
func (Money) TableName() string {
	return "money"
}
