package models

import (
	"strings"
	"time"
)

// Case statuses. There are no enforced transitions between them.
const (
	CaseStatusOpen   = "Open"
	CaseStatusOnHold = "On Hold"
	CaseStatusClosed = "Closed"
)

func ValidCaseStatus(status string) bool {
	switch status {
	case CaseStatusOpen, CaseStatusOnHold, CaseStatusClosed:
		return true
	}
	return false
}

type Case struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time  `json:"created_at"`
	ClientID           uint       `gorm:"not null;index" json:"client_id"`
	Client             *Client    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DebtorBusinessType string     `gorm:"size:50" json:"debtor_business_type"`
	DebtorBusinessName string     `gorm:"size:255" json:"debtor_business_name"`
	DebtorFirst        string     `gorm:"size:100" json:"debtor_first"`
	DebtorLast         string     `gorm:"size:100" json:"debtor_last"`
	Phone              string     `gorm:"size:50;index" json:"phone"`
	Email              string     `gorm:"size:255;index" json:"email"`
	AddressLine1       string     `gorm:"size:255" json:"address_line1"`
	AddressLine2       string     `gorm:"size:255" json:"address_line2"`
	Town               string     `gorm:"size:100" json:"town"`
	Postcode           string     `gorm:"size:20;index" json:"postcode"`
	Status             string     `gorm:"size:20;default:'Open'" json:"status"` // Open, On Hold, Closed
	Substatus          string     `gorm:"size:100" json:"substatus"`
	NextActionDate     *time.Time `gorm:"type:date" json:"next_action_date"`
	OpenDate           time.Time  `gorm:"type:date" json:"open_date"`
	InterestRate       *float64   `json:"interest_rate"` // overrides the client default when set
}

// TableName overrides the table name
func (Case) TableName() string {
	return "cases"
}

// DebtorName prefers the business name and falls back to the individual's name.
func (c Case) DebtorName() string {
	if name := strings.TrimSpace(c.DebtorBusinessName); name != "" {
		return name
	}
	return strings.TrimSpace(c.DebtorFirst + " " + c.DebtorLast)
}

func (c Case) EffectiveInterestRate(client Client) float64 {
	if c.InterestRate != nil {
		return *c.InterestRate
	}
	return client.DefaultInterestRate
}
