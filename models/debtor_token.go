package models

import (
	"time"
)

// DebtorToken grants anonymous read access to one case's balance until ExpiresAt.
type DebtorToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CaseID    uint      `gorm:"not null;index" json:"case_id"`
	Case      *Case     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName overrides the table name
func (DebtorToken) TableName() string {
	return "debtor_tokens"
}

func (t DebtorToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
