package models

import (
	"time"
)

// APIKey is a long-lived credential scoped to one client. Only the sha256 of
// the key is stored.
type APIKey struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ClientID  uint      `gorm:"not null;index" json:"client_id"`
	Client    *Client   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	KeyHash   string    `gorm:"uniqueIndex;size:64;not null" json:"-"`
	KeyPrefix string    `gorm:"size:12" json:"key_prefix"`
	Name      string    `gorm:"size:100" json:"name"`
	Active    bool      `gorm:"default:true" json:"active"`
}

// TableName overrides the table name
func (APIKey) TableName() string {
	return "api_keys"
}
