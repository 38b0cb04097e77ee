package models

import (
	"strings"
	"time"
)

type Client struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	CreatedAt           time.Time `json:"created_at"`
	BusinessType        string    `gorm:"size:50;not null" json:"business_type"`
	BusinessName        string    `gorm:"size:255;not null;index" json:"business_name"`
	ContactFirst        string    `gorm:"size:100" json:"contact_first"`
	ContactLast         string    `gorm:"size:100" json:"contact_last"`
	Phone               string    `gorm:"size:50" json:"phone"`
	Email               string    `gorm:"size:255" json:"email"`
	BacsDetails         string    `gorm:"type:text" json:"bacs_details"`
	DefaultInterestRate float64   `gorm:"default:0" json:"default_interest_rate"`
}

// TableName overrides the table name
func (Client) TableName() string {
	return "clients"
}

func (c Client) ContactName() string {
	return strings.TrimSpace(c.ContactFirst + " " + c.ContactLast)
}
