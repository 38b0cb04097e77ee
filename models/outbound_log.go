package models

import (
	"time"
)

const (
	ChannelSMS   = "sms"
	ChannelEmail = "email"
	ChannelCall  = "call"

	OutboundQueued = "queued"
)

// OutboundLog records a requested message. It is not a delivery receipt.
type OutboundLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	ClientID  uint      `gorm:"not null;index" json:"client_id"`
	Client    *Client   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Channel   string    `gorm:"size:10;not null" json:"channel"` // sms, email, call
	Recipient string    `gorm:"size:255;not null" json:"recipient"`
	Message   string    `gorm:"type:text" json:"message"`
	Reference string    `gorm:"size:64" json:"reference,omitempty"`
	Status    string    `gorm:"size:20;default:'queued'" json:"status"`
}

// TableName overrides the table name
func (OutboundLog) TableName() string {
	return "outbound_logs"
}
