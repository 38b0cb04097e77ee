package models

import (
	"time"
)

type Note struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CaseID    uint      `gorm:"not null;index" json:"case_id"`
	Case      *Case     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	CreatedBy uint      `gorm:"not null" json:"created_by"`
	Creator   *User     `gorm:"foreignKey:CreatedBy" json:"-"`
	Note      string    `gorm:"type:text;not null" json:"note"`
}

// TableName overrides the table name
func (Note) TableName() string {
	return "notes"
}
