package models

import "time"

// AuditLog records one mutating request forwarded by the gateway.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RequestID string `gorm:"size:36;index" json:"request_id"`
	UserID    string `gorm:"size:64;index" json:"user_id"`
	Role      string `gorm:"size:20" json:"role"`
	Action    string `gorm:"size:50;not null" json:"action"`

	Method   string `gorm:"size:10;not null" json:"method"`
	Path     string `gorm:"size:255;not null" json:"path"`
	Status   int    `json:"status"`
	Metadata string `gorm:"type:text" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
