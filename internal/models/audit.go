package models

import "time"

// AuditLog records mutating operations for auditing.
type AuditLog struct {
	ID        string    `gorm:"type:varchar(26);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(26);index" json:"user_id"`
	Method    string    `gorm:"size:16" json:"method"`
	Path      string    `gorm:"size:255" json:"path"`
	Action    string    `gorm:"size:2048" json:"action"` // method + path + request body excerpt
	IP        string    `gorm:"size:64" json:"ip"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
