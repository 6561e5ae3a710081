package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditEvent is an append-only trace of a security-relevant action.
type AuditEvent struct {
	ID        string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Actor     string         `gorm:"not null" json:"actor"` // email or "system"
	Action    string         `gorm:"not null" json:"action"`
	Details   datatypes.JSON `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
