package models

import (
	"time"
)

// SecurityAction is the kind of audited operation.
type SecurityAction string

const (
	ActionUpload SecurityAction = "UPLOAD"
	ActionRename SecurityAction = "RENAME"
	ActionMove   SecurityAction = "MOVE"
	ActionDelete SecurityAction = "DELETE"
)

// SecurityEvent is one audit log entry. Every upload, rename, move and delete
// emits exactly one event; writing it is best-effort and never fails the
// primary operation.
type SecurityEvent struct {
	ID        string         `json:"id" db:"id"`
	UserID    string         `json:"user_id" db:"user_id"`
	Action    SecurityAction `json:"action" db:"action"`
	Detail    string         `json:"detail" db:"detail"`
	IPAddress string         `json:"ip_address" db:"ip_address"`
	UserAgent string         `json:"user_agent" db:"user_agent"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
