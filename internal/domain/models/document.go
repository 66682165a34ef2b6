package models

import (
	"time"
)

// DocumentStatus is the lifecycle state of an uploaded document.
type DocumentStatus string

const (
	// StatusTemporary: ingested and usable for session-scoped actions, but the
	// bytes are not guaranteed durable (no storage tier accepted the file).
	StatusTemporary DocumentStatus = "TEMPORARY"
	// StatusUploaded: durably stored, not yet content-processed.
	StatusUploaded DocumentStatus = "UPLOADED"
	// StatusProcessing: handed to the external intelligence collaborator.
	StatusProcessing DocumentStatus = "PROCESSING"
	// StatusIndexed: fully processed and durably stored.
	StatusIndexed DocumentStatus = "INDEXED"
	// StatusFailed: processing or storage permanently failed.
	StatusFailed DocumentStatus = "FAILED"
)

// Valid reports whether s is a known status value.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusTemporary, StatusUploaded, StatusProcessing, StatusIndexed, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine allows moving from s to next.
// FAILED documents may be retried (back to PROCESSING); INDEXED is terminal.
func (s DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	switch s {
	case StatusTemporary:
		return next == StatusUploaded || next == StatusProcessing || next == StatusFailed
	case StatusUploaded:
		return next == StatusProcessing || next == StatusFailed
	case StatusProcessing:
		return next == StatusIndexed || next == StatusFailed
	case StatusFailed:
		return next == StatusProcessing
	}
	return false
}

type Document struct {
	ID       string  `json:"id" db:"id"`
	OwnerID  string  `json:"owner_id" db:"owner_id"`
	FolderID *string `json:"folder_id" db:"folder_id"` // NULL = root level
	// FileName is the single mutable display name. OriginalFileName is the name
	// at first upload and is immutable provenance; chat history and prior-session
	// references key off the document id, never off either name.
	FileName         string           `json:"file_name" db:"file_name"`
	OriginalFileName string           `json:"original_file_name" db:"original_file_name"`
	StorageRef       StorageReference `json:"storage_ref"`
	SizeBytes        int64            `json:"size_bytes" db:"size_bytes"`
	MimeType         string           `json:"mime_type" db:"mime_type"`
	PageCount        *int             `json:"page_count,omitempty" db:"page_count"`
	Status           DocumentStatus   `json:"status" db:"status"`
	UploadedAt       time.Time        `json:"uploaded_at" db:"uploaded_at"`
	UpdatedAt        time.Time        `json:"updated_at" db:"updated_at"`
	// ChatMessageCount is aggregated read-only from the chat collaborator's
	// table on list reads; it is never written by this subsystem.
	ChatMessageCount int64 `json:"chat_message_count" db:"chat_message_count"`
}
