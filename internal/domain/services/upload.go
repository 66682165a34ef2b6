package services

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// UploadService is the end-to-end upload pipeline: MIME validation, optional
// intelligent naming, tiered byte storage, metadata persistence and the audit
// side effect.
type UploadService interface {
	Upload(ctx context.Context, ownerID string, req *UploadRequest) (*models.Document, error)
}

// UploadRequest carries one inbound file.
type UploadRequest struct {
	FileName string // original client-side file name
	MimeType string
	Data     []byte
	FolderID *string // nil = root

	// IntelligentNaming asks the external naming collaborator for a display
	// name; its unavailability falls back to a derived name.
	IntelligentNaming bool
	// OwnerToken is forwarded to the naming collaborator when set.
	OwnerToken string

	Source RequestSource
}
