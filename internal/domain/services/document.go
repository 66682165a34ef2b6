package services

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// DocumentService handles document metadata business logic.
type DocumentService interface {
	// Get retrieves a document
	Get(ctx context.Context, ownerID, documentID string) (*models.Document, error)

	// List lists documents directly in a folder (nil = root level)
	List(ctx context.Context, ownerID string, folderID *string) ([]models.Document, error)

	// Rename changes the document's display name (file_name). The original
	// file name is immutable provenance and is never touched. Renaming to the
	// current name is a no-op success.
	Rename(ctx context.Context, ownerID, documentID, newName string, src RequestSource) (*models.Document, error)

	// Move moves a document to another folder (nil = root)
	Move(ctx context.Context, ownerID, documentID string, folderID *string, src RequestSource) (*models.Document, error)

	// UpdateStatus applies a lifecycle transition reported by the external
	// content-processing collaborator.
	UpdateStatus(ctx context.Context, ownerID, documentID string, status models.DocumentStatus) (*models.Document, error)

	// Delete removes the metadata row (the operation's success criterion) and
	// best-effort removes the stored bytes.
	Delete(ctx context.Context, ownerID, documentID string, src RequestSource) error

	// Content resolves and returns the document's bytes across storage tiers.
	Content(ctx context.Context, ownerID, documentID string) ([]byte, *models.Document, error)
}
