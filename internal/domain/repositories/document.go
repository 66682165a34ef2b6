package repositories

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// DocumentRepository defines data access operations for document metadata rows.
// Queries are scoped by owner id, same as FolderRepository.
type DocumentRepository interface {
	// Create creates a new document row
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id, ownerID string) (*models.Document, error)

	// GetByNameInFolder finds a document by display name within a folder.
	// Returns (nil, nil) when absent.
	GetByNameInFolder(ctx context.Context, ownerID, fileName string, folderID *string) (*models.Document, error)

	// Update updates a document's mutable fields (name, folder, status, page count)
	Update(ctx context.Context, doc *models.Document) error

	// UpdateFolder moves a document to another folder (nil = root)
	UpdateFolder(ctx context.Context, id, ownerID string, folderID *string) error

	// UpdateStatus transitions a document's lifecycle status
	UpdateStatus(ctx context.Context, id, ownerID string, status models.DocumentStatus) error

	// Delete deletes a document row
	Delete(ctx context.Context, id, ownerID string) error

	// ListByFolder lists documents directly in a folder (nil = root level),
	// including the read-only chat activity count per document.
	ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.Document, error)

	// CountByFolder counts documents directly in a folder
	CountByFolder(ctx context.Context, folderID *string, ownerID string) (int, error)
}
