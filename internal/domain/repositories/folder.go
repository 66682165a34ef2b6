package repositories

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// FolderRepository defines data access operations for folders.
// Every query is scoped by owner id; a row belonging to another owner is
// indistinguishable from an absent row.
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)

	// GetByNameAndParent finds a sibling by name. Returns (nil, nil) when absent.
	GetByNameAndParent(ctx context.Context, ownerID, name string, parentID *string) (*models.Folder, error)

	// Update updates a folder's name, parent and path
	Update(ctx context.Context, folder *models.Folder) error

	// UpdatePath rewrites only the materialized path of a folder
	UpdatePath(ctx context.Context, id, ownerID, path string) error

	// Delete deletes a folder row
	Delete(ctx context.Context, id, ownerID string) error

	// ListChildren lists immediate child folders (parentID nil = root level)
	ListChildren(ctx context.Context, parentID *string, ownerID string) ([]models.Folder, error)

	// CountChildren counts immediate child folders
	CountChildren(ctx context.Context, parentID *string, ownerID string) (int, error)
}
