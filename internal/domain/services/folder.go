package services

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// FolderService handles folder tree business logic. Every operation takes the
// owner id explicitly; there is no ambient "current user".
type FolderService interface {
	// Create creates a new folder under parentID (nil = root)
	Create(ctx context.Context, ownerID string, req *CreateFolderRequest) (*models.Folder, error)

	// Get retrieves a folder
	Get(ctx context.Context, ownerID, folderID string) (*models.Folder, error)

	// ListChildren lists a folder's immediate subfolders and documents
	// (folderID nil = root level)
	ListChildren(ctx context.Context, ownerID string, folderID *string) (*FolderContents, error)

	// Rename changes a folder's name and rewrites every descendant's
	// materialized path. Renaming to the current name is a no-op success.
	Rename(ctx context.Context, ownerID, folderID, newName string, src RequestSource) (*models.Folder, error)

	// Move reparents a folder (newParentID nil = root) and rewrites every
	// descendant's materialized path. A folder can never become its own ancestor.
	Move(ctx context.Context, ownerID, folderID string, newParentID *string, src RequestSource) (*models.Folder, error)

	// Delete removes a folder. When the folder is non-empty and force is false
	// nothing is mutated and a confirmation payload is returned instead; with
	// force (or an empty folder) the whole subtree is deleted depth-first.
	Delete(ctx context.Context, ownerID, folderID string, force bool, src RequestSource) (*DeleteFolderResult, error)

	// MoveDocuments moves a batch of documents into targetFolderID (nil = root)
	// with per-document results; name collisions in the target fail only the
	// colliding document.
	MoveDocuments(ctx context.Context, ownerID string, documentIDs []string, targetFolderID *string, src RequestSource) (*MoveDocumentsResult, error)
}

// CreateFolderRequest represents a folder creation request
type CreateFolderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"` // null for root
}

// FolderContents represents a folder with its immediate children
type FolderContents struct {
	Folder    *models.Folder    `json:"folder,omitempty"` // null for root
	Folders   []models.Folder   `json:"folders"`
	Documents []models.Document `json:"documents"`
}

// SubfolderSummary is the one-level preview of a direct subfolder returned in
// a delete confirmation payload.
type SubfolderSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DocumentCount  int    `json:"document_count"`
	SubfolderCount int    `json:"subfolder_count"`
}

// DeleteFolderResult is either a completed deletion or a non-destructive
// confirmation preview of what a forced deletion would remove.
type DeleteFolderResult struct {
	Deleted              bool               `json:"deleted"`
	RequiresConfirmation bool               `json:"requires_confirmation"`
	DocumentCount        int                `json:"document_count"`
	SubfolderCount       int                `json:"subfolder_count"`
	Subfolders           []SubfolderSummary `json:"subfolders,omitempty"`
}

// DocumentMoveResult is the per-document outcome of a batch move.
type DocumentMoveResult struct {
	DocumentID string `json:"document_id"`
	Moved      bool   `json:"moved"`
	Error      string `json:"error,omitempty"`
}

// MoveDocumentsResult reports a batch move; partial success is expected.
type MoveDocumentsResult struct {
	Results []DocumentMoveResult `json:"results"`
	Moved   int                  `json:"moved"`
	Failed  int                  `json:"failed"`
}

// RequestSource carries the caller's network identity for audit events.
type RequestSource struct {
	IPAddress string
	UserAgent string
}
