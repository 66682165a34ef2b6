package repositories

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// DocumentCache is a read-through metadata cache in front of the document
// store. Cache failures are best-effort: callers log them and fall back to
// the repository.
type DocumentCache interface {
	// GetDocument returns the cached document or (nil, nil) on a miss
	GetDocument(ctx context.Context, id string) (*models.Document, error)

	// SetDocument caches a document's metadata
	SetDocument(ctx context.Context, doc *models.Document) error

	// DeleteDocument invalidates a cached document
	DeleteDocument(ctx context.Context, id string) error
}
