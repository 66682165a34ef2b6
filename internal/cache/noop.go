package cache

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
)

// noopCache satisfies repositories.DocumentCache when Redis is not
// configured. Every read is a miss, every write succeeds.
type noopCache struct{}

// NewNoopCache returns a cache that stores nothing. Used in deployments
// without Redis so services never have to nil-check their cache.
func NewNoopCache() repositories.DocumentCache {
	return noopCache{}
}

func (noopCache) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	return nil, nil
}

func (noopCache) SetDocument(ctx context.Context, doc *models.Document) error { return nil }

func (noopCache) DeleteDocument(ctx context.Context, id string) error { return nil }
