// Package cache provides a Redis-backed read-through cache for document
// metadata. All operations are best-effort; callers fall back to the
// database when the cache misses or errors.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
)

// DocumentCache caches document records under "document:{id}" keys.
type DocumentCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDocumentCache creates a document cache with the given TTL
func NewDocumentCache(client *redis.Client, ttl time.Duration) repositories.DocumentCache {
	return &DocumentCache{client: client, ttl: ttl}
}

// GetDocument returns the cached document, or (nil, nil) on a miss
func (c *DocumentCache) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	val, err := c.client.Get(ctx, c.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("cache get document: %w", err)
	}

	var doc models.Document
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return nil, fmt.Errorf("cache decode document: %w", err)
	}

	return &doc, nil
}

// SetDocument stores a document record
func (c *DocumentCache) SetDocument(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("cache encode document: %w", err)
	}

	if err := c.client.Set(ctx, c.key(doc.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set document: %w", err)
	}

	return nil
}

// DeleteDocument invalidates a cached document
func (c *DocumentCache) DeleteDocument(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete document: %w", err)
	}
	return nil
}

func (c *DocumentCache) key(id string) string {
	return fmt.Sprintf("document:%s", id)
}
