package services

import (
	"context"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// ObjectStore is the primary byte-storage tier (S3-compatible).
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// StorageResolver maps stored-file references to bytes across a tiered set of
// locations, and chooses a tier for newly uploaded bytes.
type StorageResolver interface {
	// Store writes the bytes to the best available tier. A total storage
	// failure degrades to a TierNone reference with a nil error: metadata
	// durability is treated as more important than byte durability.
	Store(ctx context.Context, data []byte, suggestedName, ownerID, category string) (models.StorageReference, error)

	// Retrieve tries tiers in priority order: object-store key, filesystem
	// path, then legacy filesystem locations derived from the owner id and the
	// document's current/original file names. Each attempt is independent;
	// only full exhaustion yields ErrStorageUnavailable.
	Retrieve(ctx context.Context, ref models.StorageReference, ownerID, fileName, originalFileName string) ([]byte, error)

	// Remove best-effort deletes stored bytes. Failures are the caller's to log.
	Remove(ctx context.Context, ref models.StorageReference) error
}
