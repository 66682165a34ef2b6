package storage

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
)

const defaultTierTimeout = 10 * time.Second

// Resolver arbitrates between the object store and the filesystem tiers.
// The object store may be nil (not configured); the filesystem tier is
// always present.
type Resolver struct {
	objects     services.ObjectStore
	files       *FilesystemStore
	tierTimeout time.Duration
	logger      *slog.Logger
}

// NewResolver creates a storage resolver
func NewResolver(objects services.ObjectStore, files *FilesystemStore, tierTimeout time.Duration, logger *slog.Logger) services.StorageResolver {
	if tierTimeout <= 0 {
		tierTimeout = defaultTierTimeout
	}
	return &Resolver{
		objects:     objects,
		files:       files,
		tierTimeout: tierTimeout,
		logger:      logger,
	}
}

// objectKey builds a collision-free object key. The timestamp and uuid keep
// re-uploads of the same file name from overwriting each other; the name is
// reduced to its base component so it cannot add key segments.
func objectKey(ownerID, category, name string) string {
	return fmt.Sprintf("users/%s/%s/%d-%s-%s", ownerID, category, time.Now().Unix(), uuid.NewString(), path.Base(name))
}

// Store writes bytes to the best available tier. Both tiers failing is not
// an error: the caller keeps the metadata and the reference degrades to
// TierNone.
func (r *Resolver) Store(ctx context.Context, data []byte, suggestedName, ownerID, category string) (models.StorageReference, error) {
	if r.objects != nil {
		key := objectKey(ownerID, category, suggestedName)

		putCtx, cancel := context.WithTimeout(ctx, r.tierTimeout)
		err := r.objects.Put(putCtx, key, data)
		cancel()

		if err == nil {
			return models.StorageReference{Tier: models.TierObjectStore, Key: key}, nil
		}
		r.logger.Warn("object store tier unavailable, falling back to filesystem",
			"error", err, "owner_id", ownerID)
	}

	path, err := r.files.Save(ownerID, category, suggestedName, data)
	if err == nil {
		return models.StorageReference{Tier: models.TierFilesystem, Path: path}, nil
	}
	r.logger.Warn("filesystem tier unavailable, storing metadata only",
		"error", err, "owner_id", ownerID)

	return models.StorageReference{Tier: models.TierNone}, nil
}

// Retrieve resolves stored bytes, trying each location independently.
func (r *Resolver) Retrieve(ctx context.Context, ref models.StorageReference, ownerID, fileName, originalFileName string) ([]byte, error) {
	if r.objects != nil && ref.Key != "" {
		getCtx, cancel := context.WithTimeout(ctx, r.tierTimeout)
		data, err := r.objects.Get(getCtx, ref.Key)
		cancel()

		if err == nil {
			return data, nil
		}
		r.logger.Warn("object store retrieval failed, trying next tier",
			"error", err, "key", ref.Key)
	}

	if ref.Path != "" && !isExternalURL(ref.Path) {
		data, err := r.files.Read(ref.Path)
		if err == nil {
			return data, nil
		}
		r.logger.Warn("filesystem retrieval failed, trying legacy locations",
			"error", err, "path", ref.Path)
	}

	for _, candidate := range r.files.LegacyCandidates(ownerID, fileName, originalFileName) {
		data, err := r.files.Read(candidate)
		if err == nil {
			return data, nil
		}
	}

	return nil, fmt.Errorf("all storage tiers exhausted: %w", domain.ErrStorageUnavailable)
}

// Remove best-effort deletes the stored bytes for a reference
func (r *Resolver) Remove(ctx context.Context, ref models.StorageReference) error {
	switch {
	case ref.Tier == models.TierObjectStore && r.objects != nil && ref.Key != "":
		delCtx, cancel := context.WithTimeout(ctx, r.tierTimeout)
		defer cancel()
		return r.objects.Delete(delCtx, ref.Key)
	case ref.Tier == models.TierFilesystem && ref.Path != "" && !isExternalURL(ref.Path):
		return r.files.Delete(ref.Path)
	}
	return nil
}

// isExternalURL reports whether a stored path points outside local storage.
// Older records sometimes carried a remote URL in the path column.
func isExternalURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}
