package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

type fakeObjectStore struct {
	objects map[string][]byte
	failPut bool
	failGet bool
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string][]byte)}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, data []byte) error {
	if f.failPut {
		return errors.New("connection refused")
	}
	f.objects[key] = data
	return nil
}

func (f *fakeObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errors.New("connection refused")
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestResolverStorePrefersObjectStore(t *testing.T) {
	objects := newFakeObjectStore()
	files := NewFilesystemStore(t.TempDir(), nil)
	r := NewResolver(objects, files, 0, testLogger())

	ref, err := r.Store(context.Background(), []byte("content"), "brief.pdf", "u1", "documents")
	require.NoError(t, err)

	assert.Equal(t, models.TierObjectStore, ref.Tier)
	assert.Contains(t, ref.Key, "users/u1/documents/")
	assert.Contains(t, ref.Key, "brief.pdf")
	assert.Empty(t, ref.Path)
}

func TestResolverStoreKeyConfinesName(t *testing.T) {
	objects := newFakeObjectStore()
	files := NewFilesystemStore(t.TempDir(), nil)
	r := NewResolver(objects, files, 0, testLogger())

	ref, err := r.Store(context.Background(), []byte("x"), "../../other/brief.pdf", "u1", "documents")
	require.NoError(t, err)

	// The name contributes only its last segment to the key.
	assert.Contains(t, ref.Key, "users/u1/documents/")
	assert.NotContains(t, ref.Key, "..")
	rest := strings.TrimPrefix(ref.Key, "users/u1/documents/")
	assert.NotContains(t, rest, "/")
}

func TestResolverStoreFallsBackToFilesystem(t *testing.T) {
	objects := newFakeObjectStore()
	objects.failPut = true
	files := NewFilesystemStore(t.TempDir(), nil)
	r := NewResolver(objects, files, 0, testLogger())

	ref, err := r.Store(context.Background(), []byte("content"), "brief.pdf", "u1", "documents")
	require.NoError(t, err)

	assert.Equal(t, models.TierFilesystem, ref.Tier)
	data, err := os.ReadFile(ref.Path)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
}

func TestResolverStoreDegradesToNone(t *testing.T) {
	objects := newFakeObjectStore()
	objects.failPut = true

	// A regular file as the storage root makes MkdirAll fail.
	root := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(root, []byte(""), 0o644))
	files := NewFilesystemStore(root, nil)

	r := NewResolver(objects, files, 0, testLogger())

	ref, err := r.Store(context.Background(), []byte("content"), "brief.pdf", "u1", "documents")
	require.NoError(t, err, "total storage failure must not fail the operation")
	assert.Equal(t, models.TierNone, ref.Tier)
	assert.False(t, ref.Durable())
}

func TestResolverRetrieveTierOrder(t *testing.T) {
	objects := newFakeObjectStore()
	objects.objects["users/u1/documents/k1"] = []byte("from-s3")

	dir := t.TempDir()
	localPath := filepath.Join(dir, "brief.pdf")
	require.NoError(t, os.WriteFile(localPath, []byte("from-disk"), 0o644))

	files := NewFilesystemStore(dir, nil)
	r := NewResolver(objects, files, 0, testLogger())

	// Object key wins when present.
	data, err := r.Retrieve(context.Background(), models.StorageReference{
		Tier: models.TierObjectStore,
		Key:  "users/u1/documents/k1",
		Path: localPath,
	}, "u1", "brief.pdf", "brief.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("from-s3"), data)

	// Falls through to the filesystem path when the object store errors.
	objects.failGet = true
	data, err = r.Retrieve(context.Background(), models.StorageReference{
		Tier: models.TierObjectStore,
		Key:  "users/u1/documents/k1",
		Path: localPath,
	}, "u1", "brief.pdf", "brief.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("from-disk"), data)
}

func TestResolverRetrieveLegacyLocations(t *testing.T) {
	legacyDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(legacyDir, "u1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(legacyDir, "u1", "scan.pdf"), []byte("legacy"), 0o644))

	files := NewFilesystemStore(t.TempDir(), []string{legacyDir})
	r := NewResolver(nil, files, 0, testLogger())

	// Reference carries no usable key or path; only the legacy probe hits.
	data, err := r.Retrieve(context.Background(), models.StorageReference{Tier: models.TierNone},
		"u1", "renamed.pdf", "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("legacy"), data)
}

func TestResolverRetrieveSkipsExternalURL(t *testing.T) {
	files := NewFilesystemStore(t.TempDir(), nil)
	r := NewResolver(nil, files, 0, testLogger())

	_, err := r.Retrieve(context.Background(), models.StorageReference{
		Tier: models.TierFilesystem,
		Path: "https://example.com/files/brief.pdf",
	}, "u1", "brief.pdf", "brief.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestResolverRetrieveExhaustion(t *testing.T) {
	objects := newFakeObjectStore()
	files := NewFilesystemStore(t.TempDir(), []string{t.TempDir()})
	r := NewResolver(objects, files, 0, testLogger())

	_, err := r.Retrieve(context.Background(), models.StorageReference{
		Tier: models.TierObjectStore,
		Key:  "users/u1/documents/missing",
	}, "u1", "a.pdf", "b.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestResolverRemove(t *testing.T) {
	objects := newFakeObjectStore()
	objects.objects["k"] = []byte("x")

	dir := t.TempDir()
	path := filepath.Join(dir, "f.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	files := NewFilesystemStore(dir, nil)

	r := NewResolver(objects, files, 0, testLogger())

	require.NoError(t, r.Remove(context.Background(), models.StorageReference{
		Tier: models.TierObjectStore, Key: "k",
	}))
	assert.Empty(t, objects.objects)

	require.NoError(t, r.Remove(context.Background(), models.StorageReference{
		Tier: models.TierFilesystem, Path: path,
	}))
	assert.NoFileExists(t, path)

	// Removing an already-gone file stays quiet.
	require.NoError(t, r.Remove(context.Background(), models.StorageReference{
		Tier: models.TierFilesystem, Path: path,
	}))
}
