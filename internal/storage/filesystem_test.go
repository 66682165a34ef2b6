package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
)

func TestFilesystemSaveAndRead(t *testing.T) {
	root := t.TempDir()
	store := NewFilesystemStore(root, nil)

	path, err := store.Save("u1", "documents", "brief.pdf", []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "users", "u1", "documents", "brief.pdf"), path)

	data, err := store.Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("content"), data)
}

func TestFilesystemSaveConfinesTraversalNames(t *testing.T) {
	root := t.TempDir()
	store := NewFilesystemStore(root, nil)

	outside := filepath.Join(filepath.Dir(root), "escaped.txt")
	name := strings.Repeat("../", 8) + filepath.Base(outside)

	path, err := store.Save("u1", "documents", name, []byte("x"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(root, "users", "u1", "documents", "escaped.txt"), path)
	_, statErr := os.Stat(outside)
	assert.True(t, os.IsNotExist(statErr), "no file may appear outside the store root")
}

func TestFilesystemSaveRejectsReservedNames(t *testing.T) {
	store := NewFilesystemStore(t.TempDir(), nil)

	for _, name := range []string{".", "..", "a/.."} {
		_, err := store.Save("u1", "documents", name, []byte("x"))
		assert.ErrorIs(t, err, domain.ErrValidation, "name %q", name)
	}
}

func TestFilesystemReadMissing(t *testing.T) {
	store := NewFilesystemStore(t.TempDir(), nil)

	_, err := store.Read(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
