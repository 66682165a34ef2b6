package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
)

// FilesystemStore is the local-disk fallback tier. Files live under
// root/users/<owner>/<category>/. Legacy directories from earlier
// deployments are probed read-only during retrieval.
type FilesystemStore struct {
	root       string
	legacyDirs []string
}

// NewFilesystemStore creates a filesystem tier rooted at root
func NewFilesystemStore(root string, legacyDirs []string) *FilesystemStore {
	return &FilesystemStore{root: root, legacyDirs: legacyDirs}
}

// Save writes data under root/users/<owner>/<category>/<name> and returns
// the absolute path. The name is reduced to its base component so a
// caller-supplied name can never address a file outside the store root.
func (f *FilesystemStore) Save(ownerID, category, name string, data []byte) (string, error) {
	name = filepath.Base(name)
	if name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: invalid file name", domain.ErrValidation)
	}

	dir := filepath.Join(f.root, "users", ownerID, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return path, nil
}

// Read returns the bytes at path. A missing file maps to domain.ErrNotFound.
func (f *FilesystemStore) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("file %s: %w", path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	return data, nil
}

// Delete removes the file at path. A missing file is not an error.
func (f *FilesystemStore) Delete(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file %s: %w", path, err)
	}
	return nil
}

// LegacyCandidates returns the deterministic locations older deployments
// may have stored a file at, in probe order.
func (f *FilesystemStore) LegacyCandidates(ownerID string, names ...string) []string {
	var candidates []string
	for _, dir := range f.legacyDirs {
		for _, name := range names {
			if name == "" {
				continue
			}
			candidates = append(candidates,
				filepath.Join(dir, ownerID, name),
				filepath.Join(dir, name),
			)
		}
	}
	return candidates
}
