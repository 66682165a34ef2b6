// Package pathing materializes folder paths from the parent chain.
// Every folder row stores its full path; the invariant is
// path == parent.path + "/" + name, with root-level folders storing
// their bare name.
package pathing

import (
	"context"
	"fmt"
	"strings"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

// FolderLookup is the read access the materializer needs.
// FolderRepository satisfies it.
type FolderLookup interface {
	GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error)
}

// Materializer computes full folder paths by walking the parent chain.
type Materializer struct {
	folders FolderLookup
}

// NewMaterializer creates a path materializer
func NewMaterializer(folders FolderLookup) *Materializer {
	return &Materializer{folders: folders}
}

// ComputePath walks from the folder up to the root and joins the names
// root-first. A parent id that revisits an already-seen folder means the
// hierarchy is cyclic, which is reported as ErrCorruptHierarchy rather
// than looping forever.
func (m *Materializer) ComputePath(ctx context.Context, folderID, ownerID string) (string, error) {
	visited := make(map[string]bool)
	var names []string

	currentID := &folderID
	for currentID != nil {
		if visited[*currentID] {
			return "", fmt.Errorf("folder %s revisited in parent chain: %w", *currentID, domain.ErrCorruptHierarchy)
		}
		visited[*currentID] = true

		folder, err := m.folders.GetByID(ctx, *currentID, ownerID)
		if err != nil {
			return "", err
		}

		names = append(names, folder.Name)
		currentID = folder.ParentID
	}

	// names were collected leaf-first
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		if b.Len() > 0 {
			b.WriteString("/")
		}
		b.WriteString(names[i])
	}

	return b.String(), nil
}

// ChildPath returns the path of a child named name under parentPath.
// An empty parentPath means the root level, where the path is the
// name alone.
func ChildPath(parentPath, name string) string {
	if parentPath == "" {
		return name
	}
	return parentPath + "/" + name
}

// ReplacePathPrefix rewrites an exact path prefix. It only matches whole
// path segments: oldPrefix "/a/b" matches "/a/b" and "/a/b/c" but never
// "/a/bc". Paths outside the prefix are returned unchanged.
func ReplacePathPrefix(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	if strings.HasPrefix(path, oldPrefix+"/") {
		return newPrefix + path[len(oldPrefix):]
	}
	return path
}
