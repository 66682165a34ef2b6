package pathing

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
)

type fakeLookup struct {
	folders map[string]*models.Folder
}

func (f *fakeLookup) GetByID(_ context.Context, id, ownerID string) (*models.Folder, error) {
	folder, ok := f.folders[id]
	if !ok || folder.OwnerID != ownerID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	return folder, nil
}

func strPtr(s string) *string { return &s }

func TestComputePath(t *testing.T) {
	lookup := &fakeLookup{folders: map[string]*models.Folder{
		"root":  {ID: "root", OwnerID: "u1", Name: "Contracts"},
		"mid":   {ID: "mid", OwnerID: "u1", ParentID: strPtr("root"), Name: "2024"},
		"leaf":  {ID: "leaf", OwnerID: "u1", ParentID: strPtr("mid"), Name: "Q3"},
		"loopA": {ID: "loopA", OwnerID: "u1", ParentID: strPtr("loopB"), Name: "a"},
		"loopB": {ID: "loopB", OwnerID: "u1", ParentID: strPtr("loopA"), Name: "b"},
		"self":  {ID: "self", OwnerID: "u1", ParentID: strPtr("self"), Name: "s"},
	}}

	tests := []struct {
		name     string
		folderID string
		ownerID  string
		want     string
		wantErr  error
	}{
		{
			name:     "root-level folder",
			folderID: "root",
			ownerID:  "u1",
			want:     "Contracts",
		},
		{
			name:     "nested folder joins root-first",
			folderID: "leaf",
			ownerID:  "u1",
			want:     "Contracts/2024/Q3",
		},
		{
			name:     "cycle between two folders",
			folderID: "loopA",
			ownerID:  "u1",
			wantErr:  domain.ErrCorruptHierarchy,
		},
		{
			name:     "folder that is its own parent",
			folderID: "self",
			ownerID:  "u1",
			wantErr:  domain.ErrCorruptHierarchy,
		},
		{
			name:     "wrong owner",
			folderID: "root",
			ownerID:  "u2",
			wantErr:  domain.ErrNotFound,
		},
	}

	m := NewMaterializer(lookup)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.ComputePath(context.Background(), tt.folderID, tt.ownerID)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ComputePath() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComputePath() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ComputePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplacePathPrefix(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		oldPrefix string
		newPrefix string
		want      string
	}{
		{
			name:      "exact match is replaced",
			path:      "a/b",
			oldPrefix: "a/b",
			newPrefix: "x",
			want:      "x",
		},
		{
			name:      "descendant path is rewritten",
			path:      "a/b/c/d",
			oldPrefix: "a/b",
			newPrefix: "x/y",
			want:      "x/y/c/d",
		},
		{
			name:      "sibling with shared prefix is untouched",
			path:      "a/bc",
			oldPrefix: "a/b",
			newPrefix: "x",
			want:      "a/bc",
		},
		{
			name:      "unrelated path is untouched",
			path:      "other",
			oldPrefix: "a",
			newPrefix: "x",
			want:      "other",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReplacePathPrefix(tt.path, tt.oldPrefix, tt.newPrefix); got != tt.want {
				t.Errorf("ReplacePathPrefix(%q, %q, %q) = %q, want %q",
					tt.path, tt.oldPrefix, tt.newPrefix, got, tt.want)
			}
		})
	}
}

func TestChildPath(t *testing.T) {
	if got := ChildPath("", "Contracts"); got != "Contracts" {
		t.Errorf("ChildPath root = %q, want Contracts", got)
	}
	if got := ChildPath("Contracts", "2024"); got != "Contracts/2024" {
		t.Errorf("ChildPath nested = %q, want Contracts/2024", got)
	}
}
