package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
)

func TestCreateFolder(t *testing.T) {
	svc := &stubFolderService{
		create: func(ctx context.Context, ownerID string, req *services.CreateFolderRequest) (*models.Folder, error) {
			assert.Equal(t, testUserID, ownerID)
			assert.Equal(t, "Contracts", req.Name)
			return &models.Folder{ID: "f1", OwnerID: ownerID, Name: req.Name, Path: "Contracts"}, nil
		},
	}
	h := NewFolderHandler(svc, testLogger())

	r := authed(httptest.NewRequest(http.MethodPost, "/api/folders",
		strings.NewReader(`{"name":"Contracts"}`)))
	rec := serve("POST /api/folders", h.CreateFolder, r)

	require.Equal(t, http.StatusCreated, rec.Code)

	var folder models.Folder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &folder))
	assert.Equal(t, "f1", folder.ID)
	assert.Equal(t, "Contracts", folder.Path)
}

func TestCreateFolderConflict(t *testing.T) {
	svc := &stubFolderService{
		create: func(ctx context.Context, ownerID string, req *services.CreateFolderRequest) (*models.Folder, error) {
			return nil, &domain.ConflictError{ResourceType: "folder", ResourceID: "f-existing"}
		},
	}
	h := NewFolderHandler(svc, testLogger())

	r := authed(httptest.NewRequest(http.MethodPost, "/api/folders",
		strings.NewReader(`{"name":"Contracts"}`)))
	rec := serve("POST /api/folders", h.CreateFolder, r)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "folder", problem["resource_type"])
	assert.Equal(t, "f-existing", problem["resource_id"])
}

func TestCreateFolderInvalidBody(t *testing.T) {
	h := NewFolderHandler(&stubFolderService{}, testLogger())

	r := authed(httptest.NewRequest(http.MethodPost, "/api/folders", strings.NewReader("{not json")))
	rec := serve("POST /api/folders", h.CreateFolder, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListRoot(t *testing.T) {
	svc := &stubFolderService{
		listChildren: func(ctx context.Context, ownerID string, folderID *string) (*services.FolderContents, error) {
			assert.Nil(t, folderID)
			return &services.FolderContents{
				Folders:   []models.Folder{{ID: "f1", Name: "Contracts", Path: "Contracts"}},
				Documents: []models.Document{{ID: "d1", FileName: "notes.txt"}},
			}, nil
		},
	}
	h := NewFolderHandler(svc, testLogger())

	r := authed(httptest.NewRequest(http.MethodGet, "/api/folders", nil))
	rec := serve("GET /api/folders", h.ListRoot, r)

	require.Equal(t, http.StatusOK, rec.Code)

	var contents services.FolderContents
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contents))
	assert.Nil(t, contents.Folder)
	assert.Len(t, contents.Folders, 1)
	assert.Len(t, contents.Documents, 1)
}

func TestGetFolder(t *testing.T) {
	svc := &stubFolderService{
		listChildren: func(ctx context.Context, ownerID string, folderID *string) (*services.FolderContents, error) {
			require.NotNil(t, folderID)
			assert.Equal(t, "f1", *folderID)
			return &services.FolderContents{
				Folder: &models.Folder{ID: "f1", Name: "Contracts", Path: "Contracts"},
			}, nil
		},
	}
	h := NewFolderHandler(svc, testLogger())

	r := authed(httptest.NewRequest(http.MethodGet, "/api/folders/f1", nil))
	rec := serve("GET /api/folders/{id}", h.GetFolder, r)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGetFolderNotFound(t *testing.T) {
	svc := &stubFolderService{
		listChildren: func(ctx context.Context, ownerID string, folderID *string) (*services.FolderContents, error) {
			return nil, fmt.Errorf("folder %s: %w", *folderID, domain.ErrNotFound)
		},
	}
	h := NewFolderHandler(svc, testLogger())

	r := authed(httptest.NewRequest(http.MethodGet, "/api/folders/missing", nil))
	rec := serve("GET /api/folders/{id}", h.GetFolder, r)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateFolderRename(t *testing.T) {
	renamed := false
	svc := &stubFolderService{
		get: func(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
			return &models.Folder{ID: folderID, Name: "Old", Path: "Old"}, nil
		},
		rename: func(ctx context.Context, ownerID, folderID, newName string, src services.RequestSource) (*models.Folder, error) {
			renamed = true
			assert.Equal(t, "New", newName)
			return &models.Folder{ID: folderID, Name: newName, Path: "New"}, nil
		},
	}
	h := NewFolderHandler(svc, testLogger())

	r := authed(httptest.NewRequest(http.MethodPatch, "/api/folders/f1",
		strings.NewReader(`{"name":"New"}`)))
	rec := serve("PATCH /api/folders/{id}", h.UpdateFolder, r)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, renamed)
}

func TestUpdateFolderMoveToRoot(t *testing.T) {
	// An explicit null parent_id moves the folder to the root level.
	svc := &stubFolderService{
		get: func(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
			return &models.Folder{ID: folderID, Name: "Q3", Path: "Contracts/Q3"}, nil
		},
		move: func(ctx context.Context, ownerID, folderID string, newParentID *string, src services.RequestSource) (*models.Folder, error) {
			assert.Nil(t, newParentID)
			return &models.Folder{ID: folderID, Name: "Q3", Path: "Q3"}, nil
		},
	}
	h := NewFolderHandler(svc, testLogger())

	r := authed(httptest.NewRequest(http.MethodPatch, "/api/folders/f1",
		strings.NewReader(`{"parent_id":null}`)))
	rec := serve("PATCH /api/folders/{id}", h.UpdateFolder, r)

	require.Equal(t, http.StatusOK, rec.Code)

	var folder models.Folder
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &folder))
	assert.Equal(t, "Q3", folder.Path)
}

func TestUpdateFolderRequiresAField(t *testing.T) {
	h := NewFolderHandler(&stubFolderService{}, testLogger())

	r := authed(httptest.NewRequest(http.MethodPatch, "/api/folders/f1",
		strings.NewReader(`{}`)))
	rec := serve("PATCH /api/folders/{id}", h.UpdateFolder, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteFolderConfirmation(t *testing.T) {
	svc := &stubFolderService{
		delete: func(ctx context.Context, ownerID, folderID string, force bool, src services.RequestSource) (*services.DeleteFolderResult, error) {
			assert.False(t, force)
			return &services.DeleteFolderResult{
				RequiresConfirmation: true,
				DocumentCount:        3,
				SubfolderCount:       1,
				Subfolders:           []services.SubfolderSummary{{ID: "c1", Name: "Drafts", DocumentCount: 2}},
			}, nil
		},
	}
	h := NewFolderHandler(svc, testLogger())

	r := authed(httptest.NewRequest(http.MethodDelete, "/api/folders/f1", nil))
	rec := serve("DELETE /api/folders/{id}", h.DeleteFolder, r)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.DeleteFolderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Deleted)
	assert.True(t, result.RequiresConfirmation)
	assert.Equal(t, 3, result.DocumentCount)
}

func TestDeleteFolderForced(t *testing.T) {
	svc := &stubFolderService{
		delete: func(ctx context.Context, ownerID, folderID string, force bool, src services.RequestSource) (*services.DeleteFolderResult, error) {
			assert.True(t, force)
			assert.Equal(t, "10.0.0.1", src.IPAddress)
			return &services.DeleteFolderResult{Deleted: true, DocumentCount: 3, SubfolderCount: 1}, nil
		},
	}
	h := NewFolderHandler(svc, testLogger())

	r := authed(httptest.NewRequest(http.MethodDelete, "/api/folders/f1?force=true", nil))
	r.Header.Set("X-Forwarded-For", "10.0.0.1, 172.16.0.2")
	rec := serve("DELETE /api/folders/{id}", h.DeleteFolder, r)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.DeleteFolderResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Deleted)
}
