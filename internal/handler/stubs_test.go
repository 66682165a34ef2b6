package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
	"github.com/dazedmind/legalynx-sub004/internal/httputil"
)

const testUserID = "user-1"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// authed attaches the test user id the way the auth middleware would.
func authed(r *http.Request) *http.Request {
	return httputil.WithUserID(r, testUserID)
}

// stubFolderService lets each test supply only the methods it exercises.
type stubFolderService struct {
	create        func(ctx context.Context, ownerID string, req *services.CreateFolderRequest) (*models.Folder, error)
	get           func(ctx context.Context, ownerID, folderID string) (*models.Folder, error)
	listChildren  func(ctx context.Context, ownerID string, folderID *string) (*services.FolderContents, error)
	rename        func(ctx context.Context, ownerID, folderID, newName string, src services.RequestSource) (*models.Folder, error)
	move          func(ctx context.Context, ownerID, folderID string, newParentID *string, src services.RequestSource) (*models.Folder, error)
	delete        func(ctx context.Context, ownerID, folderID string, force bool, src services.RequestSource) (*services.DeleteFolderResult, error)
	moveDocuments func(ctx context.Context, ownerID string, documentIDs []string, targetFolderID *string, src services.RequestSource) (*services.MoveDocumentsResult, error)
}

func (s *stubFolderService) Create(ctx context.Context, ownerID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	return s.create(ctx, ownerID, req)
}

func (s *stubFolderService) Get(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
	return s.get(ctx, ownerID, folderID)
}

func (s *stubFolderService) ListChildren(ctx context.Context, ownerID string, folderID *string) (*services.FolderContents, error) {
	return s.listChildren(ctx, ownerID, folderID)
}

func (s *stubFolderService) Rename(ctx context.Context, ownerID, folderID, newName string, src services.RequestSource) (*models.Folder, error) {
	return s.rename(ctx, ownerID, folderID, newName, src)
}

func (s *stubFolderService) Move(ctx context.Context, ownerID, folderID string, newParentID *string, src services.RequestSource) (*models.Folder, error) {
	return s.move(ctx, ownerID, folderID, newParentID, src)
}

func (s *stubFolderService) Delete(ctx context.Context, ownerID, folderID string, force bool, src services.RequestSource) (*services.DeleteFolderResult, error) {
	return s.delete(ctx, ownerID, folderID, force, src)
}

func (s *stubFolderService) MoveDocuments(ctx context.Context, ownerID string, documentIDs []string, targetFolderID *string, src services.RequestSource) (*services.MoveDocumentsResult, error) {
	return s.moveDocuments(ctx, ownerID, documentIDs, targetFolderID, src)
}

type stubDocumentService struct {
	get          func(ctx context.Context, ownerID, documentID string) (*models.Document, error)
	list         func(ctx context.Context, ownerID string, folderID *string) ([]models.Document, error)
	rename       func(ctx context.Context, ownerID, documentID, newName string, src services.RequestSource) (*models.Document, error)
	move         func(ctx context.Context, ownerID, documentID string, folderID *string, src services.RequestSource) (*models.Document, error)
	updateStatus func(ctx context.Context, ownerID, documentID string, status models.DocumentStatus) (*models.Document, error)
	delete       func(ctx context.Context, ownerID, documentID string, src services.RequestSource) error
	content      func(ctx context.Context, ownerID, documentID string) ([]byte, *models.Document, error)
}

func (s *stubDocumentService) Get(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	return s.get(ctx, ownerID, documentID)
}

func (s *stubDocumentService) List(ctx context.Context, ownerID string, folderID *string) ([]models.Document, error) {
	return s.list(ctx, ownerID, folderID)
}

func (s *stubDocumentService) Rename(ctx context.Context, ownerID, documentID, newName string, src services.RequestSource) (*models.Document, error) {
	return s.rename(ctx, ownerID, documentID, newName, src)
}

func (s *stubDocumentService) Move(ctx context.Context, ownerID, documentID string, folderID *string, src services.RequestSource) (*models.Document, error) {
	return s.move(ctx, ownerID, documentID, folderID, src)
}

func (s *stubDocumentService) UpdateStatus(ctx context.Context, ownerID, documentID string, status models.DocumentStatus) (*models.Document, error) {
	return s.updateStatus(ctx, ownerID, documentID, status)
}

func (s *stubDocumentService) Delete(ctx context.Context, ownerID, documentID string, src services.RequestSource) error {
	return s.delete(ctx, ownerID, documentID, src)
}

func (s *stubDocumentService) Content(ctx context.Context, ownerID, documentID string) ([]byte, *models.Document, error) {
	return s.content(ctx, ownerID, documentID)
}

type stubUploadService struct {
	upload func(ctx context.Context, ownerID string, req *services.UploadRequest) (*models.Document, error)
}

func (s *stubUploadService) Upload(ctx context.Context, ownerID string, req *services.UploadRequest) (*models.Document, error) {
	return s.upload(ctx, ownerID, req)
}

// serve routes the request through a mux so r.PathValue works in handlers.
func serve(pattern string, handlerFunc http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, handlerFunc)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}
