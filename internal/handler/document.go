package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dazedmind/legalynx-sub004/internal/config"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
	"github.com/dazedmind/legalynx-sub004/internal/httputil"
)

// DocumentHandler serves the document endpoints, including upload.
type DocumentHandler struct {
	docSvc    services.DocumentService
	uploadSvc services.UploadService
	folderSvc services.FolderService
	logger    *slog.Logger
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	docSvc services.DocumentService,
	uploadSvc services.UploadService,
	folderSvc services.FolderService,
	logger *slog.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		docSvc:    docSvc,
		uploadSvc: uploadSvc,
		folderSvc: folderSvc,
		logger:    logger,
	}
}

// HealthCheck handles GET /health
func (h *DocumentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateDocument handles POST /api/documents (multipart upload)
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(config.MaxUploadSizeBytes); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	req := &services.UploadRequest{
		FileName:          header.Filename,
		MimeType:          mimeType,
		Data:              data,
		IntelligentNaming: r.FormValue("intelligent_naming") == "true",
		OwnerToken:        httputil.BearerToken(r),
		Source:            requestSource(r),
	}
	if folderID := r.FormValue("folder_id"); folderID != "" {
		req.FolderID = &folderID
	}

	doc, err := h.uploadSvc.Upload(r.Context(), httputil.GetUserID(r), req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, doc)
}

// ListDocuments handles GET /api/documents?folder_id=
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	var folderID *string
	if id := r.URL.Query().Get("folder_id"); id != "" {
		folderID = &id
	}

	docs, err := h.docSvc.List(r.Context(), httputil.GetUserID(r), folderID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{"documents": docs})
}

// GetDocument handles GET /api/documents/{id}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docSvc.Get(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// GetContent handles GET /api/documents/{id}/content
func (h *DocumentHandler) GetContent(w http.ResponseWriter, r *http.Request) {
	data, doc, err := h.docSvc.Content(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", doc.FileName))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

type updateDocumentRequest struct {
	FileName *string                 `json:"file_name,omitempty"`
	FolderID httputil.OptionalString `json:"folder_id"`
	Status   *string                 `json:"status,omitempty"`
}

// UpdateDocument handles PATCH /api/documents/{id} (rename, move, status)
func (h *DocumentHandler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	documentID := r.PathValue("id")
	ownerID := httputil.GetUserID(r)

	var req updateDocumentRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.FileName == nil && !req.FolderID.Present && req.Status == nil {
		httputil.RespondError(w, http.StatusBadRequest, "at least one of file_name, folder_id or status must be provided")
		return
	}

	doc, err := h.docSvc.Get(r.Context(), ownerID, documentID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if req.FileName != nil {
		doc, err = h.docSvc.Rename(r.Context(), ownerID, documentID, *req.FileName, requestSource(r))
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
	}

	if req.FolderID.Present {
		// null moves the document to the root level.
		doc, err = h.docSvc.Move(r.Context(), ownerID, documentID, req.FolderID.Value, requestSource(r))
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
	}

	if req.Status != nil {
		doc, err = h.docSvc.UpdateStatus(r.Context(), ownerID, documentID, models.DocumentStatus(*req.Status))
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := h.docSvc.Delete(r.Context(), httputil.GetUserID(r), r.PathValue("id"), requestSource(r))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

type moveDocumentsRequest struct {
	DocumentIDs    []string                `json:"document_ids"`
	TargetFolderID httputil.OptionalString `json:"target_folder_id"`
}

// MoveDocuments handles POST /api/documents/move (batch move)
func (h *DocumentHandler) MoveDocuments(w http.ResponseWriter, r *http.Request) {
	var req moveDocumentsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.DocumentIDs) == 0 {
		httputil.RespondError(w, http.StatusBadRequest, "document_ids must not be empty")
		return
	}

	result, err := h.folderSvc.MoveDocuments(r.Context(), httputil.GetUserID(r),
		req.DocumentIDs, req.TargetFolderID.Value, requestSource(r))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
