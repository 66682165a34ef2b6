package handler

import (
	"log/slog"
	"net/http"

	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
	"github.com/dazedmind/legalynx-sub004/internal/httputil"
)

// FolderHandler serves the folder tree endpoints.
type FolderHandler struct {
	folderSvc services.FolderService
	logger    *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderSvc services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folderSvc: folderSvc, logger: logger}
}

// CreateFolder handles POST /api/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := h.folderSvc.Create(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// ListRoot handles GET /api/folders (root-level contents)
func (h *FolderHandler) ListRoot(w http.ResponseWriter, r *http.Request) {
	var folderID *string
	if id := r.URL.Query().Get("folder_id"); id != "" {
		folderID = &id
	}

	contents, err := h.folderSvc.ListChildren(r.Context(), httputil.GetUserID(r), folderID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}

// GetFolder handles GET /api/folders/{id} (folder with immediate children)
func (h *FolderHandler) GetFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("id")

	contents, err := h.folderSvc.ListChildren(r.Context(), httputil.GetUserID(r), &folderID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, contents)
}

type updateFolderRequest struct {
	Name     *string                 `json:"name,omitempty"`
	ParentID httputil.OptionalString `json:"parent_id"`
}

// UpdateFolder handles PATCH /api/folders/{id} (rename and/or move)
func (h *FolderHandler) UpdateFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("id")
	ownerID := httputil.GetUserID(r)

	var req updateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == nil && !req.ParentID.Present {
		httputil.RespondError(w, http.StatusBadRequest, "at least one of name or parent_id must be provided")
		return
	}

	folder, err := h.folderSvc.Get(r.Context(), ownerID, folderID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	if req.Name != nil {
		folder, err = h.folderSvc.Rename(r.Context(), ownerID, folderID, *req.Name, requestSource(r))
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
	}

	if req.ParentID.Present {
		// null moves the folder to the root level.
		folder, err = h.folderSvc.Move(r.Context(), ownerID, folderID, req.ParentID.Value, requestSource(r))
		if err != nil {
			respondServiceError(w, h.logger, err)
			return
		}
	}

	httputil.RespondJSON(w, http.StatusOK, folder)
}

// DeleteFolder handles DELETE /api/folders/{id}?force=true
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.PathValue("id")
	force := r.URL.Query().Get("force") == "true"

	result, err := h.folderSvc.Delete(r.Context(), httputil.GetUserID(r), folderID, force, requestSource(r))
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
