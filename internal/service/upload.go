package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dazedmind/legalynx-sub004/internal/config"
	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
)

// maxNameAttempts bounds the "name (n).ext" uniqueness search.
const maxNameAttempts = 100

type uploadService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	resolver   services.StorageResolver
	naming     services.NamingService
	cache      repositories.DocumentCache
	audit      services.AuditRecorder
	logger     *slog.Logger
}

// NewUploadService creates the upload pipeline. naming may be nil when no
// naming collaborator is configured.
func NewUploadService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	resolver services.StorageResolver,
	naming services.NamingService,
	cache repositories.DocumentCache,
	audit services.AuditRecorder,
	logger *slog.Logger,
) services.UploadService {
	return &uploadService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		resolver:   resolver,
		naming:     naming,
		cache:      cache,
		audit:      audit,
		logger:     logger,
	}
}

func (s *uploadService) Upload(ctx context.Context, ownerID string, req *services.UploadRequest) (*models.Document, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	if req.FolderID != nil && *req.FolderID == "" {
		req.FolderID = nil
	}

	displayName := req.FileName
	var pageCount *int

	if req.IntelligentNaming && s.naming != nil {
		suggestion, err := s.naming.SuggestName(ctx, req.Data, req.FileName, req.OwnerToken)
		switch {
		case err != nil:
			// Naming is best-effort; the upload continues with the
			// original file name.
			s.logger.Warn("naming collaborator unavailable, keeping original name",
				"error", err, "file_name", req.FileName)
		case validateName(suggestion.DisplayName) != nil:
			s.logger.Warn("naming collaborator returned an unusable name",
				"suggested", suggestion.DisplayName, "file_name", req.FileName)
		default:
			displayName = suggestion.DisplayName
			pageCount = suggestion.PageCount
		}
	}

	// Bytes first: a byte-storage failure degrades the reference to
	// TierNone and the document is persisted as TEMPORARY.
	ref, err := s.resolver.Store(ctx, req.Data, req.FileName, ownerID, "documents")
	if err != nil {
		return nil, err
	}

	status := models.StatusTemporary
	if ref.Durable() {
		status = models.StatusUploaded
	}

	doc := &models.Document{
		OwnerID:          ownerID,
		FolderID:         req.FolderID,
		OriginalFileName: req.FileName,
		StorageRef:       ref,
		SizeBytes:        int64(len(req.Data)),
		MimeType:         req.MimeType,
		PageCount:        pageCount,
		Status:           status,
		UploadedAt:       time.Now(),
		UpdatedAt:        time.Now(),
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if req.FolderID != nil {
			if _, err := s.folderRepo.GetByID(txCtx, *req.FolderID, ownerID); err != nil {
				return fmt.Errorf("target folder: %w", err)
			}
		}

		name, err := s.uniqueName(txCtx, ownerID, displayName, req.FolderID)
		if err != nil {
			return err
		}
		doc.FileName = name

		return s.docRepo.Create(txCtx, doc)
	})
	if err != nil {
		// The metadata insert failed after the bytes were stored; drop
		// the orphan best-effort.
		if rmErr := s.resolver.Remove(ctx, ref); rmErr != nil {
			s.logger.Warn("failed to remove orphaned bytes", "error", rmErr)
		}
		return nil, err
	}

	s.audit.Record(ctx, &models.SecurityEvent{
		UserID:    ownerID,
		Action:    models.ActionUpload,
		Detail:    fmt.Sprintf("document '%s' uploaded (%d bytes, %s)", doc.FileName, doc.SizeBytes, doc.MimeType),
		IPAddress: req.Source.IPAddress,
		UserAgent: req.Source.UserAgent,
	})

	s.logger.Info("document uploaded",
		"id", doc.ID,
		"file_name", doc.FileName,
		"owner_id", ownerID,
		"status", doc.Status,
		"tier", doc.StorageRef.Tier,
	)

	return doc, nil
}

func (s *uploadService) validateRequest(req *services.UploadRequest) error {
	// Same rules as folder names: path separators, control characters
	// and reserved names never reach the storage layer.
	if err := validateName(req.FileName); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if len(req.Data) == 0 {
		return fmt.Errorf("%w: file is empty", domain.ErrValidation)
	}
	if len(req.Data) > config.MaxUploadSizeBytes {
		return fmt.Errorf("%w: file exceeds maximum size of %d bytes", domain.ErrValidation, config.MaxUploadSizeBytes)
	}
	if !config.AllowedMimeTypes[req.MimeType] {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedType, req.MimeType)
	}
	return nil
}

// uniqueName returns base unchanged when free, otherwise the first free
// "base (n).ext" variant.
func (s *uploadService) uniqueName(ctx context.Context, ownerID, base string, folderID *string) (string, error) {
	existing, err := s.docRepo.GetByNameInFolder(ctx, ownerID, base, folderID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return base, nil
	}

	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for n := 1; n <= maxNameAttempts; n++ {
		candidate := fmt.Sprintf("%s (%d)%s", stem, n, ext)
		existing, err := s.docRepo.GetByNameInFolder(ctx, ownerID, candidate, folderID)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return candidate, nil
		}
	}

	return "", &domain.ConflictError{ResourceType: "document", ResourceID: base}
}
