package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
)

type documentService struct {
	docRepo    repositories.DocumentRepository
	folderRepo repositories.FolderRepository
	txManager  repositories.TransactionManager
	resolver   services.StorageResolver
	cache      repositories.DocumentCache
	audit      services.AuditRecorder
	logger     *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	txManager repositories.TransactionManager,
	resolver services.StorageResolver,
	cache repositories.DocumentCache,
	audit services.AuditRecorder,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:    docRepo,
		folderRepo: folderRepo,
		txManager:  txManager,
		resolver:   resolver,
		cache:      cache,
		audit:      audit,
		logger:     logger,
	}
}

// Get retrieves a document, read-through the metadata cache
func (s *documentService) Get(ctx context.Context, ownerID, documentID string) (*models.Document, error) {
	cached, err := s.cache.GetDocument(ctx, documentID)
	if err != nil {
		s.logger.Debug("cache read failed", "document_id", documentID, "error", err)
	}
	if cached != nil {
		// A cache hit still enforces ownership: another owner's document
		// is indistinguishable from an absent one.
		if cached.OwnerID != ownerID {
			return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
		}
		return cached, nil
	}

	doc, err := s.docRepo.GetByID(ctx, documentID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetDocument(ctx, doc); err != nil {
		s.logger.Debug("cache write failed", "document_id", documentID, "error", err)
	}

	return doc, nil
}

// List lists documents directly in a folder with chat activity counts
func (s *documentService) List(ctx context.Context, ownerID string, folderID *string) ([]models.Document, error) {
	if folderID != nil && *folderID == "" {
		folderID = nil
	}
	if folderID != nil {
		if _, err := s.folderRepo.GetByID(ctx, *folderID, ownerID); err != nil {
			return nil, err
		}
	}
	return s.docRepo.ListByFolder(ctx, folderID, ownerID)
}

// Rename changes the document's display name. The original file name is
// immutable provenance; chat history keys off the document id and is
// unaffected.
func (s *documentService) Rename(ctx context.Context, ownerID, documentID, newName string, src services.RequestSource) (*models.Document, error) {
	if err := validateName(newName); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var doc *models.Document
	renamed := false
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.docRepo.GetByID(txCtx, documentID, ownerID)
		if err != nil {
			return err
		}

		// Renaming to the current name is a no-op success.
		if doc.FileName == newName {
			return nil
		}

		existing, err := s.docRepo.GetByNameInFolder(txCtx, ownerID, newName, doc.FolderID)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != doc.ID {
			return &domain.ConflictError{ResourceType: "document", ResourceID: existing.ID}
		}

		doc.FileName = newName
		doc.UpdatedAt = time.Now()
		if err := s.docRepo.Update(txCtx, doc); err != nil {
			return err
		}
		renamed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if renamed {
		s.invalidate(ctx, documentID)
		s.audit.Record(ctx, &models.SecurityEvent{
			UserID:    ownerID,
			Action:    models.ActionRename,
			Detail:    fmt.Sprintf("document %s renamed to '%s'", documentID, newName),
			IPAddress: src.IPAddress,
			UserAgent: src.UserAgent,
		})
		s.logger.Info("document renamed", "id", documentID, "new_name", newName)
	}

	return doc, nil
}

// Move moves a document to another folder (nil = root)
func (s *documentService) Move(ctx context.Context, ownerID, documentID string, folderID *string, src services.RequestSource) (*models.Document, error) {
	if folderID != nil && *folderID == "" {
		folderID = nil
	}

	var doc *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.docRepo.GetByID(txCtx, documentID, ownerID)
		if err != nil {
			return err
		}

		if folderID != nil {
			if _, err := s.folderRepo.GetByID(txCtx, *folderID, ownerID); err != nil {
				return fmt.Errorf("target folder: %w", err)
			}
		}

		existing, err := s.docRepo.GetByNameInFolder(txCtx, ownerID, doc.FileName, folderID)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != doc.ID {
			return &domain.ConflictError{ResourceType: "document", ResourceID: existing.ID}
		}

		if err := s.docRepo.UpdateFolder(txCtx, documentID, ownerID, folderID); err != nil {
			return err
		}
		doc.FolderID = folderID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, documentID)
	s.audit.Record(ctx, &models.SecurityEvent{
		UserID:    ownerID,
		Action:    models.ActionMove,
		Detail:    fmt.Sprintf("document %s moved", documentID),
		IPAddress: src.IPAddress,
		UserAgent: src.UserAgent,
	})

	return doc, nil
}

// UpdateStatus applies a lifecycle transition
func (s *documentService) UpdateStatus(ctx context.Context, ownerID, documentID string, status models.DocumentStatus) (*models.Document, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status '%s'", domain.ErrValidation, status)
	}

	var doc *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.docRepo.GetByID(txCtx, documentID, ownerID)
		if err != nil {
			return err
		}

		if !doc.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: cannot transition from %s to %s", domain.ErrValidation, doc.Status, status)
		}

		if err := s.docRepo.UpdateStatus(txCtx, documentID, ownerID, status); err != nil {
			return err
		}
		doc.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, documentID)
	s.logger.Info("document status updated", "id", documentID, "status", status)

	return doc, nil
}

// Delete removes the metadata row and best-effort removes the bytes
func (s *documentService) Delete(ctx context.Context, ownerID, documentID string, src services.RequestSource) error {
	var ref models.StorageReference
	var fileName string

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docRepo.GetByID(txCtx, documentID, ownerID)
		if err != nil {
			return err
		}
		ref = doc.StorageRef
		fileName = doc.FileName

		return s.docRepo.Delete(txCtx, documentID, ownerID)
	})
	if err != nil {
		return err
	}

	// The metadata delete is the success criterion; orphaned bytes are
	// logged, never surfaced.
	if err := s.resolver.Remove(ctx, ref); err != nil {
		s.logger.Warn("failed to remove stored bytes", "document_id", documentID, "error", err)
	}
	s.invalidate(ctx, documentID)

	s.audit.Record(ctx, &models.SecurityEvent{
		UserID:    ownerID,
		Action:    models.ActionDelete,
		Detail:    fmt.Sprintf("document '%s' deleted", fileName),
		IPAddress: src.IPAddress,
		UserAgent: src.UserAgent,
	})
	s.logger.Info("document deleted", "id", documentID, "file_name", fileName)

	return nil
}

// Content resolves the document's bytes across storage tiers
func (s *documentService) Content(ctx context.Context, ownerID, documentID string) ([]byte, *models.Document, error) {
	doc, err := s.Get(ctx, ownerID, documentID)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.resolver.Retrieve(ctx, doc.StorageRef, ownerID, doc.FileName, doc.OriginalFileName)
	if err != nil {
		return nil, nil, err
	}

	return data, doc, nil
}

func (s *documentService) invalidate(ctx context.Context, documentID string) {
	if err := s.cache.DeleteDocument(ctx, documentID); err != nil {
		s.logger.Debug("cache invalidation failed", "document_id", documentID, "error", err)
	}
}
