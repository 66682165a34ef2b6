package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/dazedmind/legalynx-sub004/internal/config"
	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
	"github.com/dazedmind/legalynx-sub004/internal/service/pathing"
)

// nameRe rejects control characters and the characters common client
// filesystems refuse.
var nameRe = regexp.MustCompile(`^[^<>:"/\\|?*[:cntrl:]]+$`)

type folderService struct {
	folderRepo repositories.FolderRepository
	docRepo    repositories.DocumentRepository
	txManager  repositories.TransactionManager
	paths      *pathing.Materializer
	resolver   services.StorageResolver
	cache      repositories.DocumentCache
	audit      services.AuditRecorder
	logger     *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	docRepo repositories.DocumentRepository,
	txManager repositories.TransactionManager,
	paths *pathing.Materializer,
	resolver services.StorageResolver,
	cache repositories.DocumentCache,
	audit services.AuditRecorder,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo: folderRepo,
		docRepo:    docRepo,
		txManager:  txManager,
		paths:      paths,
		resolver:   resolver,
		cache:      cache,
		audit:      audit,
		logger:     logger,
	}
}

// Create creates a new folder with its materialized path
func (s *folderService) Create(ctx context.Context, ownerID string, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	folder := &models.Folder{
		OwnerID:   ownerID,
		ParentID:  req.ParentID,
		Name:      req.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		parentPath := ""
		if req.ParentID != nil {
			parent, err := s.folderRepo.GetByID(txCtx, *req.ParentID, ownerID)
			if err != nil {
				return fmt.Errorf("parent folder: %w", err)
			}
			parentPath = parent.Path
		}

		sibling, err := s.folderRepo.GetByNameAndParent(txCtx, ownerID, req.Name, req.ParentID)
		if err != nil {
			return err
		}
		if sibling != nil {
			return &domain.ConflictError{ResourceType: "folder", ResourceID: sibling.ID}
		}

		folder.Path = pathing.ChildPath(parentPath, req.Name)
		if len(folder.Path) > config.MaxFolderPathLength {
			return fmt.Errorf("%w: path exceeds maximum length of %d", domain.ErrValidation, config.MaxFolderPathLength)
		}

		return s.folderRepo.Create(txCtx, folder)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"owner_id", ownerID,
		"path", folder.Path,
	)

	return folder, nil
}

// Get retrieves a folder, self-healing a missing materialized path
func (s *folderService) Get(ctx context.Context, ownerID, folderID string) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, ownerID)
	if err != nil {
		return nil, err
	}

	// Rows imported from older deployments can lack a stored path.
	if folder.Path == "" {
		path, err := s.paths.ComputePath(ctx, folder.ID, ownerID)
		if err != nil {
			return nil, err
		}
		if err := s.folderRepo.UpdatePath(ctx, folder.ID, ownerID, path); err != nil {
			s.logger.Warn("failed to persist recomputed path", "folder_id", folder.ID, "error", err)
		}
		folder.Path = path
	}

	return folder, nil
}

// ListChildren lists a folder's immediate subfolders and documents
func (s *folderService) ListChildren(ctx context.Context, ownerID string, folderID *string) (*services.FolderContents, error) {
	var folder *models.Folder
	var err error

	if folderID != nil && *folderID != "" {
		folder, err = s.Get(ctx, ownerID, *folderID)
		if err != nil {
			return nil, err
		}
	} else {
		folderID = nil
	}

	childFolders, err := s.folderRepo.ListChildren(ctx, folderID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list child folders: %w", err)
	}

	docs, err := s.docRepo.ListByFolder(ctx, folderID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	return &services.FolderContents{
		Folder:    folder,
		Folders:   childFolders,
		Documents: docs,
	}, nil
}

// Rename changes a folder's name and rewrites every descendant's path
func (s *folderService) Rename(ctx context.Context, ownerID, folderID, newName string, src services.RequestSource) (*models.Folder, error) {
	if err := validateName(newName); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var folder *models.Folder
	var oldPath string
	renamed := false
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		folder, err = s.folderRepo.GetByID(txCtx, folderID, ownerID)
		if err != nil {
			return err
		}

		// Renaming to the current name is a no-op success, not a conflict.
		if folder.Name == newName {
			return nil
		}

		sibling, err := s.folderRepo.GetByNameAndParent(txCtx, ownerID, newName, folder.ParentID)
		if err != nil {
			return err
		}
		if sibling != nil && sibling.ID != folder.ID {
			return &domain.ConflictError{ResourceType: "folder", ResourceID: sibling.ID}
		}

		parentPath := parentPathOf(folder)
		oldPath = folder.Path

		folder.Name = newName
		folder.Path = pathing.ChildPath(parentPath, newName)
		folder.UpdatedAt = time.Now()
		if err := s.folderRepo.Update(txCtx, folder); err != nil {
			return err
		}
		renamed = true

		s.logger.Info("folder renamed",
			"id", folder.ID,
			"old_path", oldPath,
			"new_path", folder.Path,
		)

		return s.rewriteDescendantPaths(txCtx, ownerID, folder.ID, oldPath, folder.Path)
	})
	if err != nil {
		return nil, err
	}

	if renamed {
		s.audit.Record(ctx, &models.SecurityEvent{
			UserID:    ownerID,
			Action:    models.ActionRename,
			Detail:    fmt.Sprintf("folder renamed from '%s' to '%s'", oldPath, folder.Path),
			IPAddress: src.IPAddress,
			UserAgent: src.UserAgent,
		})
	}

	return folder, nil
}

// Move reparents a folder and rewrites every descendant's path
func (s *folderService) Move(ctx context.Context, ownerID, folderID string, newParentID *string, src services.RequestSource) (*models.Folder, error) {
	if newParentID != nil && *newParentID == "" {
		newParentID = nil
	}

	var folder *models.Folder
	var oldPath string
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		folder, err = s.folderRepo.GetByID(txCtx, folderID, ownerID)
		if err != nil {
			return err
		}
		oldPath = folder.Path

		parentPath := ""
		if newParentID != nil {
			if err := s.validateNoCycle(txCtx, ownerID, folderID, *newParentID); err != nil {
				return err
			}
			parent, err := s.folderRepo.GetByID(txCtx, *newParentID, ownerID)
			if err != nil {
				return fmt.Errorf("target folder: %w", err)
			}
			parentPath = parent.Path
		}

		sibling, err := s.folderRepo.GetByNameAndParent(txCtx, ownerID, folder.Name, newParentID)
		if err != nil {
			return err
		}
		if sibling != nil && sibling.ID != folder.ID {
			return &domain.ConflictError{ResourceType: "folder", ResourceID: sibling.ID}
		}

		folder.ParentID = newParentID
		folder.Path = pathing.ChildPath(parentPath, folder.Name)
		folder.UpdatedAt = time.Now()
		if err := s.folderRepo.Update(txCtx, folder); err != nil {
			return err
		}

		s.logger.Info("folder moved",
			"id", folder.ID,
			"new_parent_id", newParentID,
			"new_path", folder.Path,
		)

		return s.rewriteDescendantPaths(txCtx, ownerID, folder.ID, oldPath, folder.Path)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &models.SecurityEvent{
		UserID:    ownerID,
		Action:    models.ActionMove,
		Detail:    fmt.Sprintf("folder '%s' moved to '%s'", oldPath, folder.Path),
		IPAddress: src.IPAddress,
		UserAgent: src.UserAgent,
	})

	return folder, nil
}

// byteRemoval is the post-commit cleanup work collected during a cascade.
type byteRemoval struct {
	docID string
	ref   models.StorageReference
}

// Delete removes a folder, asking for confirmation when it is non-empty
func (s *folderService) Delete(ctx context.Context, ownerID, folderID string, force bool, src services.RequestSource) (*services.DeleteFolderResult, error) {
	var result *services.DeleteFolderResult
	var removals []byteRemoval
	var folderPath string

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		folder, err := s.folderRepo.GetByID(txCtx, folderID, ownerID)
		if err != nil {
			return err
		}
		folderPath = folder.Path

		subfolders, err := s.folderRepo.ListChildren(txCtx, &folderID, ownerID)
		if err != nil {
			return fmt.Errorf("failed to check child folders: %w", err)
		}
		docCount, err := s.docRepo.CountByFolder(txCtx, &folderID, ownerID)
		if err != nil {
			return fmt.Errorf("failed to check documents: %w", err)
		}

		if (len(subfolders) > 0 || docCount > 0) && !force {
			// Non-destructive preview: nothing is mutated.
			summaries := make([]services.SubfolderSummary, 0, len(subfolders))
			for _, sub := range subfolders {
				subDocs, err := s.docRepo.CountByFolder(txCtx, &sub.ID, ownerID)
				if err != nil {
					return err
				}
				subFolders, err := s.folderRepo.CountChildren(txCtx, &sub.ID, ownerID)
				if err != nil {
					return err
				}
				summaries = append(summaries, services.SubfolderSummary{
					ID:             sub.ID,
					Name:           sub.Name,
					DocumentCount:  subDocs,
					SubfolderCount: subFolders,
				})
			}
			result = &services.DeleteFolderResult{
				RequiresConfirmation: true,
				DocumentCount:        docCount,
				SubfolderCount:       len(subfolders),
				Subfolders:           summaries,
			}
			return nil
		}

		docsDeleted, foldersDeleted, refs, err := s.deleteSubtree(txCtx, ownerID, folderID)
		if err != nil {
			return err
		}
		removals = refs
		result = &services.DeleteFolderResult{
			Deleted:        true,
			DocumentCount:  docsDeleted,
			SubfolderCount: foldersDeleted - 1, // exclude the folder itself
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Deleted {
		// Byte removal runs after the metadata commit; failures leave
		// orphaned bytes, never dangling metadata.
		s.cleanupRemovals(ctx, removals)

		s.audit.Record(ctx, &models.SecurityEvent{
			UserID:    ownerID,
			Action:    models.ActionDelete,
			Detail:    fmt.Sprintf("folder %s (%d documents, %d subfolders)", folderPath, result.DocumentCount, result.SubfolderCount),
			IPAddress: src.IPAddress,
			UserAgent: src.UserAgent,
		})

		s.logger.Info("folder deleted",
			"id", folderID,
			"path", folderPath,
			"documents", result.DocumentCount,
			"subfolders", result.SubfolderCount,
		)
	}

	return result, nil
}

// MoveDocuments moves a batch of documents with per-document results
func (s *folderService) MoveDocuments(ctx context.Context, ownerID string, documentIDs []string, targetFolderID *string, src services.RequestSource) (*services.MoveDocumentsResult, error) {
	if targetFolderID != nil && *targetFolderID == "" {
		targetFolderID = nil
	}

	result := &services.MoveDocumentsResult{}
	var movedIDs []string

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if targetFolderID != nil {
			if _, err := s.folderRepo.GetByID(txCtx, *targetFolderID, ownerID); err != nil {
				return fmt.Errorf("target folder: %w", err)
			}
		}

		for _, id := range documentIDs {
			outcome := services.DocumentMoveResult{DocumentID: id}

			doc, err := s.docRepo.GetByID(txCtx, id, ownerID)
			if err != nil {
				outcome.Error = "document not found"
				result.Results = append(result.Results, outcome)
				result.Failed++
				continue
			}

			existing, err := s.docRepo.GetByNameInFolder(txCtx, ownerID, doc.FileName, targetFolderID)
			if err != nil {
				return err
			}
			if existing != nil && existing.ID != doc.ID {
				outcome.Error = fmt.Sprintf("a document named '%s' already exists in the target folder", doc.FileName)
				result.Results = append(result.Results, outcome)
				result.Failed++
				continue
			}

			if err := s.docRepo.UpdateFolder(txCtx, id, ownerID, targetFolderID); err != nil {
				return err
			}
			outcome.Moved = true
			result.Results = append(result.Results, outcome)
			result.Moved++
			movedIDs = append(movedIDs, id)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, id := range movedIDs {
		if err := s.cache.DeleteDocument(ctx, id); err != nil {
			s.logger.Debug("cache invalidation failed", "document_id", id, "error", err)
		}
	}

	if result.Moved > 0 {
		s.audit.Record(ctx, &models.SecurityEvent{
			UserID:    ownerID,
			Action:    models.ActionMove,
			Detail:    fmt.Sprintf("moved %d of %d documents", result.Moved, len(documentIDs)),
			IPAddress: src.IPAddress,
			UserAgent: src.UserAgent,
		})
	}

	return result, nil
}

// rewriteDescendantPaths walks the subtree depth-first, parent before
// children, swapping the subtree root's old path prefix for the new one
// in each descendant's stored path.
func (s *folderService) rewriteDescendantPaths(ctx context.Context, ownerID, folderID, oldPath, newPath string) error {
	children, err := s.folderRepo.ListChildren(ctx, &folderID, ownerID)
	if err != nil {
		return err
	}

	for _, child := range children {
		childPath := pathing.ReplacePathPrefix(child.Path, oldPath, newPath)
		if err := s.folderRepo.UpdatePath(ctx, child.ID, ownerID, childPath); err != nil {
			return err
		}
		if err := s.rewriteDescendantPaths(ctx, ownerID, child.ID, oldPath, newPath); err != nil {
			return err
		}
	}

	return nil
}

// deleteSubtree removes the subtree children-first and collects the byte
// removals to run after commit.
func (s *folderService) deleteSubtree(ctx context.Context, ownerID, folderID string) (int, int, []byteRemoval, error) {
	docsDeleted, foldersDeleted := 0, 0
	var removals []byteRemoval

	children, err := s.folderRepo.ListChildren(ctx, &folderID, ownerID)
	if err != nil {
		return 0, 0, nil, err
	}
	for _, child := range children {
		d, f, refs, err := s.deleteSubtree(ctx, ownerID, child.ID)
		if err != nil {
			return 0, 0, nil, err
		}
		docsDeleted += d
		foldersDeleted += f
		removals = append(removals, refs...)
	}

	docs, err := s.docRepo.ListByFolder(ctx, &folderID, ownerID)
	if err != nil {
		return 0, 0, nil, err
	}
	for _, doc := range docs {
		if err := s.docRepo.Delete(ctx, doc.ID, ownerID); err != nil {
			return 0, 0, nil, err
		}
		removals = append(removals, byteRemoval{docID: doc.ID, ref: doc.StorageRef})
		docsDeleted++
	}

	if err := s.folderRepo.Delete(ctx, folderID, ownerID); err != nil {
		return 0, 0, nil, err
	}
	foldersDeleted++

	return docsDeleted, foldersDeleted, removals, nil
}

func (s *folderService) cleanupRemovals(ctx context.Context, removals []byteRemoval) {
	for _, rm := range removals {
		if err := s.resolver.Remove(ctx, rm.ref); err != nil {
			s.logger.Warn("failed to remove stored bytes", "document_id", rm.docID, "error", err)
		}
		if err := s.cache.DeleteDocument(ctx, rm.docID); err != nil {
			s.logger.Debug("cache invalidation failed", "document_id", rm.docID, "error", err)
		}
	}
}

// validateNoCycle ensures a move cannot make a folder its own ancestor.
// The walk carries a visited set so a pre-existing cycle in the parent
// chain surfaces as ErrCorruptHierarchy instead of looping.
func (s *folderService) validateNoCycle(ctx context.Context, ownerID, folderID, newParentID string) error {
	if folderID == newParentID {
		return fmt.Errorf("%w: cannot move a folder into itself", domain.ErrValidation)
	}

	visited := map[string]bool{}
	currentID := newParentID
	for {
		if visited[currentID] {
			return fmt.Errorf("folder %s revisited in parent chain: %w", currentID, domain.ErrCorruptHierarchy)
		}
		visited[currentID] = true

		current, err := s.folderRepo.GetByID(ctx, currentID, ownerID)
		if err != nil {
			return err
		}
		if current.ParentID == nil {
			return nil
		}
		if *current.ParentID == folderID {
			return fmt.Errorf("%w: cannot move a folder into its own descendant", domain.ErrValidation)
		}
		currentID = *current.ParentID
	}
}

// parentPathOf derives the parent's path from the stored invariant
// path == parentPath + "/" + name, with root-level paths being the
// bare name.
func parentPathOf(folder *models.Folder) string {
	if folder.ParentID == nil {
		return ""
	}
	return strings.TrimSuffix(folder.Path, "/"+folder.Name)
}

// validateName validates a folder or document display name
func validateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		validation.NotIn(".", "..").Error("name is reserved"),
		validation.Match(nameRe).Error("name contains forbidden characters"),
	)
}
