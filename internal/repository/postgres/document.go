package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
)

// DocumentRepository implements repositories.DocumentRepository on Postgres
type DocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &DocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func (r *DocumentRepository) scanDocument(row pgx.Row, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.FolderID,
		&doc.FileName,
		&doc.OriginalFileName,
		&doc.StorageRef.Tier,
		&doc.StorageRef.Key,
		&doc.StorageRef.Path,
		&doc.SizeBytes,
		&doc.MimeType,
		&doc.PageCount,
		&doc.Status,
		&doc.UploadedAt,
		&doc.UpdatedAt,
	)
}

const documentColumns = `id, owner_id, folder_id, file_name, original_file_name,
		storage_tier, storage_key, storage_path, size_bytes, mime_type, page_count,
		status, uploaded_at, updated_at`

// Create creates a new document row
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, folder_id, file_name, original_file_name,
			storage_tier, storage_key, storage_path, size_bytes, mime_type, page_count,
			status, uploaded_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING uploaded_at, updated_at
	`, r.tables.Documents)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		doc.ID,
		doc.OwnerID,
		doc.FolderID,
		doc.FileName,
		doc.OriginalFileName,
		doc.StorageRef.Tier,
		doc.StorageRef.Key,
		doc.StorageRef.Path,
		doc.SizeBytes,
		doc.MimeType,
		doc.PageCount,
		doc.Status,
		doc.UploadedAt,
		doc.UpdatedAt,
	).Scan(&doc.UploadedAt, &doc.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("document '%s': %w", doc.FileName, domain.ErrConflict)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, documentColumns, r.tables.Documents)

	var doc models.Document
	err := r.scanDocument(GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID), &doc)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// GetByNameInFolder finds a document by display name within a folder.
// Returns (nil, nil) when absent.
func (r *DocumentRepository) GetByNameInFolder(ctx context.Context, ownerID, fileName string, folderID *string) (*models.Document, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND file_name = $2 AND folder_id IS NULL
		`, documentColumns, r.tables.Documents)
		args = append(args, ownerID, fileName)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE owner_id = $1 AND file_name = $2 AND folder_id = $3
		`, documentColumns, r.tables.Documents)
		args = append(args, ownerID, fileName, *folderID)
	}

	var doc models.Document
	err := r.scanDocument(GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...), &doc)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get document by name in folder: %w", err)
	}

	return &doc, nil
}

// Update updates a document's mutable fields
func (r *DocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, file_name = $2, status = $3, page_count = $4, updated_at = $5
		WHERE id = $6 AND owner_id = $7
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		doc.FolderID,
		doc.FileName,
		doc.Status,
		doc.PageCount,
		doc.UpdatedAt,
		doc.ID,
		doc.OwnerID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("document '%s': %w", doc.FileName, domain.ErrConflict)
		}
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdateFolder moves a document to another folder (nil = root)
func (r *DocumentRepository) UpdateFolder(ctx context.Context, id, ownerID string, folderID *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_id = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, folderID, id, ownerID)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("document %s: %w", id, domain.ErrConflict)
		}
		return fmt.Errorf("move document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// UpdateStatus transitions a document's lifecycle status
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id, ownerID string, status models.DocumentStatus) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, status, id, ownerID)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a document row
func (r *DocumentRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Documents)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListByFolder lists documents directly in a folder with chat activity counts.
// The chat_messages table belongs to the chat collaborator; it is joined
// read-only here.
func (r *DocumentRepository) ListByFolder(ctx context.Context, folderID *string, ownerID string) ([]models.Document, error) {
	var query string
	var args []interface{}

	base := fmt.Sprintf(`
		SELECT d.id, d.owner_id, d.folder_id, d.file_name, d.original_file_name,
			d.storage_tier, d.storage_key, d.storage_path, d.size_bytes, d.mime_type,
			d.page_count, d.status, d.uploaded_at, d.updated_at,
			COUNT(m.id) AS chat_message_count
		FROM %s d
		LEFT JOIN %s m ON m.document_id = d.id
	`, r.tables.Documents, r.tables.ChatMessages)

	if folderID == nil {
		query = base + `
			WHERE d.owner_id = $1 AND d.folder_id IS NULL
			GROUP BY d.id
			ORDER BY d.file_name ASC
		`
		args = append(args, ownerID)
	} else {
		query = base + `
			WHERE d.owner_id = $1 AND d.folder_id = $2
			GROUP BY d.id
			ORDER BY d.file_name ASC
		`
		args = append(args, ownerID, *folderID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.OwnerID,
			&doc.FolderID,
			&doc.FileName,
			&doc.OriginalFileName,
			&doc.StorageRef.Tier,
			&doc.StorageRef.Key,
			&doc.StorageRef.Path,
			&doc.SizeBytes,
			&doc.MimeType,
			&doc.PageCount,
			&doc.Status,
			&doc.UploadedAt,
			&doc.UpdatedAt,
			&doc.ChatMessageCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}

// CountByFolder counts documents directly in a folder
func (r *DocumentRepository) CountByFolder(ctx context.Context, folderID *string, ownerID string) (int, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE owner_id = $1 AND folder_id IS NULL`, r.tables.Documents)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE owner_id = $1 AND folder_id = $2`, r.tables.Documents)
		args = append(args, ownerID, *folderID)
	}

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}

	return count, nil
}
