package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dazedmind/legalynx-sub004/internal/domain"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/domain/repositories"
)

// FolderRepository implements repositories.FolderRepository on Postgres
type FolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &FolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create creates a new folder
func (r *FolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	if folder.ID == "" {
		folder.ID = uuid.NewString()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, owner_id, parent_id, name, path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`, r.tables.Folders)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		folder.ID,
		folder.OwnerID,
		folder.ParentID,
		folder.Name,
		folder.Path,
		folder.CreatedAt,
		folder.UpdatedAt,
	).Scan(&folder.CreatedAt, &folder.UpdatedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *FolderRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, owner_id, parent_id, name, path, created_at, updated_at
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Folders)

	var folder models.Folder
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, id, ownerID).Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.Path,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// GetByNameAndParent finds a sibling by name. Returns (nil, nil) when absent.
func (r *FolderRepository) GetByNameAndParent(ctx context.Context, ownerID, name string, parentID *string) (*models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT id, owner_id, parent_id, name, path, created_at, updated_at
			FROM %s
			WHERE owner_id = $1 AND name = $2 AND parent_id IS NULL
		`, r.tables.Folders)
		args = append(args, ownerID, name)
	} else {
		query = fmt.Sprintf(`
			SELECT id, owner_id, parent_id, name, path, created_at, updated_at
			FROM %s
			WHERE owner_id = $1 AND name = $2 AND parent_id = $3
		`, r.tables.Folders)
		args = append(args, ownerID, name, *parentID)
	}

	var folder models.Folder
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(
		&folder.ID,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.Name,
		&folder.Path,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)

	if err != nil {
		if isPgNoRowsError(err) {
			return nil, nil // Not found, not an error
		}
		return nil, fmt.Errorf("get folder by name and parent: %w", err)
	}

	return &folder, nil
}

// Update updates a folder's name, parent and path
func (r *FolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, path = $3, updated_at = $4
		WHERE id = $5 AND owner_id = $6
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.Path,
		folder.UpdatedAt,
		folder.ID,
		folder.OwnerID,
	)

	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// UpdatePath rewrites only the materialized path of a folder
func (r *FolderRepository) UpdatePath(ctx context.Context, id, ownerID, path string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET path = $1, updated_at = NOW()
		WHERE id = $2 AND owner_id = $3
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, path, id, ownerID)
	if err != nil {
		return fmt.Errorf("update folder path: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a folder row
func (r *FolderRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Folders)

	result, err := GetExecutor(ctx, r.pool).Exec(ctx, query, id, ownerID)
	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("cannot delete folder with children: %w", domain.ErrConflict)
		}
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate child folders
func (r *FolderRepository) ListChildren(ctx context.Context, parentID *string, ownerID string) ([]models.Folder, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT id, owner_id, parent_id, name, path, created_at, updated_at
			FROM %s
			WHERE owner_id = $1 AND parent_id IS NULL
			ORDER BY name ASC
		`, r.tables.Folders)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`
			SELECT id, owner_id, parent_id, name, path, created_at, updated_at
			FROM %s
			WHERE owner_id = $1 AND parent_id = $2
			ORDER BY name ASC
		`, r.tables.Folders)
		args = append(args, ownerID, *parentID)
	}

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.OwnerID,
			&folder.ParentID,
			&folder.Name,
			&folder.Path,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}

// CountChildren counts immediate child folders
func (r *FolderRepository) CountChildren(ctx context.Context, parentID *string, ownerID string) (int, error) {
	var query string
	var args []interface{}

	if parentID == nil {
		query = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE owner_id = $1 AND parent_id IS NULL`, r.tables.Folders)
		args = append(args, ownerID)
	} else {
		query = fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE owner_id = $1 AND parent_id = $2`, r.tables.Folders)
		args = append(args, ownerID, *parentID)
	}

	var count int
	if err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count folder children: %w", err)
	}

	return count, nil
}
