package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upDocumentHierarchy, downDocumentHierarchy)
}

func upDocumentHierarchy(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]sfolders (
				id TEXT PRIMARY KEY,
				owner_id TEXT NOT NULL,
				parent_id TEXT REFERENCES %[1]sfolders(id),
				name TEXT NOT NULL,
				path TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tablePrefix),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS %[1]sfolders_sibling_name_idx
			ON %[1]sfolders (owner_id, parent_id, name)
			WHERE parent_id IS NOT NULL`, tablePrefix),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS %[1]sfolders_root_name_idx
			ON %[1]sfolders (owner_id, name)
			WHERE parent_id IS NULL`, tablePrefix),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %[1]sfolders_parent_idx
			ON %[1]sfolders (owner_id, parent_id)`, tablePrefix),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]sdocuments (
				id TEXT PRIMARY KEY,
				owner_id TEXT NOT NULL,
				folder_id TEXT REFERENCES %[1]sfolders(id),
				file_name TEXT NOT NULL,
				original_file_name TEXT NOT NULL,
				storage_tier TEXT NOT NULL,
				storage_key TEXT NOT NULL DEFAULT '',
				storage_path TEXT NOT NULL DEFAULT '',
				size_bytes BIGINT NOT NULL,
				mime_type TEXT NOT NULL,
				page_count INTEGER,
				status TEXT NOT NULL,
				uploaded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tablePrefix),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS %[1]sdocuments_folder_name_idx
			ON %[1]sdocuments (owner_id, folder_id, file_name)
			WHERE folder_id IS NOT NULL`, tablePrefix),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS %[1]sdocuments_root_name_idx
			ON %[1]sdocuments (owner_id, file_name)
			WHERE folder_id IS NULL`, tablePrefix),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %[1]sdocuments_folder_idx
			ON %[1]sdocuments (owner_id, folder_id)`, tablePrefix),

		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]ssecurity_events (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				action TEXT NOT NULL,
				detail TEXT NOT NULL DEFAULT '',
				ip_address TEXT NOT NULL DEFAULT '',
				user_agent TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tablePrefix),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %[1]ssecurity_events_user_idx
			ON %[1]ssecurity_events (user_id, created_at DESC)`, tablePrefix),

		// Owned by the chat subsystem; provisioned here so local
		// environments have the table the document listing joins against.
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %[1]schat_messages (
				id TEXT PRIMARY KEY,
				document_id TEXT NOT NULL,
				role TEXT NOT NULL,
				content TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tablePrefix),
		fmt.Sprintf(`
			CREATE INDEX IF NOT EXISTS %[1]schat_messages_document_idx
			ON %[1]schat_messages (document_id)`, tablePrefix),
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	return nil
}

func downDocumentHierarchy(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS %schat_messages`, tablePrefix),
		fmt.Sprintf(`DROP TABLE IF EXISTS %ssecurity_events`, tablePrefix),
		fmt.Sprintf(`DROP TABLE IF EXISTS %sdocuments`, tablePrefix),
		fmt.Sprintf(`DROP TABLE IF EXISTS %sfolders`, tablePrefix),
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("drop schema: %w", err)
		}
	}

	return nil
}
