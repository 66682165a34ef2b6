package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dazedmind/legalynx-sub004/internal/repository/postgres/migrations"
)

// RunMigrations applies the embedded goose migrations against the database.
// It opens a short-lived database/sql connection because goose drives
// *sql.DB, while the rest of the repository layer stays on pgx pools.
func RunMigrations(ctx context.Context, databaseURL, tablePrefix string) error {
	migrations.SetTablePrefix(tablePrefix)

	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetTableName(tablePrefix + "goose_db_version")

	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
