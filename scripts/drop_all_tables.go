package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	// Read environment to determine table prefix
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev" // Default to dev
	}

	if env == "prod" {
		log.Fatal("Refusing to drop production tables")
	}
	prefix := env + "_"

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	// Drop all tables with environment-specific prefix
	dropSQL := fmt.Sprintf(`
		DROP TABLE IF EXISTS %[1]schat_messages CASCADE;
		DROP TABLE IF EXISTS %[1]sdocuments CASCADE;
		DROP TABLE IF EXISTS %[1]sfolders CASCADE;
		DROP TABLE IF EXISTS %[1]ssecurity_events CASCADE;
		DROP TABLE IF EXISTS %[1]sgoose_db_version CASCADE;
	`, prefix)

	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("All tables dropped successfully (prefix: %s)\n", prefix)
}
