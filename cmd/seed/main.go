package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/dazedmind/legalynx-sub004/internal/config"
	"github.com/dazedmind/legalynx-sub004/internal/domain/models"
	"github.com/dazedmind/legalynx-sub004/internal/repository/postgres"
	"github.com/dazedmind/legalynx-sub004/internal/service/pathing"
	"github.com/dazedmind/legalynx-sub004/internal/storage"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	clearData := flag.Bool("clear-data", false, "Clear all documents and folders for the seed user before seeding")
	schemaOnly := flag.Bool("schema-only", false, "Only run migrations, don't seed data")
	flag.Parse()

	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *clearData {
		log.Fatalf("🚫 BLOCKED: Cannot run --clear-data in production environment")
	}

	ownerID := os.Getenv("SEED_USER_ID")
	if ownerID == "" && !*schemaOnly {
		log.Fatal("SEED_USER_ID environment variable is required for seeding")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	// Create database connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// Run migrations so the prefixed tables exist
	log.Println("📋 Ensuring database schema is up to date...")
	if err := postgres.RunMigrations(ctx, cfg.DatabaseURL, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("✅ Schema ready")

	if *schemaOnly {
		log.Println("✅ Schema setup complete (schema-only mode)")
		return
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *clearData {
		log.Println("🧹 Clearing existing documents and folders...")
		if err := clearOwnerData(ctx, pool, tables, ownerID); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("✅ Data cleared")
	}

	// Create repositories and the filesystem tier for document bytes
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	files := storage.NewFilesystemStore(cfg.StorageRoot, nil)
	resolver := storage.NewResolver(nil, files, cfg.StorageTimeout, logger)

	// Seed the folder tree
	log.Println("📁 Seeding folder tree...")
	folderIDs := map[string]string{}
	for _, f := range seedFolders() {
		folder := &models.Folder{
			ID:      uuid.NewString(),
			OwnerID: ownerID,
			Name:    f.name,
		}
		if f.parent == "" {
			folder.Path = pathing.ChildPath("", f.name)
		} else {
			parentID := folderIDs[f.parent]
			folder.ParentID = &parentID
			folder.Path = pathing.ChildPath(f.parent, f.name)
		}
		if err := folderRepo.Create(ctx, folder); err != nil {
			log.Printf("❌ Failed to create folder %q: %v", folder.Path, err)
			continue
		}
		folderIDs[folder.Path] = folder.ID
		log.Printf("✅ Created folder %s", folder.Path)
	}

	// Seed documents: store sample bytes, then the metadata row
	log.Println("📝 Seeding documents...")
	for i, d := range seedDocuments() {
		ref, err := resolver.Store(ctx, []byte(d.content), d.fileName, ownerID, "documents")
		if err != nil {
			log.Printf("❌ Failed to store bytes for %q: %v", d.fileName, err)
			continue
		}
		doc := &models.Document{
			ID:               uuid.NewString(),
			OwnerID:          ownerID,
			FileName:         d.fileName,
			OriginalFileName: d.fileName,
			StorageRef:       ref,
			SizeBytes:        int64(len(d.content)),
			MimeType:         "text/plain",
			Status:           models.StatusUploaded,
		}
		if d.folder != "" {
			folderID, ok := folderIDs[d.folder]
			if !ok {
				log.Printf("❌ Unknown folder %q for document %q", d.folder, d.fileName)
				continue
			}
			doc.FolderID = &folderID
		}
		if err := docRepo.Create(ctx, doc); err != nil {
			log.Printf("❌ Failed to create document %q: %v", d.fileName, err)
			continue
		}
		log.Printf("✅ Created document %d: %s (ID: %s)", i+1, d.fileName, doc.ID)
	}

	log.Println("🎉 Seeding complete!")
}

// clearOwnerData removes all documents and folders owned by the seed user.
// Folder rows cascade to children via the parent foreign key.
func clearOwnerData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, ownerID string) error {
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Documents+" WHERE owner_id = $1", ownerID); err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, "DELETE FROM "+tables.Folders+" WHERE owner_id = $1", ownerID); err != nil {
		return err
	}
	return nil
}

type seedFolder struct {
	parent string // parent path, "" for root
	name   string
}

// seedFolders is ordered parent-before-child so referenced parents exist.
func seedFolders() []seedFolder {
	return []seedFolder{
		{parent: "", name: "Contracts"},
		{parent: "Contracts", name: "2024"},
		{parent: "Contracts/2024", name: "Q3"},
		{parent: "", name: "Case Files"},
		{parent: "Case Files", name: "Dela Cruz v. Santos"},
		{parent: "", name: "Templates"},
	}
}

type seedDoc struct {
	folder   string // folder path, "" for root
	fileName string
	content  string
}

func seedDocuments() []seedDoc {
	return []seedDoc{
		{
			folder:   "Contracts/2024/Q3",
			fileName: "lease-agreement.txt",
			content:  "LEASE AGREEMENT\n\nThis lease agreement is entered into between the lessor and the lessee for the property located at 12 Mabini Street. The term is twelve months beginning on the first day of the month following execution.\n",
		},
		{
			folder:   "Contracts/2024/Q3",
			fileName: "nda-acme.txt",
			content:  "NON-DISCLOSURE AGREEMENT\n\nThe receiving party agrees to hold all confidential information in strict confidence and to use it solely for the purpose of evaluating the proposed transaction.\n",
		},
		{
			folder:   "Case Files/Dela Cruz v. Santos",
			fileName: "complaint.txt",
			content:  "COMPLAINT\n\nPlaintiff respectfully alleges that defendant breached the contract of sale dated 3 March 2024 by failing to deliver the goods described in Annex A.\n",
		},
		{
			folder:   "Templates",
			fileName: "retainer-template.txt",
			content:  "RETAINER AGREEMENT TEMPLATE\n\nThis agreement sets out the scope of legal services, the retainer fee, and billing arrangements between the firm and the client.\n",
		},
		{
			folder:   "",
			fileName: "notes.txt",
			content:  "Quick notes: follow up on the Santos filing deadline and the Q3 lease renewals.\n",
		},
	}
}
