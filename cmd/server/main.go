package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dazedmind/legalynx-sub004/internal/audit"
	"github.com/dazedmind/legalynx-sub004/internal/auth"
	"github.com/dazedmind/legalynx-sub004/internal/cache"
	"github.com/dazedmind/legalynx-sub004/internal/config"
	"github.com/dazedmind/legalynx-sub004/internal/domain/services"
	"github.com/dazedmind/legalynx-sub004/internal/handler"
	"github.com/dazedmind/legalynx-sub004/internal/middleware"
	"github.com/dazedmind/legalynx-sub004/internal/repository/postgres"
	"github.com/dazedmind/legalynx-sub004/internal/service"
	"github.com/dazedmind/legalynx-sub004/internal/service/naming"
	"github.com/dazedmind/legalynx-sub004/internal/service/pathing"
	"github.com/dazedmind/legalynx-sub004/internal/storage"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	var logOut io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.MaxLogFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOut = io.MultiWriter(os.Stdout, logFile)
	}

	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.JWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Run schema migrations against the prefixed tables
	if err := postgres.RunMigrations(ctx, cfg.DatabaseURL, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	auditRepo := postgres.NewAuditRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Document metadata cache (no-op when Redis is not configured)
	docCache := cache.NewNoopCache()
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		docCache = cache.NewDocumentCache(redisClient, cfg.CacheTTL)
		logger.Info("redis cache enabled", "addr", cfg.RedisAddr)
	}

	// Storage tiers: S3-compatible object store, then local filesystem
	var objectStore services.ObjectStore
	if cfg.S3AccessKey != "" {
		objectStore, err = storage.NewS3ObjectStore(ctx, storage.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("Failed to create object store: %v", err)
		}
		logger.Info("object store enabled", "bucket", cfg.S3Bucket)
	}
	files := storage.NewFilesystemStore(cfg.StorageRoot, cfg.LegacyStorageDirs)
	resolver := storage.NewResolver(objectStore, files, cfg.StorageTimeout, logger)

	// External naming collaborator (best-effort, optional)
	var namingSvc services.NamingService
	if cfg.NamingServiceURL != "" {
		namingSvc = naming.NewClientWithTimeout(cfg.NamingServiceURL, cfg.NamingServiceTimeout)
		logger.Info("intelligent naming enabled", "url", cfg.NamingServiceURL)
	}

	auditRecorder := audit.NewRecorder(auditRepo, logger)
	paths := pathing.NewMaterializer(folderRepo)

	// Create services
	folderService := service.NewFolderService(folderRepo, docRepo, txManager, paths, resolver, docCache, auditRecorder, logger)
	docService := service.NewDocumentService(docRepo, folderRepo, txManager, resolver, docCache, auditRecorder, logger)
	uploadService := service.NewUploadService(docRepo, folderRepo, txManager, resolver, namingSvc, docCache, auditRecorder, logger)

	// Create handlers
	folderHandler := handler.NewFolderHandler(folderService, logger)
	docHandler := handler.NewDocumentHandler(docService, uploadService, folderService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Folder routes
	mux.HandleFunc("POST /api/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/folders", folderHandler.ListRoot)
	mux.HandleFunc("GET /api/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/folders/{id}", folderHandler.DeleteFolder)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("POST /api/documents/move", docHandler.MoveDocuments) // Must come before {id} route
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("GET /api/documents/{id}/content", docHandler.GetContent)
	mux.HandleFunc("PATCH /api/documents/{id}", docHandler.UpdateDocument)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.AuthMiddleware(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
