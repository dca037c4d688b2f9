// Package bootstrap builds the application dependency graph from config.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"ats-checker/internal/accounts"
	"ats-checker/internal/authclient"
	"ats-checker/internal/extractor"
	"ats-checker/internal/gibson"
	"ats-checker/internal/llm"
	"ats-checker/internal/reports"
	"ats-checker/internal/shared/config"
	"ats-checker/internal/shared/server"
	"ats-checker/internal/shared/storage/db"
	"ats-checker/internal/shared/storage/object"
	localstore "ats-checker/internal/shared/storage/object/local"
	s3store "ats-checker/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Auth            *authclient.Client
	Store           reports.Store
	Archive         object.Store
	ReportsService  *reports.Service
	ReportsHandler  *reports.Handler
	AccountsHandler *accounts.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(cfg, sqlDB)
	if err != nil {
		return nil, err
	}

	archive, err := buildArchive(ctx, cfg)
	if err != nil {
		return nil, err
	}

	auth := authclient.New(cfg.AuthBaseURL)

	var extractorClient *extractor.Client
	if strings.TrimSpace(cfg.ExtractorBaseURL) != "" {
		extractorClient = extractor.New(cfg.ExtractorBaseURL)
	}

	reportsSvc := &reports.Service{
		Store: store,
		LLM: llm.NewHTTPClient(llm.Config{
			BaseURL:    cfg.ModelBaseURL,
			Model:      cfg.ModelName,
			Token:      cfg.ModelToken,
			RetryDelay: cfg.ModelRetryDelay,
		}),
		Extractor: extractorClient,
		Archive:   archive,
	}

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		Auth:            auth,
		Store:           store,
		Archive:         archive,
		ReportsService:  reportsSvc,
		ReportsHandler:  reports.NewHandler(reportsSvc),
		AccountsHandler: accounts.NewHandler(auth),
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Auth:            auth,
		AccountsHandler: app.AccountsHandler,
		ReportsHandler:  app.ReportsHandler,
	})
	return app, nil
}

// buildStore prefers self-hosted Postgres, then the hosted data API, then memory.
func buildStore(cfg config.Config, sqlDB *sql.DB) (reports.Store, error) {
	if sqlDB != nil {
		return &reports.PGStore{DB: sqlDB}, nil
	}
	gibsonClient := gibson.New(cfg.GibsonBaseURL, cfg.GibsonAPIKey)
	if gibsonClient.Configured() {
		return &reports.GibsonStore{Client: gibsonClient}, nil
	}
	if !isDevLike(cfg.Env) {
		return nil, fmt.Errorf("no report store configured: set GIBSON_API_KEY or DATABASE_URL")
	}
	log.Printf("bootstrap: no store configured; using in-memory reports")
	return reports.NewMemoryStore(), nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, nil
	}
	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; continuing without Postgres: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildArchive(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	case "local":
		return localstore.New(cfg.LocalStoreDir)
	default:
		// No archive; uploads are extracted and discarded.
		return nil, nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
