// Command fitscoped is the Fitscope platform service.
// It serves the scoring and integration-graph API, the automation webhook
// endpoint, and a health check.
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/fitscope/fitscope/internal/api"
	"github.com/fitscope/fitscope/internal/archive"
	"github.com/fitscope/fitscope/internal/catalog"
	"github.com/fitscope/fitscope/internal/platform"
	"github.com/fitscope/fitscope/internal/tenant"
	"github.com/fitscope/fitscope/internal/webhook"
	"github.com/fitscope/fitscope/pkg/config"
	"github.com/fitscope/fitscope/pkg/scoring"
)

type serverConfig struct {
	Port          string
	DatabaseURL   string
	ConfigFile    string
	CatalogDir    string
	WebhookSecret string
	GCSBucket     string
	S3Bucket      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string
	LocalDir      string
}

func loadServerConfig() serverConfig {
	return serverConfig{
		Port:          envOrDefault("PORT", "8080"),
		DatabaseURL:   envOrDefault("DATABASE_URL", "postgres://localhost:5432/fitscope?sslmode=disable"),
		ConfigFile:    os.Getenv("FITSCOPE_CONFIG"),
		CatalogDir:    os.Getenv("CATALOG_DIR"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		GCSBucket:     os.Getenv("GCS_BUCKET"),
		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      envOrDefault("S3_REGION", "us-east-1"),
		S3Endpoint:    os.Getenv("S3_ENDPOINT"),
		S3AccessKey:   os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:   os.Getenv("S3_SECRET_KEY"),
		LocalDir:      envOrDefault("LOCAL_STORAGE_PATH", "/tmp/fitscope-data"),
	}
}

func main() {
	srvCfg := loadServerConfig()

	cfg, err := config.Load(srvCfg.ConfigFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := sql.Open("postgres", srvCfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if err := platform.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tenantSvc := tenant.NewService(db)

	if srvCfg.CatalogDir != "" {
		cat, err := catalog.Load(srvCfg.CatalogDir)
		if err != nil {
			log.Fatalf("load catalog %s: %v", srvCfg.CatalogDir, err)
		}
		if err := catalog.Seed(ctx, tenantSvc, cat); err != nil {
			log.Fatalf("seed catalog: %v", err)
		}
		log.Printf("seeded catalog from %s (%d apps, %d systems)", srvCfg.CatalogDir, len(cat.Apps), len(cat.Systems))
	}

	storage, err := newStorage(ctx, srvCfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}

	gw := tenant.NewGateway(db)
	engine := scoring.NewEngineWithConfig(gw, cfg.Weights(), cfg.Checklist()).
		WithMatrixConcurrency(cfg.Matrix.Concurrency)

	handler := api.NewHandler(gw, engine, tenantSvc, storage, nil)
	apiMux := http.NewServeMux()
	handler.RegisterRoutes(apiMux)

	// API keys gate the API only; the webhook is HMAC-verified and the
	// health probe must stay open for orchestrators.
	mux := http.NewServeMux()
	mux.Handle("/api/", api.APIKeyAuth(cfg.Server.APIKeys)(apiMux))
	mux.Handle("GET /healthz", apiMux)
	mux.Handle("POST /webhooks/automation", webhook.NewHandler([]byte(srvCfg.WebhookSecret), tenantSvc))

	root := api.CORS(mux)

	srv := &http.Server{
		Addr:    ":" + srvCfg.Port,
		Handler: root,
	}

	go func() {
		log.Printf("starting fitscoped on :%s", srvCfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func newStorage(ctx context.Context, cfg serverConfig) (archive.StorageClient, error) {
	switch {
	case cfg.GCSBucket != "":
		return archive.NewGCSStorage(ctx, cfg.GCSBucket)
	case cfg.S3Bucket != "":
		return archive.NewS3Storage(ctx, archive.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return archive.NewLocalStorage(cfg.LocalDir), nil
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
