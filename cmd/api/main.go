package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"notestand/docs"
	"notestand/internal/config"
	"notestand/internal/database"
	"notestand/internal/database/migration"
	"notestand/internal/dbx"
	handlers "notestand/internal/http/handler"
	"notestand/internal/http/middleware"
	"notestand/internal/identity"
	"notestand/internal/logging"
	"notestand/internal/otel"
	"notestand/internal/render"
	"notestand/internal/repository/postgres"
	"notestand/internal/service"
	"notestand/internal/storage"
)

// @title Notestand API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Initialize OTLP tracing (no-op when disabled or unreachable)
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Repositories and services
	txRunner := dbx.NewRunner(db)
	accountRepo := postgres.NewAccountPostgres()
	docRepo := postgres.NewDocumentPostgres()
	grantRepo := postgres.NewGrantPostgres()
	likeRepo := postgres.NewLikePostgres()

	renderer := render.NewRegistry(cfg.Brand, logger.Named("render"))

	svcs := handlers.Services{
		Documents: service.NewDocumentService(db, objStore, docRepo),
		Delivery:  service.NewDeliveryService(db, docRepo, grantRepo, objStore, renderer, logger.Named("delivery")),
		Unlock:    service.NewUnlockService(db, txRunner, accountRepo, docRepo, grantRepo),
		Likes:     service.NewLikeService(txRunner, accountRepo, docRepo, likeRepo, logger.Named("likes")),
		Ledger:    service.NewLedgerService(db, txRunner, accountRepo),
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	// Viewer middleware resolves the calling identity (or guest sentinel)
	app.Use(middleware.Viewer(identity.NewResolver(cfg.Auth.JWTSecret)))

	// Prometheus request counter + /metrics endpoint
	promRegistry := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(promRegistry)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, db, svcs)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	logger.Info("starting server", zap.String("addr", addr), zap.String("brand", cfg.Brand))

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
