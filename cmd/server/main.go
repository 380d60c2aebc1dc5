package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/reseau-local/reseau/internal/activity"
	"github.com/reseau-local/reseau/internal/api"
	"github.com/reseau-local/reseau/internal/cache"
	"github.com/reseau-local/reseau/internal/db"
	"github.com/reseau-local/reseau/internal/docstore"
	"github.com/reseau-local/reseau/internal/events"
	"github.com/reseau-local/reseau/internal/feed"
	"github.com/reseau-local/reseau/internal/notify"
	"github.com/reseau-local/reseau/pkg/config"
	"github.com/reseau-local/reseau/pkg/logging"
	"github.com/reseau-local/reseau/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Reseau API Server", zap.String("feed_source", cfg.Feed.Source))

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry.ServeMetrics(ctx, &cfg.Telemetry)

	// Primary store, also serves the write side
	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}
	repo := db.NewRepository(database.DB)

	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	checks := map[string]api.HealthCheck{
		"postgres": database.Health,
	}
	if redisCache != nil {
		checks["redis"] = redisCache.Health
	}

	// Feed sources
	warnSplitFeedSource(logger, cfg)
	var sources feed.Sources
	switch cfg.Feed.Source {
	case config.SourceMongo:
		mongoSource, err := docstore.Connect(ctx, &cfg.Mongo)
		if err != nil {
			logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
		}
		defer mongoSource.Close(context.Background())
		checks["mongo"] = mongoSource.Health
		sources = mongoSource.Sources()
	default:
		sources = db.NewFeedSource(repo).Sources()
	}

	relationships := cache.NewRelationships(sources.Relationships, redisCache, cfg.Redis.RelationshipTTL)
	sources.Relationships = relationships

	ranker := feed.NewRanker(sources, feed.Options{
		MaxConcurrency: cfg.Feed.MaxConcurrency,
		LookupTimeout:  cfg.Feed.LookupTimeout,
		MaxPageSize:    cfg.Feed.MaxPageSize,
		RecencyWeight:  cfg.Feed.RecencyWeight,
	})

	publisher := events.NewPublisher(&cfg.Kafka)
	defer publisher.Close()

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("No JWT secret configured, every request will be anonymous")
	}

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	api.NewRouter(api.Deps{
		Feed:            ranker,
		Activity:        activity.NewService(db.NewActivityStore(repo), publisher, relationships),
		Notifications:   notify.NewService(db.NewNotifyStore(repo)),
		Checks:          checks,
		JWTSecret:       cfg.Auth.JWTSecret,
		DefaultPageSize: cfg.Feed.DefaultPageSize,
	}).SetupRoutes(engine)

	// Create HTTP server
	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// warnSplitFeedSource flags configurations where the ranker reads from a
// store this service never writes to.
func warnSplitFeedSource(logger *zap.Logger, cfg *config.Config) {
	if cfg.Feed.Source != config.SourceMongo {
		return
	}
	logger.Warn("Feed reads from MongoDB but follows, views and likes are written to Postgres; "+
		"the feed will not reflect this service's own writes unless MongoDB is synced by another writer",
		zap.String("mongo_database", cfg.Mongo.Database))
}
