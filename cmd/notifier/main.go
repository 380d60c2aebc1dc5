package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/reseau-local/reseau/internal/db"
	"github.com/reseau-local/reseau/internal/events"
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
	logger.Info("Starting Reseau Notifier")

	if !cfg.Kafka.Enabled {
		logger.Fatal("Notifier requires Kafka brokers, set RESEAU_KAFKA_BROKERS")
	}

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	handler := notify.NewHandler(db.NewNotifyStore(db.NewRepository(database.DB)))
	consumer := events.NewConsumer(&cfg.Kafka, handler.Handle)

	logger.Info("Notifier initialized",
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", cfg.Kafka.GroupID))

	if err := consumer.Run(ctx); err != nil {
		logger.Error("Consumer stopped", zap.Error(err))
	}

	logger.Info("Notifier exited")
}
