package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/mmynk/partio/internal/app"
	"github.com/mmynk/partio/internal/config"
	"github.com/mmynk/partio/internal/events/amqp"
	"github.com/mmynk/partio/internal/events/kafka"
	"github.com/mmynk/partio/internal/worker"
	"github.com/mmynk/partio/pkg/logging"
)

const kafkaGroupID = "partio-sync-worker"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.SheetsEnabled() {
		slog.Error("GOOGLE_SPREADSHEET_ID is required for the sync worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Sync worker failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Sync worker stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	store, err := app.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	sheet, err := app.OpenSheet(ctx, cfg)
	if err != nil {
		return err
	}

	w := worker.NewSyncWorker(store, cfg.LedgerKey, sheet, cfg.SyncInterval)
	slog.Info("Sync worker starting",
		"storage", cfg.StorageBackend,
		"events", cfg.EventsBackend,
		"interval", cfg.SyncInterval)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return w.Run(ctx) })

	switch cfg.EventsBackend {
	case config.EventsAMQP:
		g.Go(func() error {
			return amqp.ConsumeWithRetry(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, w.HandleEvent)
		})
	case config.EventsKafka:
		consumer := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, kafkaGroupID)
		defer consumer.Close()
		g.Go(func() error { return consumer.Consume(ctx, w.HandleEvent) })
	default:
		slog.Info("No events backend, syncing on the interval only")
	}

	return g.Wait()
}
