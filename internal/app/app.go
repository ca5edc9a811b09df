// Package app builds the backends named in the configuration. Both binaries
// share it so they always agree on where the ledger lives.
package app

import (
	"context"
	"fmt"

	goption "google.golang.org/api/option"

	"github.com/mmynk/partio/internal/config"
	"github.com/mmynk/partio/internal/events"
	"github.com/mmynk/partio/internal/events/amqp"
	"github.com/mmynk/partio/internal/events/kafka"
	"github.com/mmynk/partio/internal/sheets/google"
	"github.com/mmynk/partio/internal/storage"
	"github.com/mmynk/partio/internal/storage/memory"
	"github.com/mmynk/partio/internal/storage/postgres"
	"github.com/mmynk/partio/internal/storage/redis"
	"github.com/mmynk/partio/internal/storage/sqlite"
)

// OpenStore connects the configured storage backend.
func OpenStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	var (
		store storage.Store
		err   error
	)
	switch cfg.StorageBackend {
	case config.StorageMemory:
		store = memory.New()
	case config.StorageSQLite:
		store, err = sqlite.New(cfg.SQLitePath)
	case config.StoragePostgres:
		store, err = postgres.New(ctx, cfg.PostgresDSN)
	case config.StorageRedis:
		store, err = redis.New(ctx, cfg.RedisAddr, cfg.RedisPrefix)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.StorageBackend, err)
	}
	return store, nil
}

// OpenPublisher connects the configured event backend. With events disabled
// it returns events.Nop.
func OpenPublisher(cfg *config.Config) (events.Publisher, error) {
	switch cfg.EventsBackend {
	case config.EventsNone, "":
		return events.Nop{}, nil
	case config.EventsAMQP:
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to AMQP: %w", err)
		}
		return client, nil
	case config.EventsKafka:
		return kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.EventsBackend)
	}
}

// OpenSheet connects to the configured spreadsheet with service account
// credentials.
func OpenSheet(ctx context.Context, cfg *config.Config) (*google.Client, error) {
	creds, err := google.Credentials(cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
	if err != nil {
		return nil, err
	}
	return google.New(ctx, cfg.GoogleSpreadsheetID, goption.WithCredentialsJSON(creds))
}
