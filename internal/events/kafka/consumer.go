package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/mmynk/partio/internal/events"
)

// Handler processes one event.
type Handler func(ctx context.Context, e events.Event) error

// messageReader is the part of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads events from a topic as part of a consumer group.
type Consumer struct {
	reader messageReader
}

// NewConsumer returns a consumer of topic in group groupID.
func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
	}
}

// Consume hands every event to handler until ctx is done. Offsets are
// committed after the handler returns, also on failure: the worker's periodic
// sync picks up whatever a failed event missed.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	slog.InfoContext(ctx, "Started consuming kafka events")
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("fetch kafka message: %w", err)
		}

		e, err := events.FromJSON(msg.Value)
		switch {
		case err != nil:
			slog.ErrorContext(ctx, "Dropping malformed event",
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", err)
		default:
			if err := handler(ctx, e); err != nil {
				slog.ErrorContext(ctx, "Event handler failed",
					"type", e.Type,
					"revision", e.Revision,
					"error", err)
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			return fmt.Errorf("commit kafka message: %w", err)
		}
	}
}

// Close closes the reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}
