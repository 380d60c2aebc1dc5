package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/reseau-local/reseau/pkg/config"
	"github.com/reseau-local/reseau/pkg/logging"
)

// Publisher sends activity events
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NewPublisher returns a Kafka publisher, or a no-op one when Kafka is disabled
func NewPublisher(cfg *config.KafkaConfig) Publisher {
	if !cfg.Enabled {
		logging.GetLogger().Info("Kafka disabled, activity events will not be published")
		return NopPublisher{}
	}
	return NewKafkaPublisher(cfg.Brokers, cfg.Topic)
}

// KafkaPublisher writes events to a topic, keyed by recipient so one
// recipient's events stay ordered within a partition.
type KafkaPublisher struct {
	writer *kafka.Writer
	logger *zap.Logger
}

// NewKafkaPublisher creates a publisher for topic
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		logger: logging.WithComponent("event-publisher"),
	}
}

// Publish writes one event
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := e.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.RecipientID),
		Value: value,
	}); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	p.logger.Debug("Published event", zap.String("event_id", e.ID), zap.String("type", string(e.Type)))
	return nil
}

// Close flushes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NopPublisher drops every event
type NopPublisher struct{}

// Publish implements Publisher
func (NopPublisher) Publish(ctx context.Context, e Event) error { return nil }

// Close implements Publisher
func (NopPublisher) Close() error { return nil }

// Handler processes one decoded event
type Handler func(ctx context.Context, e Event) error

// messageReader is the part of *kafka.Reader the consumer drives
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Config() kafka.ReaderConfig
	Close() error
}

const (
	minRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff = 30 * time.Second
)

// Consumer reads events from the activity topic as part of a consumer group
type Consumer struct {
	reader     messageReader
	handle     Handler
	logger     *zap.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewConsumer creates a consumer for cfg's topic and group
func NewConsumer(cfg *config.KafkaConfig, h Handler) *Consumer {
	return newConsumer(kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers,
		GroupID:        cfg.GroupID,
		Topic:          cfg.Topic,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
	}), h)
}

func newConsumer(r messageReader, h Handler) *Consumer {
	return &Consumer{
		reader:     r,
		handle:     h,
		logger:     logging.WithComponent("event-consumer"),
		minBackoff: minRetryBackoff,
		maxBackoff: maxRetryBackoff,
	}
}

// Run consumes until ctx is cancelled. Malformed events are logged and
// committed. A failing handler is retried with backoff and its offset is
// only committed once it succeeds, so a message is never acknowledged
// before its notification is stored.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		_ = c.reader.Close()
	}()

	cfg := c.reader.Config()
	c.logger.Info("Consumer started",
		zap.String("group", cfg.GroupID),
		zap.String("topic", cfg.Topic),
		zap.Strings("brokers", cfg.Brokers))

	for {
		m, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("Consumer shutting down")
				return nil
			}
			c.logger.Error("Fetch failed", zap.Error(err))
			if !sleep(ctx, time.Second) {
				return nil
			}
			continue
		}

		e, err := Decode(m.Value)
		if err != nil {
			c.logger.Warn("Skipping malformed event",
				zap.Int("partition", m.Partition),
				zap.Int64("offset", m.Offset),
				zap.Error(err))
		} else if !c.handleWithRetry(ctx, e) {
			c.logger.Info("Consumer shutting down, event left uncommitted", zap.String("event_id", e.ID))
			return nil
		}

		if err := c.reader.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			c.logger.Error("Commit failed", zap.Error(err))
		}
	}
}

// handleWithRetry runs the handler until it succeeds. It reports false when
// ctx ends first.
func (c *Consumer) handleWithRetry(ctx context.Context, e Event) bool {
	backoff := c.minBackoff
	for attempt := 1; ; attempt++ {
		err := c.handle(ctx, e)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		c.logger.Error("Handler failed, retrying",
			zap.String("event_id", e.ID),
			zap.String("type", string(e.Type)),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))
		if !sleep(ctx, backoff) {
			return false
		}
		if backoff *= 2; backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
