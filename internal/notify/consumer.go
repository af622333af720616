package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/crewforge/backoffice/internal/common/cnst"
	"github.com/crewforge/backoffice/internal/common/config"
)

// Consumer reads messages off the notification stream through a consumer
// group, one at a time, and hands them to the Deliverer. Messages are acked
// after successful delivery (including discards); failed deliveries stay
// pending for redelivery. A redelivered message duplicates the
// notification, there is no deduplication.
type Consumer struct {
	logger    *zap.Logger
	client    redis.UniversalClient
	deliverer *Deliverer
	stream    string
	group     string
	name      string
	block     time.Duration
	minIdle   time.Duration
	lastClaim time.Time
}

// NewConsumer creates a new Consumer from the worker configuration.
func NewConsumer(logger *zap.Logger, client redis.UniversalClient, deliverer *Deliverer, cfg config.ConsumerConfig) *Consumer {
	stream := cfg.Stream
	if stream == "" {
		stream = cnst.NotificationStream
	}
	group := cfg.Group
	if group == "" {
		group = cnst.NotificationGroup
	}
	name := cfg.Name
	if name == "" {
		name = "worker-1"
	}
	block := cfg.Block
	if block <= 0 {
		block = time.Second
	}
	return &Consumer{
		logger:    logger.Named("notify.consumer"),
		client:    client,
		deliverer: deliverer,
		stream:    stream,
		group:     group,
		name:      name,
		block:     block,
		minIdle:   cfg.MinIdle,
	}
}

// Run consumes until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if err := c.ensureGroup(ctx); err != nil {
		return err
	}

	c.logger.Info("notification consumer started",
		zap.String("stream", c.stream),
		zap.String("group", c.group),
		zap.String("consumer", c.name))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			c.claimStale(ctx)
			if err := c.consumeOne(ctx); err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				c.logger.Error("failed to read from stream", zap.Error(err))
			}
		}
	}
}

// ensureGroup creates the consumer group, starting from the beginning of
// the stream so enqueued-but-unserved messages are not lost.
func (c *Consumer) ensureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

// claimStale takes over entries another consumer left pending for longer
// than min_idle, at most once per min_idle interval. Disabled when min_idle
// is zero.
func (c *Consumer) claimStale(ctx context.Context) {
	if c.minIdle <= 0 || time.Since(c.lastClaim) < c.minIdle {
		return
	}
	c.lastClaim = time.Now()

	entries, _, err := c.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   c.stream,
		Group:    c.group,
		Consumer: c.name,
		MinIdle:  c.minIdle,
		Start:    "0",
		Count:    16,
	}).Result()
	if err != nil {
		c.logger.Error("failed to claim stale entries", zap.Error(err))
		return
	}
	for _, entry := range entries {
		c.handle(ctx, entry)
	}
}

func (c *Consumer) consumeOne(ctx context.Context) error {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.name,
		Streams:  []string{c.stream, ">"},
		Count:    1,
		Block:    c.block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	for _, stream := range streams {
		for _, entry := range stream.Messages {
			c.handle(ctx, entry)
		}
	}
	return nil
}

func (c *Consumer) handle(ctx context.Context, entry redis.XMessage) {
	raw, ok := entry.Values["message"]
	if !ok {
		c.logger.Warn("stream entry without message field, acking",
			zap.String("messageID", entry.ID))
		c.ack(ctx, entry.ID)
		return
	}

	var msg Message
	if err := json.Unmarshal([]byte(raw.(string)), &msg); err != nil {
		c.logger.Error("failed to unmarshal notification message, acking",
			zap.String("messageID", entry.ID),
			zap.Error(err))
		c.ack(ctx, entry.ID)
		return
	}

	if err := c.deliverer.Deliver(ctx, &msg); err != nil {
		// Leave the entry pending so the group redelivers it.
		c.logger.Error("delivery failed, leaving message pending",
			zap.String("messageID", entry.ID),
			zap.Uint("userID", msg.UserID),
			zap.Error(err))
		return
	}
	c.ack(ctx, entry.ID)
}

func (c *Consumer) ack(ctx context.Context, id string) {
	if err := c.client.XAck(ctx, c.stream, c.group, id).Err(); err != nil {
		c.logger.Error("failed to ack message", zap.String("messageID", id), zap.Error(err))
	}
}
