package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/crewforge/backoffice/internal/common/cnst"
)

// Queue enqueues notification messages for asynchronous delivery.
type Queue interface {
	Enqueue(ctx context.Context, msg *Message) error
}

// RedisQueue implements Queue on a Redis stream.
type RedisQueue struct {
	logger *zap.Logger
	client redis.UniversalClient
	stream string
}

// NewRedisQueue creates a queue on the given stream; an empty stream name
// falls back to the default.
func NewRedisQueue(logger *zap.Logger, client redis.UniversalClient, stream string) *RedisQueue {
	if stream == "" {
		stream = cnst.NotificationStream
	}
	return &RedisQueue{
		logger: logger.Named("notify.queue"),
		client: client,
		stream: stream,
	}
}

// Enqueue appends the message to the stream.
func (q *RedisQueue) Enqueue(ctx context.Context, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification message: %w", err)
	}

	id, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]interface{}{
			"message": string(data),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("failed to add message to stream: %w", err)
	}

	q.logger.Debug("notification enqueued",
		zap.String("messageID", id),
		zap.Uint("userID", msg.UserID),
		zap.String("type", msg.Type))
	return nil
}
