package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Publisher fans a persisted notification out on the user's real-time
// channel.
type Publisher interface {
	Publish(ctx context.Context, userID uint, payload *PushPayload) error
}

// RedisPublisher implements Publisher over Redis pub/sub.
type RedisPublisher struct {
	logger *zap.Logger
	client redis.UniversalClient
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(logger *zap.Logger, client redis.UniversalClient) *RedisPublisher {
	return &RedisPublisher{
		logger: logger.Named("notify.publisher"),
		client: client,
	}
}

// Publish sends the payload on the per-user channel.
func (p *RedisPublisher) Publish(ctx context.Context, userID uint, payload *PushPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}
	channel := UserChannel(userID)
	if err := p.client.Publish(ctx, channel, string(data)).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	p.logger.Debug("push published", zap.String("channel", channel))
	return nil
}
