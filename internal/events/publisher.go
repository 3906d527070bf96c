package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Publisher delivers change events such as "order.created". Implementations
// serialize message as JSON.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Close() error
}

// RedisPublisher sends each event on the Redis pub/sub channel of the same
// name. Delivery is fire-and-forget: subscribers that are not connected miss
// the event.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %w", err)
	}
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

// Close closes the underlying client, which the publisher owns.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
