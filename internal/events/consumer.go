package events

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Handler receives one event. payload is the JSON document as published.
type Handler func(channel, payload string)

// Consumer follows Redis pub/sub events; the CLI uses it to tail the change
// stream of a running service.
type Consumer struct {
	client *redis.Client
}

func NewConsumer(client *redis.Client) *Consumer {
	return &Consumer{client: client}
}

// Subscribe blocks, delivering events whose channel matches any of the glob
// patterns, until ctx is cancelled.
func (c *Consumer) Subscribe(ctx context.Context, handle Handler, patterns ...string) error {
	sub := c.client.PSubscribe(ctx, patterns...)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			handle(msg.Channel, msg.Payload)
		}
	}
}
