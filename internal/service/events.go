package service

import (
	"context"

	"github.com/orda-service/internal/events"
	"github.com/orda-service/internal/logger"
	"go.uber.org/zap"
)

const (
	OrderCreatedChannel       = "order.created"
	OrderUpdatedChannel       = "order.updated"
	OrderStatusChangedChannel = "order.status_changed"
	OrderDeletedChannel       = "order.deleted"

	CustomerCreatedChannel = "customer.created"
	CustomerUpdatedChannel = "customer.updated"
	CustomerDeletedChannel = "customer.deleted"

	ItemCreatedChannel = "item.created"
	ItemUpdatedChannel = "item.updated"
	ItemDeletedChannel = "item.deleted"

	KeyGeneratedChannel = "key.generated"
)

// publish emits a change event. Failures are logged and never fail the
// request that caused them.
func publish(ctx context.Context, p events.Publisher, channel, id string, message interface{}) {
	if p == nil {
		return
	}

	log := logger.FromContext(ctx)
	if err := p.Publish(ctx, channel, message); err != nil {
		log.Error("failed to publish event", zap.String("channel", channel), zap.String("id", id), zap.Error(err))
		return
	}
	log.Info("event published", zap.String("channel", channel), zap.String("id", id))
}
