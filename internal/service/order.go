package service

import (
	"context"

	"github.com/orda-service/internal/events"
	"github.com/orda-service/internal/ident"
	"github.com/orda-service/internal/logger"
	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/repo"
	"go.uber.org/zap"
)

type OrderService struct {
	orders    repo.Collection
	newID     ident.Generator
	publisher events.Publisher
}

func NewOrderService(orders repo.Collection, newID ident.Generator, publisher events.Publisher) *OrderService {
	if newID == nil {
		newID = ident.New
	}
	return &OrderService{orders: orders, newID: newID, publisher: publisher}
}

type OrderItemRequest struct {
	ItemID   *string  `json:"item_id" validate:"required"`
	Name     *string  `json:"name"`
	Quantity *int     `json:"quantity" validate:"required"`
	Price    *float64 `json:"price" validate:"required"`
}

type CreateOrderRequest struct {
	CustomerID *string            `json:"customer_id" validate:"required"`
	Items      []OrderItemRequest `json:"items" validate:"required,dive"`
	Total      *float64           `json:"total" validate:"required"`
	Date       *string            `json:"date" validate:"required"`
	Status     *string            `json:"status" validate:"required"`
}

// UpdateOrderRequest is a partial update; nil fields are left untouched.
type UpdateOrderRequest struct {
	CustomerID *string            `json:"customer_id"`
	Items      []OrderItemRequest `json:"items" validate:"omitempty,dive"`
	Total      *float64           `json:"total"`
	Date       *string            `json:"date"`
	Status     *string            `json:"status"`
}

type UpdateStatusRequest struct {
	Status *string `json:"status" validate:"required"`
}

func (r UpdateOrderRequest) fields() map[string]any {
	f := make(map[string]any)
	if r.CustomerID != nil {
		f["customer_id"] = *r.CustomerID
	}
	if r.Items != nil {
		f["items"] = orderItems(r.Items)
	}
	if r.Total != nil {
		f["total"] = *r.Total
	}
	if r.Date != nil {
		f["date"] = *r.Date
	}
	if r.Status != nil {
		f["status"] = *r.Status
	}
	return f
}

func orderItems(reqs []OrderItemRequest) []model.OrderItem {
	items := make([]model.OrderItem, len(reqs))
	for i, r := range reqs {
		items[i] = model.OrderItem{
			ItemID:   deref(r.ItemID),
			Name:     deref(r.Name),
			Quantity: deref(r.Quantity),
			Price:    deref(r.Price),
		}
	}
	return items
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*model.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderID:    s.newID(),
		CustomerID: *req.CustomerID,
		Items:      orderItems(req.Items),
		Total:      *req.Total,
		Date:       *req.Date,
		Status:     *req.Status,
	}

	if err := s.orders.Insert(ctx, order.OrderID, order); err != nil {
		logStoreError(ctx, "store: failed to create order", err, zap.String("order_id", order.OrderID))
		return nil, err
	}

	publish(ctx, s.publisher, OrderCreatedChannel, order.OrderID, order)
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := s.orders.FindOne(ctx, id, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *OrderService) GetOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := s.orders.FindAll(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *OrderService) UpdateOrder(ctx context.Context, id string, req UpdateOrderRequest) (*model.Order, error) {
	fields := req.fields()
	if len(fields) == 0 {
		return nil, errNoData
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var order model.Order
	if err := s.orders.Set(ctx, id, fields, &order); err != nil {
		logStoreError(ctx, "store: failed to update order", err, zap.String("order_id", id))
		return nil, err
	}

	publish(ctx, s.publisher, OrderUpdatedChannel, id, &order)
	return &order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		logStoreError(ctx, "store: failed to delete order", err, zap.String("order_id", id))
		return err
	}

	publish(ctx, s.publisher, OrderDeletedChannel, id, map[string]string{"order_id": id})
	return nil
}

func (s *OrderService) GetOrderStatus(ctx context.Context, id string) (*model.OrderStatus, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.OrderStatus{Status: order.Status}, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, req UpdateStatusRequest) (*model.Order, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var order model.Order
	if err := s.orders.Set(ctx, id, map[string]any{"status": *req.Status}, &order); err != nil {
		logStoreError(ctx, "store: failed to update order status", err, zap.String("order_id", id))
		return nil, err
	}

	logger.FromContext(ctx).Info("order status updated", zap.String("order_id", id), zap.String("status", order.Status))
	publish(ctx, s.publisher, OrderStatusChangedChannel, id, &order)
	return &order, nil
}
