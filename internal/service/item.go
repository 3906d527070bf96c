package service

import (
	"context"

	"github.com/orda-service/internal/events"
	"github.com/orda-service/internal/ident"
	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/repo"
	"go.uber.org/zap"
)

type ItemService struct {
	items     repo.Collection
	newID     ident.Generator
	publisher events.Publisher
}

func NewItemService(items repo.Collection, newID ident.Generator, publisher events.Publisher) *ItemService {
	if newID == nil {
		newID = ident.New
	}
	return &ItemService{items: items, newID: newID, publisher: publisher}
}

type CreateItemRequest struct {
	Name  *string  `json:"name" validate:"required"`
	Price *float64 `json:"price" validate:"required"`
	Stock *int     `json:"stock" validate:"required"`
}

type UpdateItemRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Stock *int     `json:"stock"`
}

func (s *ItemService) CreateItem(ctx context.Context, req CreateItemRequest) (*model.Item, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	item := &model.Item{
		ItemID: s.newID(),
		Name:   *req.Name,
		Price:  *req.Price,
		Stock:  *req.Stock,
	}

	if err := s.items.Insert(ctx, item.ItemID, item); err != nil {
		logStoreError(ctx, "store: failed to create item", err, zap.String("item_id", item.ItemID))
		return nil, err
	}

	publish(ctx, s.publisher, ItemCreatedChannel, item.ItemID, item)
	return item, nil
}

func (s *ItemService) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	if err := s.items.FindOne(ctx, id, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *ItemService) GetItems(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := s.items.FindAll(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateItem merges the supplied fields into an existing item. A missing
// item is reported as repo.ErrNotFound; updates never create items.
func (s *ItemService) UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*model.Item, error) {
	fields := make(map[string]any)
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if len(fields) == 0 {
		return nil, errNoData
	}

	var item model.Item
	if err := s.items.Set(ctx, id, fields, &item); err != nil {
		logStoreError(ctx, "store: failed to update item", err, zap.String("item_id", id))
		return nil, err
	}

	publish(ctx, s.publisher, ItemUpdatedChannel, id, &item)
	return &item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, id string) error {
	if err := s.items.Delete(ctx, id); err != nil {
		logStoreError(ctx, "store: failed to delete item", err, zap.String("item_id", id))
		return err
	}

	publish(ctx, s.publisher, ItemDeletedChannel, id, map[string]string{"item_id": id})
	return nil
}
