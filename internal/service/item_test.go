package service

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/repo"
)

func TestItemLifecycle(t *testing.T) {
	pub := &mockPublisher{}
	svc := NewItemService(newCollection(repo.ItemsCollection), sequentialIDs("item"), pub)
	ctx := context.Background()

	item, err := svc.CreateItem(ctx, CreateItemRequest{Name: ptr("Laptop"), Price: ptr(1200.0), Stock: ptr(10)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ItemID != "item-1" {
		t.Errorf("expected ID item-1, got %s", item.ItemID)
	}

	got, err := svc.GetItem(ctx, item.ItemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != *item {
		t.Errorf("round trip mismatch: %+v vs %+v", got, item)
	}

	updated, err := svc.UpdateItem(ctx, item.ItemID, UpdateItemRequest{Stock: ptr(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := model.Item{ItemID: "item-1", Name: "Laptop", Price: 1200, Stock: 0}
	if *updated != want {
		t.Errorf("expected %+v, got %+v", want, updated)
	}

	items, err := svc.GetItems(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 item, got %d", len(items))
	}

	if err := svc.DeleteItem(ctx, item.ItemID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetItem(ctx, item.ItemID); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("expected repo.ErrNotFound, got %v", err)
	}

	wantEvents := []string{ItemCreatedChannel, ItemUpdatedChannel, ItemDeletedChannel}
	if got := pub.channels(); !slices.Equal(got, wantEvents) {
		t.Errorf("expected events %v, got %v", wantEvents, got)
	}
}

func TestCreateItemValidation(t *testing.T) {
	svc := NewItemService(newCollection(repo.ItemsCollection), nil, nil)

	_, err := svc.CreateItem(context.Background(), CreateItemRequest{Name: ptr("Laptop"), Price: ptr(1.0)})
	if !isValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "stock is required" {
		t.Errorf("unexpected message %q", err.Error())
	}

	// zero is a supplied value, not a missing one
	if _, err := svc.CreateItem(context.Background(), CreateItemRequest{Name: ptr("Free"), Price: ptr(0.0), Stock: ptr(0)}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUpdateItemNeverUpserts(t *testing.T) {
	items := newCollection(repo.ItemsCollection)
	svc := NewItemService(items, nil, nil)

	_, err := svc.UpdateItem(context.Background(), "105", UpdateItemRequest{Name: ptr("Ghost")})
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected repo.ErrNotFound, got %v", err)
	}

	all, err := svc.GetItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("expected no items, got %d", len(all))
	}

	if _, err := svc.UpdateItem(context.Background(), "105", UpdateItemRequest{}); !isValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := svc.DeleteItem(context.Background(), "105"); !errors.Is(err, repo.ErrNotFound) {
		t.Errorf("expected repo.ErrNotFound, got %v", err)
	}
}
