package repo

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("document not found")
	ErrConflict = errors.New("document already exists")
)

// Collection stores documents of one entity type keyed by their business
// identifier. Every method touches a single document and is atomic for it.
type Collection interface {
	Insert(ctx context.Context, id string, doc any) error
	// FindOne decodes the document into out, a pointer to a struct.
	FindOne(ctx context.Context, id string, out any) error
	// FindAll decodes every document into out, a pointer to a slice.
	FindAll(ctx context.Context, out any) error
	// Set overwrites the given top-level fields and decodes the updated
	// document into out. It never creates a document.
	Set(ctx context.Context, id string, fields map[string]any, out any) error
	Delete(ctx context.Context, id string) error
}

type Store interface {
	// Collection returns the named collection; key is the document field that
	// holds the business identifier.
	Collection(name, key string) Collection
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

const (
	OrdersCollection    = "orders"
	CustomersCollection = "customers"
	ItemsCollection     = "items"
	APIKeysCollection   = "api_keys"
)
