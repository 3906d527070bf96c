package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/orda-service/internal/ident"
	"github.com/orda-service/internal/repo"
)

type publishedEvent struct {
	channel string
	message interface{}
}

type mockPublisher struct {
	published []publishedEvent
	err       error
	mu        sync.Mutex
}

func (m *mockPublisher) Publish(ctx context.Context, channel string, message interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, publishedEvent{channel: channel, message: message})
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) channels() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.published))
	for i, e := range m.published {
		out[i] = e.channel
	}
	return out
}

// sequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func sequentialIDs(prefix string) ident.Generator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

func newCollection(name string) repo.Collection {
	return repo.NewMemoryStore().Collection(name, "")
}

// failingCollection fails every call with err.
type failingCollection struct {
	err error
}

func (f failingCollection) Insert(context.Context, string, any) error {
	return f.err
}

func (f failingCollection) FindOne(context.Context, string, any) error {
	return f.err
}

func (f failingCollection) FindAll(context.Context, any) error {
	return f.err
}

func (f failingCollection) Set(context.Context, string, map[string]any, any) error {
	return f.err
}

func (f failingCollection) Delete(context.Context, string) error {
	return f.err
}

var errStoreDown = errors.New("store down")

func ptr[T any](v T) *T { return &v }

func isValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
