package repo

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

// MemoryStore keeps documents in process. It backs local development and
// tests; contents are lost on restart.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]*memoryCollection
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

func (s *MemoryStore) Collection(name, _ string) Collection {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[name]
	if !ok {
		c = &memoryCollection{docs: make(map[string][]byte)}
		s.collections[name] = c
	}
	return c
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

type memoryCollection struct {
	mu   sync.RWMutex
	ids  []string
	docs map[string][]byte
}

func (c *memoryCollection) Insert(_ context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; ok {
		return ErrConflict
	}
	c.docs[id] = data
	c.ids = append(c.ids, id)
	return nil
}

func (c *memoryCollection) FindOne(_ context.Context, id string, out any) error {
	c.mu.RLock()
	data, ok := c.docs[id]
	c.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, out)
}

func (c *memoryCollection) FindAll(_ context.Context, out any) error {
	c.mu.RLock()
	docs := make([][]byte, 0, len(c.ids))
	for _, id := range c.ids {
		docs = append(docs, c.docs[id])
	}
	c.mu.RUnlock()
	return decodeAll(docs, out)
}

func (c *memoryCollection) Set(_ context.Context, id string, fields map[string]any, out any) error {
	c.mu.Lock()
	data, ok := c.docs[id]
	if !ok {
		c.mu.Unlock()
		return ErrNotFound
	}
	merged, err := mergeFields(data, fields)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.docs[id] = merged
	c.mu.Unlock()

	return json.Unmarshal(merged, out)
}

func (c *memoryCollection) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return ErrNotFound
	}
	delete(c.docs, id)
	c.ids = slices.DeleteFunc(c.ids, func(v string) bool { return v == id })
	return nil
}
