package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// maxSetAttempts bounds the optimistic WATCH/MULTI loop in Set when another
// client modifies the collection hash concurrently.
const maxSetAttempts = 5

// RedisStore keeps each collection in one hash, <prefix>:<collection>, with
// the business id as field and the JSON document as value. Listing order is
// unspecified.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Collection(name, _ string) Collection {
	key := name
	if s.prefix != "" {
		key = s.prefix + ":" + name
	}
	return &redisCollection{client: s.client, key: key}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close(context.Context) error {
	return s.client.Close()
}

type redisCollection struct {
	client *redis.Client
	key    string
}

func (c *redisCollection) Insert(ctx context.Context, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	ok, err := c.client.HSetNX(ctx, c.key, id, data).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	return nil
}

func (c *redisCollection) FindOne(ctx context.Context, id string, out any) error {
	data, err := c.client.HGet(ctx, c.key, id).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func (c *redisCollection) FindAll(ctx context.Context, out any) error {
	values, err := c.client.HVals(ctx, c.key).Result()
	if err != nil {
		return err
	}

	docs := make([][]byte, len(values))
	for i, v := range values {
		docs[i] = []byte(v)
	}
	return decodeAll(docs, out)
}

func (c *redisCollection) Set(ctx context.Context, id string, fields map[string]any, out any) error {
	var merged []byte

	txf := func(tx *redis.Tx) error {
		data, err := tx.HGet(ctx, c.key, id).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		merged, err = mergeFields(data, fields)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, c.key, id, merged)
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < maxSetAttempts; i++ {
		err = c.client.Watch(ctx, txf, c.key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, out)
}

func (c *redisCollection) Delete(ctx context.Context, id string) error {
	n, err := c.client.HDel(ctx, c.key, id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
