package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/orda-service/internal/config"
	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStoreMemory(t *testing.T) {
	store, err := openStore(context.Background(), config.StoreConfig{Driver: config.DriverMemory}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &repo.MemoryStore{}, store)
	assert.NoError(t, store.Ping(context.Background()))
}

func TestOpenStoreRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	store, err := openStore(ctx, config.StoreConfig{
		Driver:      config.DriverRedis,
		RedisURL:    "redis://" + mr.Addr(),
		RedisPrefix: "orda",
	}, zap.NewNop())
	require.NoError(t, err)
	defer store.Close(ctx)

	items := collection(store, repo.ItemsCollection)
	require.NoError(t, items.Insert(ctx, "101", model.Item{ItemID: "101", Name: "Widget A"}))
	assert.True(t, mr.Exists("orda:items"))
}

func TestOpenStoreErrors(t *testing.T) {
	_, err := openStore(context.Background(), config.StoreConfig{Driver: "cassandra"}, zap.NewNop())
	assert.Error(t, err)

	_, err = openStore(context.Background(), config.StoreConfig{Driver: config.DriverRedis, RedisURL: "not a url"}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewPublisher(t *testing.T) {
	ctx := context.Background()

	pub, err := newPublisher(ctx, config.EventsConfig{Driver: config.EventsNone}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, pub)

	mr := miniredis.RunT(t)
	pub, err = newPublisher(ctx, config.EventsConfig{Driver: config.EventsRedis, RedisURL: "redis://" + mr.Addr()}, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, pub)
	assert.NoError(t, pub.Publish(ctx, "order.created", map[string]string{"order_id": "1"}))
	assert.NoError(t, pub.Close())

	pub, err = newPublisher(ctx, config.EventsConfig{Driver: config.EventsKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "t"}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, pub.Close())

	_, err = newPublisher(ctx, config.EventsConfig{Driver: "nats"}, zap.NewNop())
	assert.Error(t, err)
}

func TestCollectionKeysCoverEveryCollection(t *testing.T) {
	for _, name := range []string{repo.OrdersCollection, repo.CustomersCollection, repo.ItemsCollection, repo.APIKeysCollection} {
		assert.NotEmpty(t, collectionKeys[name], name)
	}
}

func TestSeedCmdRejectsMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", config.DriverMemory)

	configPath := ""
	cmd := seedCmd(&configPath)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not persist")
	assert.Empty(t, out.String())
}

func TestSeedCmdRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("STORE_DRIVER", config.DriverRedis)
	t.Setenv("REDIS_URL", "redis://"+mr.Addr())

	configPath := ""
	cmd := seedCmd(&configPath)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Data inserted successfully! (7 new, 0 existing)")
}
