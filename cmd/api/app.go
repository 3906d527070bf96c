package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/orda-service/internal/config"
	"github.com/orda-service/internal/events"
	"github.com/orda-service/internal/logger"
	"github.com/orda-service/internal/repo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// collectionKeys maps each collection to the field holding its business id.
var collectionKeys = map[string]string{
	repo.OrdersCollection:    "order_id",
	repo.CustomersCollection: "customer_id",
	repo.ItemsCollection:     "item_id",
	repo.APIKeysCollection:   "key_id",
}

func setup(path string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Telemetry.ServiceName)
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	return cfg, log, nil
}

func openRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return client, nil
}

func openPostgres(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

// openStore connects the configured document store. Postgres schema and
// Mongo indexes are applied on open so a fresh database is usable at once.
func openStore(ctx context.Context, cfg config.StoreConfig, log *zap.Logger) (repo.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := openPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("connected to postgres")
		if err := repo.RunMigrations(ctx, db, repo.Migrations()); err != nil {
			_ = db.Close()
			return nil, err
		}
		log.Info("migrations applied")
		return repo.NewPostgresStore(db), nil

	case config.DriverRedis:
		client, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Info("connected to redis")
		return repo.NewRedisStore(client, cfg.RedisPrefix), nil

	case config.DriverMongo:
		store, err := repo.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		log.Info("connected to mongo", zap.String("database", cfg.MongoDatabase))
		if err := store.EnsureIndexes(ctx, collectionKeys); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil

	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return repo.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

// collection returns the named collection wrapped with tracing.
func collection(store repo.Store, name string) repo.Collection {
	return repo.Traced(name, store.Collection(name, collectionKeys[name]))
}

// newPublisher returns nil when change events are disabled.
func newPublisher(ctx context.Context, cfg config.EventsConfig, log *zap.Logger) (events.Publisher, error) {
	switch cfg.Driver {
	case config.EventsNone:
		return nil, nil

	case config.EventsRedis:
		client, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Info("publishing events to redis")
		return events.NewRedisPublisher(client), nil

	case config.EventsKafka:
		log.Info("publishing events to kafka", zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil

	case config.EventsAMQP:
		pub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, fmt.Errorf("connect to amqp: %w", err)
		}
		log.Info("publishing events to amqp", zap.String("exchange", cfg.AMQPExchange))
		return pub, nil
	}
	return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
}
