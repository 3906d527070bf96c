package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// MongoStore maps each collection onto a MongoDB collection of the same name,
// filtering on the business id field rather than _id.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Collection(name, key string) Collection {
	return &mongoCollection{coll: s.db.Collection(name), key: key}
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates a unique index on the key field of each collection.
func (s *MongoStore) EnsureIndexes(ctx context.Context, keys map[string]string) error {
	for name, key := range keys {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: key, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := s.db.Collection(name).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("index %s.%s: %w", name, key, err)
		}
	}
	return nil
}

type mongoCollection struct {
	coll *mongo.Collection
	key  string
}

func (c *mongoCollection) filter(id string) bson.D {
	return bson.D{{Key: c.key, Value: id}}
}

func (c *mongoCollection) Insert(ctx context.Context, _ string, doc any) error {
	_, err := c.coll.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrConflict
	}
	return err
}

func (c *mongoCollection) FindOne(ctx context.Context, id string, out any) error {
	err := c.coll.FindOne(ctx, c.filter(id)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (c *mongoCollection) FindAll(ctx context.Context, out any) error {
	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (c *mongoCollection) Set(ctx context.Context, id string, fields map[string]any, out any) error {
	update := bson.D{{Key: "$set", Value: bson.M(fields)}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	err := c.coll.FindOneAndUpdate(ctx, c.filter(id), update, opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func (c *mongoCollection) Delete(ctx context.Context, id string) error {
	res, err := c.coll.DeleteOne(ctx, c.filter(id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
