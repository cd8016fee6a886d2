package report

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Inserter is the part of *mongo.Collection the sink uses.
type Inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoSink stores reports as documents in a MongoDB collection, keyed by
// report id.
type MongoSink struct {
	coll   Inserter
	client *mongo.Client
}

// NewMongoSink connects to uri and stores reports in database.collection.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoSink{
		coll:   client.Database(database).Collection(collection),
		client: client,
	}, nil
}

// NewMongoSinkWithCollection wraps an existing collection.
func NewMongoSinkWithCollection(coll Inserter) *MongoSink {
	return &MongoSink{coll: coll}
}

// Write implements [Sink].
func (s *MongoSink) Write(ctx context.Context, r *Report) error {
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("insert report %s: %w", r.ID, err)
	}
	return nil
}

// Close implements [Sink].
func (s *MongoSink) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
