// Package mongodb persists normalized documents into a
// MongoDB collection.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"greynoise-ingest/internal/models"
)

type Sink struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeNow    func() time.Time
}

// NewSink connects to the document store, verifies the connection and
// ensures the collection indexes. The underlying client is opened once
// and must be released with Close on every exit path.
func NewSink(ctx context.Context, uri, database, collection string,
	timeNow func() time.Time) (sink *Sink, err error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to document store: %w", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging document store: %w", err)
	}

	sink = &Sink{
		client:     client,
		collection: client.Database(database).Collection(collection),
		timeNow:    timeNow,
	}

	err = sink.ensureIndexes(ctx)
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensuring indexes: %w", err)
	}

	return sink, nil
}

func (s *Sink) ensureIndexes(ctx context.Context) (err error) {
	_, err = s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "ip", Value: 1},
				{Key: "fetched_at", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "ingested_at", Value: 1}}},
		{Keys: bson.D{{Key: "connector", Value: 1}}},
	})
	return err
}

var ErrDuplicate = errors.New("document already exists")

// Insert stamps the ingestion timestamp and writes the document,
// returning the inserted document identifier. The write is atomic:
// either the full document is persisted or nothing is.
func (s *Sink) Insert(ctx context.Context, document models.Document) (
	id string, err error) {
	document.IngestedAt = s.timeNow().UTC()

	result, err := s.collection.InsertOne(ctx, document)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: for IP %s", ErrDuplicate, document.IP)
		}
		return "", fmt.Errorf("inserting document: %w", err)
	}

	objectID, ok := result.InsertedID.(primitive.ObjectID)
	if ok {
		return objectID.Hex(), nil
	}
	return fmt.Sprint(result.InsertedID), nil
}

func (s *Sink) Close(ctx context.Context) (err error) {
	return s.client.Disconnect(ctx)
}
