package audit

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

const defaultCollection = "plan_audit_log"

// MongoStorage persists audit entries to a MongoDB collection.
// Entries are insert-only; the collection should be configured without
// update/delete access for application credentials.
type MongoStorage struct {
	collection *mongo.Collection
}

// NewMongoStorage creates Mongo-backed audit storage. An empty
// collection name uses "plan_audit_log".
func NewMongoStorage(db *mongo.Database, collection string) *MongoStorage {
	if db == nil {
		panic("audit: mongo database cannot be nil")
	}
	if collection == "" {
		collection = defaultCollection
	}

	return &MongoStorage{collection: db.Collection(collection)}
}

func (ms *MongoStorage) Store(ctx context.Context, entry Entry) error {
	if _, err := ms.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
