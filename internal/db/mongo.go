package db

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motormate/motormate/internal/models"
)

// ErrSnapshotNotFound reports that a user has no cloud document yet.
var ErrSnapshotNotFound = mongo.ErrNoDocuments

// ConnectMongo connects to MongoDB using the MONGO_URI environment variable.
func ConnectMongo() (*mongo.Client, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// snapshotDoc is the stored shape: the snapshot keyed by user id.
type snapshotDoc struct {
	UserID   string          `bson:"_id"`
	Snapshot models.Snapshot `bson:"snapshot"`
}

// MongoSnapshotCollection implements SnapshotCollection over MongoDB.
type MongoSnapshotCollection struct {
	Collection *mongo.Collection
}

// PutSnapshot replaces the user's cloud document. Last write wins; there is
// no merge or version check.
func (c *MongoSnapshotCollection) PutSnapshot(ctx context.Context, userID string, snap models.Snapshot) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	doc := snapshotDoc{UserID: userID, Snapshot: snap}
	opts := options.Replace().SetUpsert(true)
	_, err := c.Collection.ReplaceOne(ctx, bson.M{"_id": userID}, doc, opts)
	return err
}

// GetSnapshot loads the user's cloud document, or ErrSnapshotNotFound.
func (c *MongoSnapshotCollection) GetSnapshot(ctx context.Context, userID string) (*models.Snapshot, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var doc snapshotDoc
	if err := c.Collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc.Snapshot, nil
}
