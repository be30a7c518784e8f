package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/codermanagement/task-tracker/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by the document backend.
const (
	CollectionUsers = "users"
	CollectionTasks = "tasks"
)

// ConnectMongo dials the document store and verifies it answers a ping.
func ConnectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Printf("Mongo connection established (database %s)", cfg.MongoDatabase)
	return client, nil
}

// EnsureMongoIndexes mirrors the relational indexes on the document backend.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	taskIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "isDeleted", Value: 1}, {Key: "createdAt", Value: -1}, {Key: "updatedAt", Value: -1}}},
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
	}
	if _, err := db.Collection(CollectionTasks).Indexes().CreateMany(ctx, taskIndexes); err != nil {
		return fmt.Errorf("failed to create task indexes: %w", err)
	}

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}
	if _, err := db.Collection(CollectionUsers).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	return nil
}
