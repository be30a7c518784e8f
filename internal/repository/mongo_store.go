package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoStore is a Store backed by MongoDB collections.
//
// Transaction does not open a session: standalone servers have no
// multi-document transactions, so the steps of a unit of work are applied
// one after another and a failure leaves earlier steps in place.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a Store over db
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Tasks() TaskRepository {
	return NewMongoTaskRepository(s.db)
}

func (s *MongoStore) Users() UserRepository {
	return NewMongoUserRepository(s.db)
}

func (s *MongoStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return fn(s)
}

func visibleFilter(filter bson.M, vis Visibility) bson.M {
	if vis == OnlyVisible {
		filter["isDeleted"] = false
	}
	return filter
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func translateMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

// mongoNow matches the millisecond precision BSON dates keep.
func mongoNow() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
