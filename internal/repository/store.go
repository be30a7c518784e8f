package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// GormStore is a Store backed by a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store over db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Tasks() TaskRepository {
	return NewTaskRepository(s.db)
}

func (s *GormStore) Users() UserRepository {
	return NewUserRepository(s.db)
}

// Transaction runs fn inside a database transaction; any error rolls back
// every write fn made.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func translateGormError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
