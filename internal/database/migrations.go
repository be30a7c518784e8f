package database

import (
	"fmt"
	"log"

	"github.com/codermanagement/task-tracker/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema and its secondary indexes.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.UserTask{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// AddIndexes adds the indexes used by list filters, ordering and the
// visibility predicate.
func AddIndexes(db *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Task listing: visibility filter plus newest-first ordering
		{"tasks", "idx_tasks_visible_created", "is_deleted, created_at, updated_at"},
		{"tasks", "idx_tasks_name", "name"},
		{"tasks", "idx_tasks_status", "status"},
		{"tasks", "idx_tasks_assigned_to", "assigned_to"},

		{"users", "idx_users_name", "name"},
		{"users", "idx_users_role", "role"},

		// Reverse lookup of the back-reference set
		{"user_tasks", "idx_user_tasks_task_id", "task_id"},
	}

	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}
