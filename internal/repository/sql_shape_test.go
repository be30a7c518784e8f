package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func TestAddTask_IgnoresDuplicateLink(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO "user_tasks" .* ON CONFLICT DO NOTHING`).
		WithArgs("user-1", "task-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Users().AddTask(context.Background(), "user-1", "task-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPullTask_DeletesLink(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "user_tasks" WHERE user_id = $1 AND task_id = $2`)).
		WithArgs("user-1", "task-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Users().PullTask(context.Background(), "user-1", "task-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSoftDelete_OnlyFlipsFlag(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "tasks" SET "is_deleted"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(true, sqlmock.AnyArg(), "task-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Tasks().SoftDelete(context.Background(), "task-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
