package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *KVRepository {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "store", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewKVRepository(db)
}

func TestNewDB_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = NewDB(path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.Get(&count, `SELECT COUNT(*) FROM kv`))
	assert.Equal(t, 0, count)
}

func TestKVRepository_GetMissing(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.Get(context.Background(), "token")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKVRepository_SetAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "token", "T1"))
	require.NoError(t, repo.Set(ctx, "token", "T2"))

	got, err := repo.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, "T2", got)
}

func TestKVRepository_SetManyGetManyDeleteMany(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.SetMany(ctx, map[string]string{
		"token": "T",
		"user":  `{"id":"1"}`,
		"other": "keep",
	}))

	got, err := repo.GetMany(ctx, "token", "user", "missing")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"token": "T", "user": `{"id":"1"}`}, got)

	require.NoError(t, repo.DeleteMany(ctx, "token", "user"))

	got, err = repo.GetMany(ctx, "token", "user")
	require.NoError(t, err)
	assert.Empty(t, got)

	other, err := repo.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "keep", other)
}

func TestKVRepository_DeleteMissingKey(t *testing.T) {
	repo := newTestRepo(t)

	assert.NoError(t, repo.Delete(context.Background(), "nope"))
	assert.NoError(t, repo.DeleteMany(context.Background()))
}

func TestKVRepository_SetManyRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewKVRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO kv`).
		WithArgs("token", "T", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO kv`).
		WithArgs("user", "{}", sqlmock.AnyArg()).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	err = repo.SetMany(context.Background(), map[string]string{"user": "{}", "token": "T"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepository_GetManyQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewKVRepository(sqlx.NewDb(db, "sqlmock"))

	mock.ExpectQuery(`SELECT key, value FROM kv WHERE key IN`).
		WillReturnError(errors.New("database is locked"))

	_, err = repo.GetMany(context.Background(), "token", "user")
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
