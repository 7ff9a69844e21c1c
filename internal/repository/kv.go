package repository

import (
	"context"
	"database/sql"
	"errors"
	"maps"
	"slices"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrKeyNotFound = errors.New("key not found")

// upsertQuery writes a single key, replacing any previous value.
const upsertQuery = `
	INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

type kvRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// KVRepository is a small durable key/value store backed by the kv table.
type KVRepository struct {
	db *sqlx.DB
}

// NewKVRepository creates a new KVRepository.
func NewKVRepository(db *sqlx.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Get returns the value stored under key.
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return value, nil
}

// GetMany returns the stored values for keys in a single read.
// Missing keys are absent from the result.
func (r *KVRepository) GetMany(ctx context.Context, keys ...string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(`SELECT key, value FROM kv WHERE key IN (?)`, keys)
	if err != nil {
		return nil, err
	}

	var rows []kvRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.Key] = row.Value
	}
	return result, nil
}

// Set stores value under key.
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, upsertQuery, key, value, time.Now().UTC())
	return err
}

// SetMany stores all values in one transaction.
func (r *KVRepository) SetMany(ctx context.Context, values map[string]string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if _, err := tx.ExecContext(ctx, upsertQuery, key, values[key], now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Delete removes key. Deleting a missing key is not an error.
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// DeleteMany removes all keys in a single statement.
func (r *KVRepository) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	query, args, err := sqlx.In(`DELETE FROM kv WHERE key IN (?)`, keys)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	return err
}
