package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/repository"
)

const kvTable = "kv"

type kvRow struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

type kvRepository struct {
	db *sqlx.DB
}

// NewKVRepository creates a KVStore backed by the kv table.
func NewKVRepository(db *sql.DB) repository.KVStore {
	return &kvRepository{db: sqlx.NewDb(db, "sqlite3")}
}

func (r *kvRepository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("getting key: %s", key)

	value, ok, err := getValue(ctx, r.db, key)
	if err != nil {
		log.Error("failed to get key %s: %v", key, err)
		return nil, false, err
	}
	return value, ok, nil
}

func (r *kvRepository) Set(ctx context.Context, key string, value []byte) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("setting key: %s (%d bytes)", key, len(value))

	if err := putValue(ctx, r.db, key, value); err != nil {
		log.Error("failed to set key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *kvRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("deleting key: %s", key)

	if err := deleteValue(ctx, r.db, key); err != nil {
		log.Error("failed to delete key %s: %v", key, err)
		return err
	}
	return nil
}

func (r *kvRepository) Update(ctx context.Context, key string, fn repository.UpdateFunc) error {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")
	log.Debug("updating key: %s", key)

	return tx(ctx, r.db, func(tx *sqlx.Tx) error {
		current, ok, err := getValue(ctx, tx, key)
		if err != nil {
			return err
		}
		next, err := fn(current, ok)
		if errors.Is(err, repository.ErrSkipWrite) {
			log.Debug("update of %s skipped", key)
			return nil
		}
		if err != nil {
			return err
		}
		if next == nil {
			return deleteValue(ctx, tx, key)
		}
		return putValue(ctx, tx, key, next)
	})
}

func (r *kvRepository) Keys(ctx context.Context) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("kv_repo")

	query, args, err := sq.Select("key").From(kvTable).OrderBy("key").ToSql()
	if err != nil {
		return nil, err
	}
	var keys []string
	if err := r.db.SelectContext(ctx, &keys, query, args...); err != nil {
		log.Error("failed to list keys: %v", err)
		return nil, err
	}
	log.Debug("found %d keys", len(keys))
	return keys, nil
}

func (r *kvRepository) Close() error {
	return r.db.Close()
}

func getValue(ctx context.Context, q sqlx.QueryerContext, key string) ([]byte, bool, error) {
	query, args, err := sq.Select("key", "value", "updated_at").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, false, err
	}

	var row kvRow
	err = sqlx.GetContext(ctx, q, &row, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(row.Value), true, nil
}

func putValue(ctx context.Context, e sqlx.ExecerContext, key string, value []byte) error {
	query, args, err := sq.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, string(value), time.Now().UTC()).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}
	_, err = e.ExecContext(ctx, query, args...)
	return err
}

func deleteValue(ctx context.Context, e sqlx.ExecerContext, key string) error {
	query, args, err := sq.Delete(kvTable).Where(sq.Eq{"key": key}).ToSql()
	if err != nil {
		return err
	}
	_, err = e.ExecContext(ctx, query, args...)
	return err
}
