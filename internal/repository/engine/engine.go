// Package engine opens the KVStore backend named in configuration.
package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/vytor/wortdrill/internal/db"
	"github.com/vytor/wortdrill/internal/repository"
	"github.com/vytor/wortdrill/internal/repository/file"
	"github.com/vytor/wortdrill/internal/repository/memory"
	"github.com/vytor/wortdrill/internal/repository/sqlite"
)

const (
	SQLite = "sqlite"
	File   = "file"
	Memory = "memory"
)

// Open returns the store for name. Errors wrap repository.ErrUnavailable so
// callers can fall back to running without persistence.
func Open(ctx context.Context, name, path string) (repository.KVStore, error) {
	switch strings.ToLower(name) {
	case SQLite:
		database, err := db.Open(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("%w: sqlite %s: %v", repository.ErrUnavailable, path, err)
		}
		return sqlite.NewKVRepository(database.DB), nil
	case File:
		store, err := file.Open(path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case Memory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store engine %q", name)
	}
}
