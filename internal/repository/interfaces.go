package repository

import (
	"context"
	"errors"
)

// ErrSkipWrite can be returned from an UpdateFunc to leave the key untouched.
var ErrSkipWrite = errors.New("repository: skip write")

// ErrUnavailable is returned by a store that cannot read or write at all.
var ErrUnavailable = errors.New("repository: storage unavailable")

// UpdateFunc receives the current raw value of a key (nil and false when the
// key is absent) and returns the value to store. A nil value deletes the key.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// KVStore persists opaque JSON documents under string keys.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Update runs fn and writes its result atomically with respect to other
	// writers of the same store.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}
