package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/repository"
)

// Store keeps every key in a single JSON document on disk. Each write
// re-reads the document and replaces it through a uniquely named temp file
// and rename. Writers in one process are serialized; across processes there
// is no file lock, so a concurrent writer can still overwrite a change
// (best effort).
type Store struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// Open returns a Store for path. The file is created on first write.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	s := &Store{path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var _ repository.KVStore = (*Store)(nil)

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false, repository.ErrUnavailable
	}
	doc, err := s.load()
	if err != nil {
		logger.FromContext(ctx).WithPrefix("file_store").Error("failed to read %s: %v", s.path, err)
		return nil, false, err
	}
	v, ok := doc[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.Update(ctx, key, func([]byte, bool) ([]byte, error) {
		return value, nil
	})
}

func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrUnavailable
	}
	doc, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := doc[key]; !ok {
		return nil
	}
	delete(doc, key)
	return s.persist(doc)
}

func (s *Store) Update(ctx context.Context, key string, fn repository.UpdateFunc) error {
	log := logger.FromContext(ctx).WithPrefix("file_store")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repository.ErrUnavailable
	}
	doc, err := s.load()
	if err != nil {
		log.Error("failed to read %s: %v", s.path, err)
		return err
	}

	current, ok := doc[key]
	var raw []byte
	if ok {
		raw = []byte(current)
	}
	next, err := fn(raw, ok)
	if errors.Is(err, repository.ErrSkipWrite) {
		return nil
	}
	if err != nil {
		return err
	}

	if next == nil {
		if !ok {
			return nil
		}
		delete(doc, key)
	} else {
		doc[key] = string(next)
	}
	if err := s.persist(doc); err != nil {
		log.Error("failed to write %s: %v", s.path, err)
		return err
	}
	return nil
}

func (s *Store) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, repository.ErrUnavailable
	}
	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) load() (map[string]string, error) {
	doc := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s is not a key/value document: %v", repository.ErrUnavailable, s.path, err)
	}
	return doc, nil
}

func (s *Store) persist(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	tmpPath := tmp.Name()
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0o644)
	}
	if err == nil {
		err = os.Rename(tmpPath, s.path)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", repository.ErrUnavailable, err)
	}
	return nil
}
