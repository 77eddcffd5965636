// Package progress owns the learner's persisted state: learned words, the
// mistake ledger, the unit selection, daily counters with streaks, and the
// test result log. Each entity lives under its own key and is decoded and
// recovered independently.
package progress

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/repository"
)

// Persisted keys. These names are part of the storage format.
const (
	KeyLearnedWords  = "learnedWords"
	KeyMistakes      = "mistakes"
	KeySelectedUnits = "selectedUnits"
	KeyStudyStats    = "studyStats"
	KeyTestResults   = "testResults"

	probeKey = "__probe__"
)

const (
	DefaultMaxWrongAnswers = 10
	DefaultMaxTestResults  = 100
)

// Store is safe for concurrent use. Methods never return storage errors:
// failed reads yield defaults and failed writes are logged and dropped.
type Store struct {
	kv              repository.KVStore
	now             func() time.Time
	loc             *time.Location
	maxWrongAnswers int
	maxTestResults  int
	available       bool

	warnOnce sync.Once

	subMu   sync.Mutex
	subs    map[int]func(key string)
	nextSub int
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithLocation sets the zone that decides calendar days.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithMaxWrongAnswers(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxWrongAnswers = n
		}
	}
}

func WithMaxTestResults(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxTestResults = n
		}
	}
}

// New wraps kv and probes it once. A backend that cannot complete a
// write/read/delete cycle puts the store in no-persistence mode.
func New(kv repository.KVStore, opts ...Option) *Store {
	s := &Store{
		kv:              kv,
		now:             time.Now,
		loc:             time.Local,
		maxWrongAnswers: DefaultMaxWrongAnswers,
		maxTestResults:  DefaultMaxTestResults,
		subs:            make(map[int]func(string)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.available = s.probe(context.Background())
	return s
}

func (s *Store) probe(ctx context.Context) bool {
	log := logger.FromContext(ctx).WithPrefix("progress")
	if s.kv == nil {
		log.Warn("no storage configured, progress will not be saved")
		return false
	}

	err := s.kv.Set(ctx, probeKey, []byte(`"ok"`))
	if err == nil {
		_, _, err = s.kv.Get(ctx, probeKey)
	}
	if err == nil {
		err = s.kv.Delete(ctx, probeKey)
	}
	if err != nil {
		log.Warn("storage probe failed, progress will not be saved: %v", err)
		return false
	}
	return true
}

// Available reports whether progress is being persisted.
func (s *Store) Available() bool {
	return s.available
}

// Subscribe registers fn to run after every successful write. fn receives
// the key that changed and must not call back into a write method.
func (s *Store) Subscribe(fn func(key string)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(key string) {
	s.subMu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
}

func (s *Store) warnUnavailable(ctx context.Context) {
	s.warnOnce.Do(func() {
		logger.FromContext(ctx).WithPrefix("progress").Warn("storage unavailable, changes are kept for this request only")
	})
}

// read returns the raw value of key. Backend failures read as absent.
func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	if !s.available {
		return nil, false
	}
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("progress").Warn("failed to read %s: %v", key, err)
		return nil, false
	}
	return raw, ok
}

// discard drops a value that could not be decoded.
func (s *Store) discard(ctx context.Context, key string, cause error) {
	log := logger.FromContext(ctx).WithPrefix("progress")
	log.Warn("discarding corrupt %s: %v", key, cause)
	if err := s.kv.Delete(ctx, key); err != nil {
		log.Error("failed to delete corrupt %s: %v", key, err)
		return
	}
	s.notify(key)
}

// mutate runs a read-modify-write of key through KVStore.Update, so the value
// is re-read immediately before it is written. fn returns the raw value to
// store, or ErrSkipWrite.
// Without storage fn still runs against an absent value so callers get the
// result they would have persisted.
func (s *Store) mutate(ctx context.Context, key string, fn repository.UpdateFunc) {
	if !s.available {
		s.warnUnavailable(ctx)
		_, _ = fn(nil, false)
		return
	}

	wrote := false
	err := s.kv.Update(ctx, key, func(current []byte, exists bool) ([]byte, error) {
		next, err := fn(current, exists)
		wrote = err == nil
		return next, err
	})
	if err != nil {
		logger.FromContext(ctx).WithPrefix("progress").Error("failed to update %s: %v", key, err)
		return
	}
	if wrote {
		s.notify(key)
	}
}

// put overwrites key with v in a single write.
func (s *Store) put(ctx context.Context, key string, v any) {
	if !s.available {
		s.warnUnavailable(ctx)
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("progress").Error("failed to encode %s: %v", key, err)
		return
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		logger.FromContext(ctx).WithPrefix("progress").Error("failed to write %s: %v", key, err)
		return
	}
	s.notify(key)
}

// recoverCorrupt logs a decode failure found inside an update. The caller
// then rebuilds the key from its default, which replaces the bad value.
func recoverCorrupt(ctx context.Context, key string, err error) {
	logger.FromContext(ctx).WithPrefix("progress").Warn("replacing corrupt %s: %v", key, err)
}

// Export returns every stored key whose value is valid JSON.
func (s *Store) Export(ctx context.Context) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage)
	if !s.available {
		return out
	}
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("progress").Warn("failed to list keys: %v", err)
		return out
	}
	for _, key := range keys {
		if key == probeKey {
			continue
		}
		raw, ok := s.read(ctx, key)
		if !ok || !json.Valid(raw) {
			continue
		}
		out[key] = json.RawMessage(raw)
	}
	return out
}
