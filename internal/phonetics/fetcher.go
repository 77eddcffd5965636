package phonetics

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/worker"
)

const (
	DefaultDelay     = 200 * time.Millisecond
	DefaultSaveEvery = 10
)

// Lookuper resolves the phonetic transcription of a raw lexicon word.
type Lookuper interface {
	Lookup(ctx context.Context, raw string) (string, error)
}

// SaveFunc persists a snapshot of the lexicon.
type SaveFunc func(words []models.Word) error

type Summary struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type Fetcher struct {
	lookup    Lookuper
	save      SaveFunc
	workers   int
	delay     time.Duration
	saveEvery int
}

type FetcherOption func(*Fetcher)

func WithWorkers(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.workers = n
		}
	}
}

// WithDelay sets the pause each worker takes after a request.
func WithDelay(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d >= 0 {
			f.delay = d
		}
	}
}

func WithSaveEvery(n int) FetcherOption {
	return func(f *Fetcher) {
		if n > 0 {
			f.saveEvery = n
		}
	}
}

func NewFetcher(lookup Lookuper, save SaveFunc, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		lookup:    lookup,
		save:      save,
		workers:   1,
		delay:     DefaultDelay,
		saveEvery: DefaultSaveEvery,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// run is the shared state of one Fetcher.Run call.
type run struct {
	f     *Fetcher
	mu    sync.Mutex
	words []models.Word
	done  int
	sum   Summary
}

type lookupJob struct {
	run   *run
	index int
	word  string
}

func (j *lookupJob) Name() string { return "phonetic_lookup" }

func (j *lookupJob) Run(ctx context.Context) error {
	ipa, err := j.run.f.lookup.Lookup(ctx, j.word)
	j.run.record(ctx, j.index, ipa, err)

	if d := j.run.f.delay; d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	if errors.Is(err, ErrNoPhonetic) {
		return nil
	}
	return err
}

func (r *run) record(ctx context.Context, index int, ipa string, err error) {
	log := logger.FromContext(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	word := r.words[index].Word
	switch {
	case err == nil:
		r.words[index].Phonetic = ipa
		r.sum.Success++
		log.Info("%s -> %s", word, ipa)
	case errors.Is(err, ErrNoPhonetic):
		r.sum.Failed++
		log.Warn("no phonetic found for %s", word)
	default:
		r.sum.Failed++
	}

	r.done++
	if r.done%r.f.saveEvery == 0 {
		if err := r.f.save(slices.Clone(r.words)); err != nil {
			log.Error("failed to save progress: %v", err)
		} else {
			log.Info("saved progress (%d looked up)", r.done)
		}
	}
}

// Run looks up every word without a phonetic and returns the updated list.
// Lookup failures are counted, never fatal. Progress is saved periodically
// and once more at the end, also when ctx is cancelled.
func (f *Fetcher) Run(ctx context.Context, words []models.Word) ([]models.Word, Summary, error) {
	log := logger.FromContext(ctx).WithPrefix("phonetics")

	r := &run{f: f, words: slices.Clone(words)}
	r.sum.Total = len(words)

	var pending []int
	for i, w := range r.words {
		if w.Phonetic != "" {
			r.sum.Skipped++
			continue
		}
		pending = append(pending, i)
	}
	log.Info("%d words, %d already have a phonetic, %d to fetch", len(words), r.sum.Skipped, len(pending))

	var runErr error
	if len(pending) > 0 {
		pool := worker.NewPool(f.workers, f.workers*2)
		pool.Start(ctx)
		for _, i := range pending {
			job := &lookupJob{run: r, index: i, word: r.words[i].Word}
			if err := pool.Submit(ctx, job); err != nil {
				runErr = err
				break
			}
		}
		pool.Close()
	}
	if ctx.Err() != nil {
		runErr = ctx.Err()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := f.save(slices.Clone(r.words)); err != nil {
		return r.words, r.sum, err
	}
	log.Info("done: success=%d skipped=%d failed=%d total=%d", r.sum.Success, r.sum.Skipped, r.sum.Failed, r.sum.Total)
	return r.words, r.sum, runErr
}
