package progress

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/repository"
)

// MarkLearned adds word to the learned set. Marking a word twice is a no-op.
func (s *Store) MarkLearned(ctx context.Context, word string) {
	if word == "" {
		return
	}
	s.mutate(ctx, KeyLearnedWords, func(cur []byte, _ bool) ([]byte, error) {
		words, err := decodeLearned(cur)
		if err != nil {
			recoverCorrupt(ctx, KeyLearnedWords, err)
			words = nil
		} else if slices.Contains(words, word) {
			return nil, repository.ErrSkipWrite
		}
		return json.Marshal(append(words, word))
	})
}

// LearnedWords returns learned words in the order they were marked.
func (s *Store) LearnedWords(ctx context.Context) []string {
	raw, ok := s.read(ctx, KeyLearnedWords)
	if !ok {
		return []string{}
	}
	words, err := decodeLearned(raw)
	if err != nil {
		s.discard(ctx, KeyLearnedWords, err)
		return []string{}
	}
	if words == nil {
		words = []string{}
	}
	return words
}

func (s *Store) LearnedSet(ctx context.Context) models.LearnedSet {
	return models.NewLearnedSet(s.LearnedWords(ctx)...)
}

func (s *Store) IsLearned(ctx context.Context, word string) bool {
	return slices.Contains(s.LearnedWords(ctx), word)
}
