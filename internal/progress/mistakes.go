package progress

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/repository"
)

// AddMistake records a wrong answer for word. The first mistake creates the
// record; later ones bump the count, append the answer (keeping only the
// newest answers) and refresh the date. A non-empty zhCN replaces the stored
// translation.
func (s *Store) AddMistake(ctx context.Context, word, wrongAnswer, zhCN string) {
	if word == "" {
		return
	}
	now := s.now()

	s.mutate(ctx, KeyMistakes, func(cur []byte, _ bool) ([]byte, error) {
		ledger, err := decodeMistakes(cur)
		if err != nil {
			recoverCorrupt(ctx, KeyMistakes, err)
			ledger = make(map[string]models.MistakeRecord)
		}

		rec, ok := ledger[word]
		if !ok {
			rec = models.MistakeRecord{Word: word, ZhCN: zhCN}
		}
		rec.WrongCount++
		rec.WrongAnswers = append(rec.WrongAnswers, wrongAnswer)
		if over := len(rec.WrongAnswers) - s.maxWrongAnswers; over > 0 {
			rec.WrongAnswers = append([]string(nil), rec.WrongAnswers[over:]...)
		}
		rec.LastWrongDate = now
		if strings.TrimSpace(zhCN) != "" {
			rec.ZhCN = zhCN
		}
		ledger[word] = rec

		return json.Marshal(ledger)
	})
}

// RemoveMistake deletes the record for word if there is one.
func (s *Store) RemoveMistake(ctx context.Context, word string) {
	s.mutate(ctx, KeyMistakes, func(cur []byte, _ bool) ([]byte, error) {
		ledger, err := decodeMistakes(cur)
		if err != nil {
			recoverCorrupt(ctx, KeyMistakes, err)
			return json.Marshal(map[string]models.MistakeRecord{})
		}
		if _, ok := ledger[word]; !ok {
			return nil, repository.ErrSkipWrite
		}
		delete(ledger, word)
		return json.Marshal(ledger)
	})
}

// Mistakes returns the ledger, most recent mistake first, ties by word.
func (s *Store) Mistakes(ctx context.Context) []models.MistakeRecord {
	ledger := s.mistakes(ctx)

	list := make([]models.MistakeRecord, 0, len(ledger))
	for _, rec := range ledger {
		list = append(list, rec)
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].LastWrongDate.Equal(list[j].LastWrongDate) {
			return list[i].LastWrongDate.After(list[j].LastWrongDate)
		}
		return list[i].Word < list[j].Word
	})
	return list
}

func (s *Store) Mistake(ctx context.Context, word string) (models.MistakeRecord, bool) {
	rec, ok := s.mistakes(ctx)[word]
	return rec, ok
}

func (s *Store) mistakes(ctx context.Context) map[string]models.MistakeRecord {
	raw, ok := s.read(ctx, KeyMistakes)
	if !ok {
		return map[string]models.MistakeRecord{}
	}
	ledger, err := decodeMistakes(raw)
	if err != nil {
		s.discard(ctx, KeyMistakes, err)
		return map[string]models.MistakeRecord{}
	}
	return ledger
}
