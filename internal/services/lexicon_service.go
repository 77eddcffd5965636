package services

import (
	"context"
	"strings"

	"github.com/vytor/wortdrill/internal/errors"
	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/noun"
	"github.com/vytor/wortdrill/internal/unit"
)

// LexiconService answers read-only questions about the loaded word list.
type LexiconService interface {
	Words() []models.Word
	Count() int
	WordByName(ctx context.Context, word string) (models.Word, error)
	IndexOf(word string) (int, bool)
	WordsByUnit(ctx context.Context, unitID int) []models.Word
	FilterByUnits(sel models.Selection) []models.Word
	Search(query string, limit int) []models.Word
	Units() []models.Unit
	UnitList() []models.UnitSummary
	Parse(ctx context.Context, word string) (models.ParsedWord, error)
}

type lexiconService struct {
	words  []models.Word
	index  map[string]int
	parser *noun.Parser
}

// NewLexiconService indexes words. The slice must not be modified afterwards.
func NewLexiconService(words []models.Word, parser *noun.Parser) LexiconService {
	if parser == nil {
		parser = noun.NewParser()
	}
	index := make(map[string]int, len(words))
	for i, w := range words {
		if _, ok := index[w.Word]; !ok {
			index[w.Word] = i
		}
	}
	return &lexiconService{words: words, index: index, parser: parser}
}

func (s *lexiconService) Words() []models.Word {
	return s.words
}

func (s *lexiconService) Count() int {
	return len(s.words)
}

func (s *lexiconService) IndexOf(word string) (int, bool) {
	i, ok := s.index[word]
	return i, ok
}

func (s *lexiconService) WordByName(ctx context.Context, word string) (models.Word, error) {
	i, ok := s.index[word]
	if !ok {
		logger.FromContext(ctx).Debug("word not in lexicon: %q", word)
		return models.Word{}, errors.NewNotFoundError("word", word)
	}
	return s.words[i], nil
}

func (s *lexiconService) WordsByUnit(ctx context.Context, unitID int) []models.Word {
	words := unit.UnitWords(s.words, unitID)
	if len(words) == 0 {
		logger.FromContext(ctx).Debug("unit %d has no words (lexicon has %d units)", unitID, unit.Count(len(s.words)))
	}
	return words
}

func (s *lexiconService) FilterByUnits(sel models.Selection) []models.Word {
	return unit.FilterByUnits(s.words, sel)
}

// Search matches query case-insensitively against the raw word and the
// translation. A blank query matches nothing.
func (s *lexiconService) Search(query string, limit int) []models.Word {
	q := strings.ToLower(strings.TrimSpace(query))
	results := []models.Word{}
	if q == "" {
		return results
	}
	for _, w := range s.words {
		if strings.Contains(strings.ToLower(w.Word), q) || strings.Contains(strings.ToLower(w.ZhCN), q) {
			results = append(results, w)
			if limit > 0 && len(results) == limit {
				break
			}
		}
	}
	return results
}

func (s *lexiconService) Units() []models.Unit {
	return unit.CreateUnits(len(s.words))
}

func (s *lexiconService) UnitList() []models.UnitSummary {
	return unit.UnitList(s.words)
}

func (s *lexiconService) Parse(ctx context.Context, word string) (models.ParsedWord, error) {
	w, err := s.WordByName(ctx, word)
	if err != nil {
		return models.ParsedWord{}, err
	}
	return s.parser.Parse(w.Word), nil
}
