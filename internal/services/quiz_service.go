package services

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/vytor/wortdrill/internal/errors"
	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/noun"
	"github.com/vytor/wortdrill/internal/progress"
	"github.com/vytor/wortdrill/internal/unit"
)

const (
	// GaveUpAnswer is stored as the wrong answer when the learner gives up
	// without typing anything.
	GaveUpAnswer = "(gave up)"

	DefaultTestSize      = 20
	FrequentMistakeCount = 3
)

// Test word sources.
const (
	SourceAll      = "all"
	SourceSelected = "selected"
	SourceUnit     = "unit"
	SourceMistakes = "mistakes"
)

// QuizService drives answering, learning, selection and tests on top of the
// progress store.
type QuizService interface {
	CheckAnswer(ctx context.Context, word, input string) (models.AnswerResult, error)
	GiveUp(ctx context.Context, word, input string) (models.AnswerResult, error)
	MarkLearned(ctx context.Context, word string) error
	LearnedWords(ctx context.Context) []string
	Mistakes(ctx context.Context, frequentOnly bool) []models.MistakeRecord
	RemoveMistake(ctx context.Context, word string) error
	Selection(ctx context.Context) models.Selection
	SetSelection(ctx context.Context, sel models.Selection) (models.Selection, error)
	ToggleUnit(ctx context.Context, unitID int) models.Selection
	FinishTest(ctx context.Context, mode string, correct, total, timeSpent int) (models.TestResult, error)
	TestResults(ctx context.Context) []models.TestResult
	ReviewWords(ctx context.Context, unitID int) ([]models.Word, error)
	TestWords(ctx context.Context, source string, unitID, count int, rng *rand.Rand) ([]models.Word, error)
}

type quizService struct {
	lexicon  LexiconService
	progress *progress.Store
}

// NewQuizService creates a new QuizService
func NewQuizService(lexicon LexiconService, store *progress.Store) QuizService {
	return &quizService{lexicon: lexicon, progress: store}
}

func (s *quizService) CheckAnswer(ctx context.Context, word, input string) (models.AnswerResult, error) {
	log := logger.FromContext(ctx)

	w, err := s.lexicon.WordByName(ctx, word)
	if err != nil {
		return models.AnswerResult{}, err
	}

	result := s.result(w, input)
	result.Correct = noun.Check(input, w.Word)
	log.Debug("answer checked: word=%q correct=%t", w.Word, result.Correct)

	s.progress.RecordStudySession(ctx, result.Correct)
	if !result.Correct {
		s.progress.AddMistake(ctx, w.Word, wrongAnswer(input), w.ZhCN)
	}
	return result, nil
}

func (s *quizService) GiveUp(ctx context.Context, word, input string) (models.AnswerResult, error) {
	w, err := s.lexicon.WordByName(ctx, word)
	if err != nil {
		return models.AnswerResult{}, err
	}
	logger.FromContext(ctx).Debug("gave up on %q", w.Word)

	s.progress.RecordStudySession(ctx, false)
	s.progress.AddMistake(ctx, w.Word, wrongAnswer(input), w.ZhCN)
	return s.result(w, input), nil
}

func (s *quizService) result(w models.Word, input string) models.AnswerResult {
	return models.AnswerResult{
		Word:     w.Word,
		Input:    input,
		Expected: noun.Parse(w.Word).ForPronunciation,
		FullForm: w.Word,
		ZhCN:     w.ZhCN,
	}
}

func wrongAnswer(input string) string {
	if strings.TrimSpace(input) == "" {
		return GaveUpAnswer
	}
	return strings.TrimSpace(input)
}

func (s *quizService) MarkLearned(ctx context.Context, word string) error {
	w, err := s.lexicon.WordByName(ctx, word)
	if err != nil {
		return err
	}
	s.progress.MarkLearned(ctx, w.Word)
	return nil
}

func (s *quizService) LearnedWords(ctx context.Context) []string {
	return s.progress.LearnedWords(ctx)
}

// Mistakes lists the ledger newest first. frequentOnly keeps words missed at
// least FrequentMistakeCount times, most missed first.
func (s *quizService) Mistakes(ctx context.Context, frequentOnly bool) []models.MistakeRecord {
	all := s.progress.Mistakes(ctx)
	if !frequentOnly {
		return all
	}

	frequent := make([]models.MistakeRecord, 0, len(all))
	for _, m := range all {
		if m.WrongCount >= FrequentMistakeCount {
			frequent = append(frequent, m)
		}
	}
	sort.SliceStable(frequent, func(i, j int) bool {
		return frequent[i].WrongCount > frequent[j].WrongCount
	})
	return frequent
}

func (s *quizService) RemoveMistake(ctx context.Context, word string) error {
	if _, ok := s.progress.Mistake(ctx, word); !ok {
		return errors.NewNotFoundError("mistake", word)
	}
	s.progress.RemoveMistake(ctx, word)
	return nil
}

func (s *quizService) Selection(ctx context.Context) models.Selection {
	return s.progress.SelectedUnits(ctx)
}

func (s *quizService) SetSelection(ctx context.Context, sel models.Selection) (models.Selection, error) {
	total := unit.Count(s.lexicon.Count())
	for _, id := range sel.IDs() {
		if id < 1 || id > total {
			return models.Selection{}, errors.NewValidationError("units", "unknown unit id")
		}
	}
	s.progress.SetSelectedUnits(ctx, sel)
	return sel, nil
}

func (s *quizService) ToggleUnit(ctx context.Context, unitID int) models.Selection {
	return s.progress.ToggleUnitSelection(ctx, unitID, unit.Count(s.lexicon.Count()))
}

func (s *quizService) FinishTest(ctx context.Context, mode string, correct, total, timeSpent int) (models.TestResult, error) {
	log := logger.FromContext(ctx)

	if total <= 0 {
		return models.TestResult{}, errors.NewValidationError("total", "must be greater than 0")
	}
	if correct < 0 || correct > total {
		return models.TestResult{}, errors.NewValidationError("correct", "must be between 0 and total")
	}
	if timeSpent < 0 {
		return models.TestResult{}, errors.NewValidationError("timeSpent", "cannot be negative")
	}
	if strings.TrimSpace(mode) == "" {
		mode = SourceAll
	}

	result := s.progress.SaveTestResult(ctx, models.TestResult{
		Mode:      mode,
		Correct:   correct,
		Total:     total,
		TimeSpent: timeSpent,
	})
	log.Info("test finished: mode=%s %d/%d in %ds", mode, correct, total, timeSpent)
	return result, nil
}

func (s *quizService) TestResults(ctx context.Context) []models.TestResult {
	return s.progress.TestResults(ctx)
}

// ReviewWords returns learned words of unitID in lexicon order, or of the
// current selection when unitID is 0.
func (s *quizService) ReviewWords(ctx context.Context, unitID int) ([]models.Word, error) {
	if unitID < 0 {
		return nil, errors.NewValidationError("unit", "cannot be negative")
	}

	var scope []models.Word
	if unitID == 0 {
		scope = s.lexicon.FilterByUnits(s.progress.SelectedUnits(ctx))
	} else {
		scope = s.lexicon.WordsByUnit(ctx, unitID)
	}

	learned := s.progress.LearnedSet(ctx)
	words := make([]models.Word, 0, len(scope))
	for _, w := range scope {
		if learned.Has(w.Word) {
			words = append(words, w)
		}
	}
	return words, nil
}

// TestWords draws up to count words from source in random order. A nil rng
// uses a time-seeded generator.
func (s *quizService) TestWords(ctx context.Context, source string, unitID, count int, rng *rand.Rand) ([]models.Word, error) {
	if count <= 0 {
		count = DefaultTestSize
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}

	var pool []models.Word
	switch source {
	case SourceAll, "":
		pool = s.lexicon.Words()
	case SourceSelected:
		pool = s.lexicon.FilterByUnits(s.progress.SelectedUnits(ctx))
	case SourceUnit:
		if unitID < 1 {
			return nil, errors.NewValidationError("unit", "required for unit tests")
		}
		pool = s.lexicon.WordsByUnit(ctx, unitID)
	case SourceMistakes:
		for _, m := range s.progress.Mistakes(ctx) {
			if w, err := s.lexicon.WordByName(ctx, m.Word); err == nil {
				pool = append(pool, w)
			}
		}
	default:
		return nil, errors.NewValidationError("source", "must be one of all, selected, unit, mistakes")
	}

	words := append([]models.Word(nil), pool...)
	rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	if len(words) > count {
		words = words[:count]
	}
	if words == nil {
		words = []models.Word{}
	}
	return words, nil
}
