package services

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/progress"
	"github.com/vytor/wortdrill/internal/unit"
)

const (
	DefaultDailyGoal = 20
	recentTestCount  = 5
	dashboardTTL     = time.Minute
)

// StatsService builds the learning dashboard and per-unit progress.
type StatsService interface {
	Dashboard(ctx context.Context) models.Dashboard
	Units(ctx context.Context) []models.UnitWithProgress
	Close()
}

type statsService struct {
	lexicon   LexiconService
	progress  *progress.Store
	dailyGoal int

	mu          sync.Mutex
	cached      *models.Dashboard
	cachedAt    time.Time
	generation  uint64
	unsubscribe func()
}

// NewStatsService creates a StatsService. The dashboard is cached until the
// progress store reports a write, and for at most a minute so day
// boundaries are picked up.
func NewStatsService(lexicon LexiconService, store *progress.Store, dailyGoal int) StatsService {
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}
	s := &statsService{lexicon: lexicon, progress: store, dailyGoal: dailyGoal}
	s.unsubscribe = store.Subscribe(func(string) { s.invalidate() })
	return s
}

func (s *statsService) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.generation++
	s.mu.Unlock()
}

func (s *statsService) Close() {
	s.unsubscribe()
}

func (s *statsService) Dashboard(ctx context.Context) models.Dashboard {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	if s.cached != nil && time.Since(s.cachedAt) < dashboardTTL {
		d := *s.cached
		s.mu.Unlock()
		log.Debug("dashboard served from cache")
		return d
	}
	gen := s.generation
	s.mu.Unlock()

	d := s.buildDashboard(ctx)

	s.mu.Lock()
	if s.generation == gen {
		s.cached = &d
		s.cachedAt = time.Now()
	}
	s.mu.Unlock()
	return d
}

func (s *statsService) buildDashboard(ctx context.Context) models.Dashboard {
	log := logger.FromContext(ctx)
	log.Debug("building dashboard")

	words := s.lexicon.Words()
	learned := s.progress.LearnedSet(ctx)
	study := s.progress.StudyStats(ctx)

	totalLearned := 0
	for _, w := range words {
		if learned.Has(w.Word) {
			totalLearned++
		}
	}

	d := models.Dashboard{
		TodayCount:    study.TodayCount,
		DailyGoal:     s.dailyGoal,
		GoalProgress:  min(100, unit.Percentage(study.TodayCount, s.dailyGoal)),
		GoalCompleted: study.TodayCount >= s.dailyGoal,
		Streak:        study.Streak,
		LongestStreak: study.LongestStreak,
		TotalLearned:  totalLearned,
		TotalWords:    len(words),
		Percentage:    unit.Percentage(totalLearned, len(words)),
	}

	for _, m := range s.progress.Mistakes(ctx) {
		d.MistakeCount++
		if m.WrongCount >= FrequentMistakeCount {
			d.FrequentMistakes++
		}
		d.MaxWrongCount = max(d.MaxWrongCount, m.WrongCount)
		if _, ok := s.lexicon.IndexOf(m.Word); ok {
			d.DueCount++
		}
	}

	results := s.progress.TestResults(ctx)
	d.RecentTestResults = make([]models.TestResult, 0, recentTestCount)
	for i := len(results) - 1; i >= 0 && len(d.RecentTestResults) < recentTestCount; i-- {
		d.RecentTestResults = append(d.RecentTestResults, results[i])
	}
	return d
}

func (s *statsService) Units(ctx context.Context) []models.UnitWithProgress {
	return unit.AllProgress(s.progress.LearnedSet(ctx), s.lexicon.Words())
}
