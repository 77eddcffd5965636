package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/vytor/wortdrill/internal/models"
	"github.com/vytor/wortdrill/internal/repository"
)

const dayLayout = "2006-01-02"

// dayKey formats the calendar day of t in the store's zone.
func (s *Store) dayKey(t time.Time) string {
	return t.In(s.loc).Format(dayLayout)
}

// yesterday uses noon so a DST shift cannot land on the wrong day.
func (s *Store) yesterday(t time.Time) string {
	t = t.In(s.loc)
	y, m, d := t.Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, s.loc).Format(dayLayout)
}

// RecordStudySession counts one answered word for today. The streak grows
// at most once per day; a gap of more than one day restarts it at 1.
func (s *Store) RecordStudySession(ctx context.Context, wasCorrect bool) {
	now := s.now()
	today := s.dayKey(now)
	yesterday := s.yesterday(now)

	s.mutate(ctx, KeyStudyStats, func(cur []byte, _ bool) ([]byte, error) {
		stats, err := decodeStudyStats(cur)
		if err != nil {
			recoverCorrupt(ctx, KeyStudyStats, err)
		}

		day := stats.Days[today]
		day.Count++
		if wasCorrect {
			day.Correct++
		}
		stats.Days[today] = day

		switch stats.LastActiveDate {
		case today:
			if stats.Streak < 1 {
				stats.Streak = 1
			}
		case yesterday:
			stats.Streak++
		default:
			stats.Streak = 1
		}
		stats.LongestStreak = max(stats.LongestStreak, stats.Streak)
		stats.LastActiveDate = today

		return json.Marshal(stats)
	})
}

// StudyStats summarises today's counters and the streak. A streak whose last
// day is older than yesterday is reported as 0.
func (s *Store) StudyStats(ctx context.Context) models.StudySummary {
	stats := s.studyStats(ctx)
	now := s.now()
	today := s.dayKey(now)

	summary := models.StudySummary{
		Today:          today,
		TodayCount:     stats.Days[today].Count,
		TodayCorrect:   stats.Days[today].Correct,
		LongestStreak:  stats.LongestStreak,
		LastActiveDate: stats.LastActiveDate,
	}
	if stats.LastActiveDate == today || stats.LastActiveDate == s.yesterday(now) {
		summary.Streak = stats.Streak
	}
	return summary
}

// DailyCounts returns the stored per-day counters keyed by YYYY-MM-DD.
func (s *Store) DailyCounts(ctx context.Context) map[string]models.DayStats {
	return s.studyStats(ctx).Days
}

// PruneDailyStats drops day counters older than the calendar day of before
// and returns how many were removed. Streak fields are kept.
func (s *Store) PruneDailyStats(ctx context.Context, before time.Time) int {
	cutoff := s.dayKey(before)
	removed := 0

	s.mutate(ctx, KeyStudyStats, func(cur []byte, _ bool) ([]byte, error) {
		removed = 0
		stats, err := decodeStudyStats(cur)
		if err != nil {
			recoverCorrupt(ctx, KeyStudyStats, err)
			return json.Marshal(stats)
		}
		for day := range stats.Days {
			if day < cutoff {
				delete(stats.Days, day)
				removed++
			}
		}
		if removed == 0 {
			return nil, repository.ErrSkipWrite
		}
		return json.Marshal(stats)
	})
	return removed
}

func (s *Store) studyStats(ctx context.Context) models.StudyStats {
	raw, ok := s.read(ctx, KeyStudyStats)
	if !ok {
		return models.StudyStats{Days: map[string]models.DayStats{}}
	}
	stats, err := decodeStudyStats(raw)
	if err != nil {
		s.discard(ctx, KeyStudyStats, err)
		return models.StudyStats{Days: map[string]models.DayStats{}}
	}
	return stats
}
