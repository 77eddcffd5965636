package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wortdrill/internal/progress"
	"github.com/vytor/wortdrill/internal/repository/memory"
)

func TestScheduler_PruneKeepsRetentionWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	clock := now

	store := progress.New(memory.New(),
		progress.WithClock(func() time.Time { return clock }),
		progress.WithLocation(time.UTC))

	for _, d := range []time.Time{now.AddDate(0, 0, -40), now.AddDate(0, 0, -31), now.AddDate(0, 0, -2), now} {
		clock = d
		store.RecordStudySession(ctx, true)
	}

	s := New(store, 30, time.UTC)
	s.now = func() time.Time { return now }

	assert.Equal(t, 2, s.Prune(ctx))
	days := store.DailyCounts(ctx)
	assert.Len(t, days, 2)
	assert.Contains(t, days, "2026-03-10")
	assert.Contains(t, days, "2026-03-08")

	assert.Equal(t, 0, s.Prune(ctx))
}

type countingPruner struct{ calls int }

func (c *countingPruner) PruneDailyStats(context.Context, time.Time) int {
	c.calls++
	return 0
}

func TestScheduler_Defaults(t *testing.T) {
	s := New(&countingPruner{}, 0, nil)
	assert.Equal(t, DefaultRetentionDays, s.retentionDays)
}

func TestScheduler_StartStop(t *testing.T) {
	p := &countingPruner{}
	s := New(p, 7, time.UTC)
	require.NoError(t, s.Start())
	assert.True(t, s.scheduler.IsRunning())
	s.Stop()
	assert.False(t, s.scheduler.IsRunning())
}
