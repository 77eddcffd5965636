package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/progress"
)

const (
	DefaultRetentionDays = 365
	pruneAt              = "03:00"
)

// Pruner drops day counters older than a cutoff and reports how many went.
type Pruner interface {
	PruneDailyStats(ctx context.Context, before time.Time) int
}

var _ Pruner = (*progress.Store)(nil)

// Scheduler manages scheduled maintenance tasks
type Scheduler struct {
	scheduler     *gocron.Scheduler
	pruner        Pruner
	retentionDays int
	now           func() time.Time
	log           *logger.Logger
}

// New creates a scheduler running in loc.
func New(pruner Pruner, retentionDays int, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	return &Scheduler{
		scheduler:     gocron.NewScheduler(loc),
		pruner:        pruner,
		retentionDays: retentionDays,
		now:           time.Now,
		log:           logger.Default().WithPrefix("scheduler"),
	}
}

// Start registers the daily prune and runs the scheduler in the background.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(pruneAt).Do(s.pruneJob); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.log.Info("daily stats pruning scheduled at %s, keeping %d days", pruneAt, s.retentionDays)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) pruneJob() {
	ctx := logger.NewContext(context.Background(), s.log)
	s.Prune(ctx)
}

// Prune removes day counters older than the retention window.
func (s *Scheduler) Prune(ctx context.Context) int {
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)
	removed := s.pruner.PruneDailyStats(ctx, cutoff)
	if removed > 0 {
		s.log.Info("pruned %d day counters before %s", removed, cutoff.Format(time.DateOnly))
	} else {
		s.log.Debug("no day counters before %s", cutoff.Format(time.DateOnly))
	}
	return removed
}
