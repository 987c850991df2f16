// Package scheduler drives the daily collection-and-posting cycle and the
// monthly maintenance job.
package scheduler

import (
	"context"
	"time"

	"gamedealbot/config"
	"gamedealbot/internal/validator"
	"gamedealbot/logger"
	"gamedealbot/services/catalog"
	"gamedealbot/services/poster"
	"gamedealbot/services/store"
)

// Maintenance is the monthly job hook. The production wiring decides what
// runs there; the scheduler only owns the trigger.
type Maintenance interface {
	Run(ctx context.Context) error
}

// Deps collects the scheduler's collaborators
type Deps struct {
	Sources     []catalog.Source
	References  catalog.ReferenceSource
	Store       store.Store
	Poster      poster.Poster
	Sessions    validator.SessionFactory
	Extractors  map[string]validator.Extractor
	Maintenance Maintenance
}

// Scheduler runs the daily cycle at a configured wall-clock time and the
// maintenance job on the first of each month. Cycles run sequentially on
// the control goroutine; a posting loop spanning hours simply delays the
// next tick's check, it is never overlapped.
type Scheduler struct {
	cfg  *config.Config
	deps Deps

	lastDaily   time.Time
	lastMonthly time.Time

	// Overridable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) bool
}

// New creates a scheduler
func New(cfg *config.Config, deps Deps) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		deps:  deps,
		now:   time.Now,
		sleep: wait,
	}
}

// Run polls once a minute and fires due jobs until the context ends
func (s *Scheduler) Run(ctx context.Context) error {
	log := logger.ForScheduler()
	log.Info().
		Str("daily_at", s.cfg.DailyRunAt).
		Int("posts_per_day", s.cfg.PostsPerDay).
		Msg("Scheduler started")

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		s.tick(ctx)

		select {
		case <-ctx.Done():
			log.Info().Msg("Scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// tick fires at most one due job. Daily takes precedence; maintenance
// waits for the next tick if both are due, which keeps the two jobs
// strictly sequential.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()

	if s.dailyDue(now) {
		s.lastDaily = now
		if err := s.RunDailyCycle(ctx); err != nil {
			logger.ForScheduler().Error().Err(err).Msg("Daily cycle aborted")
		}
		return
	}

	if s.monthlyDue(now) {
		s.lastMonthly = now
		if s.deps.Maintenance == nil {
			return
		}
		if err := s.deps.Maintenance.Run(ctx); err != nil {
			logger.ForScheduler().Error().Err(err).Msg("Monthly maintenance failed")
		}
	}
}

func (s *Scheduler) dailyDue(now time.Time) bool {
	at, err := time.Parse("15:04", s.cfg.DailyRunAt)
	if err != nil {
		return false
	}
	target := time.Date(now.Year(), now.Month(), now.Day(), at.Hour(), at.Minute(), 0, 0, now.Location())
	if now.Before(target) {
		return false
	}
	return !sameDay(s.lastDaily, now)
}

// monthlyDue fires on the first of the month at 02:00 or later
func (s *Scheduler) monthlyDue(now time.Time) bool {
	if now.Day() != 1 || now.Hour() < 2 {
		return false
	}
	return s.lastMonthly.IsZero() ||
		s.lastMonthly.Month() != now.Month() || s.lastMonthly.Year() != now.Year()
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// wait sleeps for d unless the context ends first
func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
