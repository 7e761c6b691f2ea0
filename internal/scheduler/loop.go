// Package scheduler drives the engine: a recurring timer for scan cycles and
// a cron entry for the end-of-day digest.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"MarketScout/internal/engine"
	"MarketScout/internal/metrics"
	"MarketScout/internal/model"
	"MarketScout/internal/notifier"
	"MarketScout/internal/repository"
)

// Intervals are the re-arm delays of the scan loop.
type Intervals struct {
	// Active is the delay after a completed scan cycle.
	Active time.Duration
	// Idle is the re-check delay while the market is closed.
	Idle time.Duration
	// Backoff is the delay after an unexpected cycle failure.
	Backoff time.Duration
}

// Loop owns the scan timer and the digest cron. Cycles themselves live in the
// engine so tests can drive them directly without wall-clock delays.
type Loop struct {
	engine    *engine.Engine
	repo      repository.Repository
	notifier  notifier.Notifier
	intervals Intervals
	cron      *cron.Cron
	log       zerolog.Logger
	loc       *time.Location
}

func NewLoop(e *engine.Engine, repo repository.Repository, n notifier.Notifier, intervals Intervals, loc *time.Location, log zerolog.Logger) *Loop {
	return &Loop{
		engine:    e,
		repo:      repo,
		notifier:  n,
		intervals: intervals,
		cron:      cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		log:       log,
		loc:       loc,
	}
}

// Run blocks until ctx is cancelled, firing scan cycles on the configured
// cadence. The first cycle fires immediately.
func (l *Loop) Run(ctx context.Context) {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			l.log.Info().Msg("scan loop stopped")
			return
		case <-timer.C:
			timer.Reset(l.runOnce(ctx))
		}
	}
}

// runOnce executes a cycle and returns the next re-arm delay. A closed market
// re-checks on the idle cadence; any other cycle-level failure backs off and
// the loop keeps running.
func (l *Loop) runOnce(ctx context.Context) time.Duration {
	_, err := l.engine.RunCycle(ctx)
	switch {
	case err == nil:
		return l.intervals.Active
	case errors.Is(err, engine.ErrMarketClosed):
		l.log.Debug().Msg("market closed, idling")
		return l.intervals.Idle
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return l.intervals.Backoff
	default:
		metrics.CyclesTotal.WithLabelValues("failed").Inc()
		l.log.Error().Err(err).Msg("scan cycle failed, backing off")
		return l.intervals.Backoff
	}
}

// RegisterDigest schedules the end-of-day summary on the given cron spec
// (seconds field included, session-local time).
func (l *Loop) RegisterDigest(spec string) error {
	if _, err := l.cron.AddFunc(spec, l.sendDigest); err != nil {
		return fmt.Errorf("register digest: %w", err)
	}
	return nil
}

// StartCron starts the cron scheduler; StopCron stops it gracefully.
func (l *Loop) StartCron() { l.cron.Start() }
func (l *Loop) StopCron()  { l.cron.Stop() }

// sendDigest mails the day's accepted signals. Best-effort like every other
// outbound call.
func (l *Loop) sendDigest() {
	now := time.Now().In(l.loc)
	signals, err := l.signalsForDay(now)
	if err != nil {
		l.log.Error().Err(err).Msg("digest query")
		return
	}
	if err := l.notifier.Send(notifier.FormatDigest(now, signals)); err != nil {
		metrics.NotifyFailures.Inc()
		l.log.Warn().Err(err).Msg("digest discarded")
	}
}

// signalsForDay filters the durable log down to the given session-local day,
// oldest first.
func (l *Loop) signalsForDay(day time.Time) ([]model.Signal, error) {
	all, err := l.repo.All()
	if err != nil {
		return nil, err
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, l.loc)
	end := start.AddDate(0, 0, 1)

	var out []model.Signal
	for i := len(all) - 1; i >= 0; i-- { // all is most-recent-first
		ts := all[i].Time.In(l.loc)
		if !ts.Before(start) && ts.Before(end) {
			out = append(out, all[i])
		}
	}
	return out, nil
}
