package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"MarketScout/internal/collector"
	"MarketScout/internal/cooldown"
	"MarketScout/internal/engine"
	"MarketScout/internal/market"
	"MarketScout/internal/model"
	"MarketScout/internal/notifier"
	"MarketScout/internal/repository"
	"MarketScout/internal/strategy"
)

func testLoop(t *testing.T, repo repository.Repository) *Loop {
	t.Helper()
	session, err := market.NewSession("UTC",
		[]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, "00:00", "23:59")
	require.NoError(t, err)

	e := engine.New(engine.Options{
		MinBars:             15,
		FastSpan:            20,
		SlowSpan:            50,
		AvgVolumeBars:       10,
		AcceptanceThreshold: 60,
		Thresholds:          strategy.DefaultThresholds(),
		Lookback:            "1d",
		BarInterval:         "5m",
	}, engine.Deps{
		Instruments: []model.Instrument{{Symbol: "RELIANCE.NS"}},
		Session:     session,
		Fetcher:     &collector.MockFetcher{},
		Cooldown:    cooldown.NewTracker(45*time.Minute, nil),
		Repo:        repo,
		Notifier:    notifier.NewConsoleNotifier(zerolog.Nop()),
		Log:         zerolog.Nop(),
	})
	return NewLoop(e, repo, notifier.NewConsoleNotifier(zerolog.Nop()),
		Intervals{Active: 5 * time.Millisecond, Idle: 5 * time.Millisecond, Backoff: 5 * time.Millisecond},
		time.UTC, zerolog.Nop())
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	l := testLoop(t, repository.NewMemoryRepository(10))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond) // let a few cycles fire
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on cancellation")
	}
}

func TestRunOnce_IntervalSelection(t *testing.T) {
	l := testLoop(t, repository.NewMemoryRepository(10))
	// The mock fetcher returns empty windows, so the cycle completes with
	// zero acceptances and the loop re-arms on the active interval.
	require.Equal(t, l.intervals.Active, l.runOnce(context.Background()))
}

func TestRunOnce_ClosedMarketUsesIdleInterval(t *testing.T) {
	session, err := market.NewSession("UTC", []string{"Mon"}, "09:00", "10:00")
	require.NoError(t, err)
	repo := repository.NewMemoryRepository(10)
	// Saturday, well outside the Monday-only session.
	now := time.Date(2025, 6, 14, 12, 0, 0, 0, time.UTC)
	e := engine.New(engine.Options{MinBars: 15, FastSpan: 20, SlowSpan: 50, AvgVolumeBars: 10, AcceptanceThreshold: 60, Thresholds: strategy.DefaultThresholds()}, engine.Deps{
		Session:  session,
		Fetcher:  &collector.MockFetcher{},
		Cooldown: cooldown.NewTracker(45*time.Minute, nil),
		Repo:     repo,
		Notifier: notifier.NewConsoleNotifier(zerolog.Nop()),
		Log:      zerolog.Nop(),
		Now:      func() time.Time { return now },
	})
	l := NewLoop(e, repo, notifier.NewConsoleNotifier(zerolog.Nop()),
		Intervals{Active: time.Minute, Idle: time.Second, Backoff: time.Hour},
		time.UTC, zerolog.Nop())

	require.Equal(t, time.Second, l.runOnce(context.Background()))
}

func TestRegisterDigest(t *testing.T) {
	l := testLoop(t, repository.NewMemoryRepository(10))
	require.NoError(t, l.RegisterDigest("0 0 18 * * 1-5"))
	require.Error(t, l.RegisterDigest("not a cron spec"))
}

func TestSignalsForDay(t *testing.T) {
	repo := repository.NewMemoryRepository(10)
	l := testLoop(t, repo)

	today := time.Date(2025, 6, 10, 11, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	require.NoError(t, repo.Append(model.Signal{ID: "old", Time: yesterday, Symbol: "SBIN.NS"}))
	require.NoError(t, repo.Append(model.Signal{ID: "a", Time: today, Symbol: "RELIANCE.NS"}))
	require.NoError(t, repo.Append(model.Signal{ID: "b", Time: today.Add(time.Hour), Symbol: "HDFCBANK.NS"}))

	got, err := l.signalsForDay(today)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Oldest first for the digest narrative.
	require.Equal(t, "a", got[0].ID)
	require.Equal(t, "b", got[1].ID)
}
