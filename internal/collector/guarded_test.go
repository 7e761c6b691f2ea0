package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"MarketScout/internal/model"
)

type flakyFetcher struct {
	err   error
	calls int
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchWindow(ctx context.Context, _, _, _ string) (model.Window, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	return GenerateBars(100, 1000, 20), nil
}

func TestGuardedFetcher_PassesThrough(t *testing.T) {
	inner := &flakyFetcher{}
	g := NewGuardedFetcher(inner, 10*time.Second, 100, 10)

	w, err := g.FetchWindow(context.Background(), "RELIANCE.NS", "1d", "5m")
	require.NoError(t, err)
	require.Len(t, w, 20)
	require.Equal(t, 1, inner.calls)
}

func TestGuardedFetcher_BreakerTripsAfterConsecutiveFailures(t *testing.T) {
	inner := &flakyFetcher{err: errors.New("provider down")}
	g := NewGuardedFetcher(inner, 10*time.Second, 100, 10)

	for i := 0; i < 5; i++ {
		_, err := g.FetchWindow(context.Background(), "RELIANCE.NS", "1d", "5m")
		require.Error(t, err)
	}
	callsBefore := inner.calls

	// Breaker is open now: the inner fetcher must not be invoked again.
	_, err := g.FetchWindow(context.Background(), "RELIANCE.NS", "1d", "5m")
	require.Error(t, err)
	require.Equal(t, callsBefore, inner.calls, "open breaker must short-circuit the provider call")
}

func TestGuardedFetcher_CancelledContext(t *testing.T) {
	inner := &flakyFetcher{}
	g := NewGuardedFetcher(inner, 10*time.Second, 100, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.FetchWindow(ctx, "RELIANCE.NS", "1d", "5m")
	require.Error(t, err)
}
