package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"MarketScout/internal/model"
)

// GuardedFetcher decorates a Fetcher with a per-call timeout, a token-bucket
// rate limit, and a circuit breaker. One unresponsive provider then costs a
// bounded wait per instrument instead of stalling the whole cycle, and a
// provider that keeps failing trips open rather than being hammered.
type GuardedFetcher struct {
	inner   Fetcher
	timeout time.Duration
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewGuardedFetcher wraps inner. rps/burst bound the request rate; timeout
// bounds each FetchWindow call.
func NewGuardedFetcher(inner Fetcher, timeout time.Duration, rps float64, burst int) *GuardedFetcher {
	settings := gobreaker.Settings{
		Name:    inner.Name(),
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &GuardedFetcher{
		inner:   inner,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (g *GuardedFetcher) Name() string { return g.inner.Name() }

func (g *GuardedFetcher) FetchWindow(ctx context.Context, symbol, lookback, interval string) (model.Window, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()
		return g.inner.FetchWindow(callCtx, symbol, lookback, interval)
	})
	if err != nil {
		return nil, err
	}
	window, _ := result.(model.Window)
	return window, nil
}
