// Package engine implements the scan cycle: gate on the trading session,
// evaluate every watchlist instrument, persist accepted signals, and hand the
// batch to the notifier.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"MarketScout/internal/calculator"
	"MarketScout/internal/collector"
	"MarketScout/internal/cooldown"
	"MarketScout/internal/market"
	"MarketScout/internal/metrics"
	"MarketScout/internal/model"
	"MarketScout/internal/notifier"
	"MarketScout/internal/repository"
	"MarketScout/internal/strategy"
)

// ErrMarketClosed is returned by RunCycle when the session gate is closed; no
// collaborator is called in that case.
var ErrMarketClosed = errors.New("market closed")

// Error kinds recovered locally during instrument evaluation.
var (
	// ErrDataUnavailable covers empty or undersized windows and unreachable
	// data sources. The instrument is skipped for the cycle.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInvalidArithmetic covers division by zero and non-numeric cells in
	// the closes used for the percent change.
	ErrInvalidArithmetic = errors.New("invalid arithmetic")
)

// Options holds every tunable of the engine. A single structured value at
// construction, no scattered constants.
type Options struct {
	MinBars             int
	FastSpan            int
	SlowSpan            int
	AvgVolumeBars       int
	AcceptanceThreshold int
	Thresholds          strategy.Thresholds
	Lookback            string
	BarInterval         string
	// DropLastBar discards the newest bar before evaluating, so a still
	// forming partial interval never gets scored.
	DropLastBar bool
}

// Deps are the engine's collaborators. The engine is the only writer of
// signals and cooldown transitions; repository and tracker serialize their
// own state internally.
type Deps struct {
	Instruments []model.Instrument
	Session     market.Session
	Fetcher     collector.Fetcher
	Cooldown    *cooldown.Tracker
	Repo        repository.Repository
	Notifier    notifier.Notifier
	Log         zerolog.Logger
	Now         func() time.Time
}

// CycleInfo summarizes the most recent cycle for the status surface.
type CycleInfo struct {
	Time     time.Time `json:"time"`
	Outcome  string    `json:"outcome"` // "scanned", "closed", "never"
	Scanned  int       `json:"scanned"`
	Accepted int       `json:"accepted"`
}

// Engine runs scan cycles over the instrument universe.
type Engine struct {
	opts Options
	deps Deps

	mu   sync.Mutex
	last CycleInfo
}

func New(opts Options, deps Deps) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Engine{opts: opts, deps: deps, last: CycleInfo{Outcome: "never"}}
}

type rejection string

const (
	rejectNone      rejection = ""
	rejectThreshold rejection = "below_threshold"
	rejectCooldown  rejection = "cooldown"
)

// RunCycle executes one scan cycle and returns the accepted batch. When the
// session is closed the whole cycle is skipped and ErrMarketClosed is
// returned without touching any collaborator. Failure of one instrument never
// aborts the cycle.
func (e *Engine) RunCycle(ctx context.Context) ([]model.Signal, error) {
	now := e.deps.Now()
	if !e.deps.Session.IsOpen(now) {
		metrics.CyclesTotal.WithLabelValues("closed").Inc()
		e.record(CycleInfo{Time: now, Outcome: "closed"})
		return nil, ErrMarketClosed
	}

	start := time.Now()
	var batch []model.Signal
	scanned := 0

	for _, inst := range e.deps.Instruments {
		if ctx.Err() != nil {
			return batch, ctx.Err()
		}
		scanned++

		sig, reject, err := e.evaluateInstrument(ctx, inst)
		if err != nil {
			reason := "data_unavailable"
			if errors.Is(err, ErrInvalidArithmetic) {
				reason = "invalid_arithmetic"
			}
			metrics.InstrumentsSkipped.WithLabelValues(reason).Inc()
			e.deps.Log.Debug().Str("symbol", inst.Symbol).Err(err).Msg("instrument skipped")
			continue
		}
		if reject != rejectNone {
			metrics.InstrumentsSkipped.WithLabelValues(string(reject)).Inc()
			continue
		}

		// Durable write happens before the signal joins the outbound batch:
		// a crash after Append still leaves a record, never the reverse.
		if err := e.deps.Repo.Append(*sig); err != nil {
			metrics.InstrumentsSkipped.WithLabelValues("append_error").Inc()
			e.deps.Log.Error().Str("symbol", inst.Symbol).Err(err).Msg("append signal")
			continue
		}
		metrics.SignalsAccepted.WithLabelValues(inst.Symbol).Inc()
		batch = append(batch, *sig)
	}

	if len(batch) > 0 {
		e.dispatch(batch)
	}

	metrics.CyclesTotal.WithLabelValues("scanned").Inc()
	metrics.CycleDuration.Observe(time.Since(start).Seconds())
	e.record(CycleInfo{Time: now, Outcome: "scanned", Scanned: scanned, Accepted: len(batch)})
	e.deps.Log.Info().Int("scanned", scanned).Int("accepted", len(batch)).Msg("cycle complete")
	return batch, nil
}

func (e *Engine) evaluateInstrument(ctx context.Context, inst model.Instrument) (*model.Signal, rejection, error) {
	window, err := e.deps.Fetcher.FetchWindow(ctx, inst.Symbol, e.opts.Lookback, e.opts.BarInterval)
	if err != nil {
		return nil, rejectNone, fmt.Errorf("%w: fetch %s: %v", ErrDataUnavailable, inst.Symbol, err)
	}
	if e.opts.DropLastBar && len(window) > 0 {
		window = window[:len(window)-1]
	}
	if !window.Usable(e.opts.MinBars) {
		return nil, rejectNone, fmt.Errorf("%w: %s: window has %d bars, need %d",
			ErrDataUnavailable, inst.Symbol, len(window), e.opts.MinBars)
	}

	prev := window.PreviousClose()
	last := window.LastClose()
	if !finite(prev) || !finite(last) {
		return nil, rejectNone, fmt.Errorf("%w: %s: non-numeric close", ErrInvalidArithmetic, inst.Symbol)
	}
	if prev == 0 {
		return nil, rejectNone, fmt.Errorf("%w: %s: previous close is zero", ErrInvalidArithmetic, inst.Symbol)
	}
	percentChange := (last - prev) / prev * 100

	trend := strategy.ClassifyTrend(window, e.opts.FastSpan, e.opts.SlowSpan)
	avgVolume := calculator.AverageVolume(window, e.opts.AvgVolumeBars)
	curVolume := window.LastVolume()

	confidence := strategy.Confidence(percentChange, curVolume, avgVolume, trend, e.opts.Thresholds)
	if confidence < e.opts.AcceptanceThreshold {
		return nil, rejectThreshold, nil
	}
	if !e.deps.Cooldown.Allow(inst.Symbol) {
		return nil, rejectCooldown, nil
	}

	return &model.Signal{
		ID:            uuid.NewString(),
		Time:          e.deps.Now(),
		Symbol:        inst.Symbol,
		Sector:        inst.Sector,
		PercentChange: percentChange,
		Volume:        curVolume,
		Trend:         trend,
		Confidence:    confidence,
	}, rejectNone, nil
}

// dispatch hands the batch to the notifier without blocking the scan loop.
// Failures are counted, logged, and discarded.
func (e *Engine) dispatch(batch []model.Signal) {
	text := notifier.FormatBatch(batch)
	go func() {
		if err := e.deps.Notifier.Send(text); err != nil {
			metrics.NotifyFailures.Inc()
			e.deps.Log.Warn().Err(err).Int("signals", len(batch)).Msg("notification discarded")
		}
	}()
}

func (e *Engine) record(info CycleInfo) {
	e.mu.Lock()
	e.last = info
	e.mu.Unlock()
}

// LastCycle returns a snapshot of the most recent cycle.
func (e *Engine) LastCycle() CycleInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

// MarketOpen reports the session gate for the current time.
func (e *Engine) MarketOpen() bool {
	return e.deps.Session.IsOpen(e.deps.Now())
}

// Universe returns the watchlist size.
func (e *Engine) Universe() int {
	return len(e.deps.Instruments)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
