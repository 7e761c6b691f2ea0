package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func testServer(t *testing.T) (*Server, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository(3)
	session, err := market.NewSession("UTC",
		[]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, "00:00", "23:59")
	require.NoError(t, err)
	e := engine.New(engine.Options{
		MinBars: 15, FastSpan: 20, SlowSpan: 50, AvgVolumeBars: 10,
		AcceptanceThreshold: 60, Thresholds: strategy.DefaultThresholds(),
	}, engine.Deps{
		Instruments: []model.Instrument{{Symbol: "RELIANCE.NS"}},
		Session:     session,
		Fetcher:     &collector.MockFetcher{},
		Cooldown:    cooldown.NewTracker(45*time.Minute, nil),
		Repo:        repo,
		Notifier:    notifier.NewConsoleNotifier(zerolog.Nop()),
		Log:         zerolog.Nop(),
	})
	return New("127.0.0.1:0", repo, e, 3, zerolog.Nop()), repo
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestSignalsEndpoint(t *testing.T) {
	s, repo := testServer(t)
	ts := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.Append(model.Signal{
			ID: id, Time: ts.Add(time.Duration(i) * time.Minute),
			Symbol: "RELIANCE.NS", Trend: model.TrendUp, Confidence: 80,
		}))
	}

	rec := get(t, s, "/signals")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var got []model.Signal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3, "signals endpoint serves the bounded recent view")
	require.Equal(t, "d", got[0].ID, "most-recent-first")
}

func TestHistoryEndpoint(t *testing.T) {
	s, repo := testServer(t)
	ts := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, repo.Append(model.Signal{ID: id, Time: ts.Add(time.Duration(i) * time.Minute), Symbol: "SBIN.NS"}))
	}

	rec := get(t, s, "/history")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []model.Signal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 4, "history serves the full durable log")
}

func TestHistoryEndpoint_EmptyIsArray(t *testing.T) {
	s, _ := testServer(t)
	rec := get(t, s, "/history")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "[]\n", rec.Body.String())
}

func TestStatusEndpoint(t *testing.T) {
	s, _ := testServer(t)
	rec := get(t, s, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var got statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, "ok", got.Status)
	require.True(t, got.MarketOpen)
	require.Equal(t, 1, got.Watchlist)
	require.Equal(t, "never", got.LastCycle.Outcome)
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/signals", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
