package notifier

import (
	"strings"
	"testing"
	"time"

	"MarketScout/internal/model"
)

func sampleSignals() []model.Signal {
	ts := time.Date(2025, 6, 10, 10, 30, 0, 0, time.UTC)
	return []model.Signal{
		{ID: "a", Time: ts, Symbol: "RELIANCE.NS", PercentChange: 2.1, Volume: 500000, Trend: model.TrendUp, Confidence: 100},
		{ID: "b", Time: ts, Symbol: "SBIN.NS", PercentChange: -1.4, Volume: 300000, Trend: model.TrendDown, Confidence: 70},
	}
}

func TestFormatBatch(t *testing.T) {
	msg := FormatBatch(sampleSignals())
	for _, want := range []string{"RELIANCE.NS", "SBIN.NS", "+2.10%", "-1.40%", "100/100"} {
		if !strings.Contains(msg, want) {
			t.Errorf("batch message missing %q:\n%s", want, msg)
		}
	}
	// Iteration order is preserved, no re-sorting.
	if strings.Index(msg, "RELIANCE.NS") > strings.Index(msg, "SBIN.NS") {
		t.Error("batch message must preserve instrument-iteration order")
	}
}

func TestFormatDigest(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	msg := FormatDigest(day, sampleSignals())
	for _, want := range []string{"2025-06-10", "Signals accepted: 2", "Top mover: RELIANCE.NS"} {
		if !strings.Contains(msg, want) {
			t.Errorf("digest missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatDigest_Empty(t *testing.T) {
	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	msg := FormatDigest(day, nil)
	if !strings.Contains(msg, "No signals accepted today.") {
		t.Errorf("empty digest should say so:\n%s", msg)
	}
}

func TestFormatRecent(t *testing.T) {
	if got := FormatRecent(nil); got != "No recent signals." {
		t.Errorf("unexpected empty-view reply: %q", got)
	}
	msg := FormatRecent(sampleSignals())
	if !strings.Contains(msg, "conf=100") {
		t.Errorf("recent reply missing confidence:\n%s", msg)
	}
}
