package notifier

import (
	"fmt"
	"strings"
	"time"

	"MarketScout/internal/model"
)

func trendArrow(t model.TrendLabel) string {
	switch t {
	case model.TrendUp:
		return "📈"
	case model.TrendDown:
		return "📉"
	default:
		return "➖"
	}
}

// FormatBatch renders one scan cycle's accepted signals as a single message,
// in instrument-iteration order.
func FormatBatch(batch []model.Signal) string {
	if len(batch) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚨 <b>Market Movers</b> | %s\n\n", batch[0].Time.Format("2006-01-02 15:04")))
	for _, sig := range batch {
		b.WriteString(fmt.Sprintf("%s <b>%s</b> %+.2f%%\n", trendArrow(sig.Trend), sig.Symbol, sig.PercentChange))
		b.WriteString(fmt.Sprintf("   trend %s | confidence %d/100 | vol %.0f\n", sig.Trend, sig.Confidence, sig.Volume))
	}
	return b.String()
}

// FormatDigest renders the day's accepted signals for the end-of-day summary.
func FormatDigest(day time.Time, signals []model.Signal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 <b>Daily Digest</b> | %s\n\n", day.Format("2006-01-02")))
	if len(signals) == 0 {
		b.WriteString("No signals accepted today.")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("Signals accepted: %d\n", len(signals)))

	// Strongest absolute move of the day.
	top := signals[0]
	for _, sig := range signals[1:] {
		if abs(sig.PercentChange) > abs(top.PercentChange) {
			top = sig
		}
	}
	b.WriteString(fmt.Sprintf("Top mover: %s %+.2f%% (confidence %d)\n\n", top.Symbol, top.PercentChange, top.Confidence))

	for _, sig := range signals {
		b.WriteString(fmt.Sprintf("  %s %s %+.2f%% @ %s\n",
			trendArrow(sig.Trend), sig.Symbol, sig.PercentChange, sig.Time.Format("15:04")))
	}
	return b.String()
}

// FormatRecent renders the bounded recent-signals view for command replies.
func FormatRecent(signals []model.Signal) string {
	if len(signals) == 0 {
		return "No recent signals."
	}
	var b strings.Builder
	b.WriteString("🕑 <b>Recent Signals</b>\n\n")
	for _, sig := range signals {
		b.WriteString(fmt.Sprintf("%s %s %+.2f%% conf=%d | %s\n",
			trendArrow(sig.Trend), sig.Symbol, sig.PercentChange, sig.Confidence,
			sig.Time.Format("2006-01-02 15:04")))
	}
	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
