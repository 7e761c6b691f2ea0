package strategy

import (
	"math"

	"MarketScout/internal/calculator"
	"MarketScout/internal/model"
)

// ClassifyTrend derives a trend label from the close series using a fast and
// a slow EMA (reference spans 20 and 50).
//
// Bull structure: close > fast EMA > slow EMA.
// Bear structure: close < fast EMA < slow EMA.
// Anything else is SIDEWAYS. UNKNOWN is reserved for inputs that cannot be
// resolved to finite numbers at all, so downstream scoring can tell "no
// structure" apart from "no data".
func ClassifyTrend(w model.Window, fastSpan, slowSpan int) model.TrendLabel {
	closes := w.Closes()
	if len(closes) == 0 {
		return model.TrendUnknown
	}
	fast, err := calculator.LastEMA(closes, fastSpan)
	if err != nil {
		return model.TrendUnknown
	}
	slow, err := calculator.LastEMA(closes, slowSpan)
	if err != nil {
		return model.TrendUnknown
	}
	last := closes[len(closes)-1]
	if !finite(last) || !finite(fast) || !finite(slow) {
		return model.TrendUnknown
	}
	switch {
	case last > fast && fast > slow:
		return model.TrendUp
	case last < fast && fast < slow:
		return model.TrendDown
	default:
		return model.TrendSideways
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
