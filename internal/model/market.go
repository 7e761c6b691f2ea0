package model

import (
	"math"
	"time"
)

// PriceBar represents a single OHLCV candlestick bar.
type PriceBar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Window is a chronologically ordered bar sequence for one instrument,
// most-recent-last. Gaps in the source data are tolerated.
type Window []PriceBar

// Closes extracts the close series in bar order.
func (w Window) Closes() []float64 {
	closes := make([]float64, len(w))
	for i, b := range w {
		closes[i] = b.Close
	}
	return closes
}

// LastClose returns the most recent close, or NaN if the window is empty.
func (w Window) LastClose() float64 {
	if len(w) == 0 {
		return math.NaN()
	}
	return w[len(w)-1].Close
}

// PreviousClose returns the close before the most recent one, or NaN if
// fewer than two bars are present.
func (w Window) PreviousClose() float64 {
	if len(w) < 2 {
		return math.NaN()
	}
	return w[len(w)-2].Close
}

// LastVolume returns the most recent bar's volume, or 0 if empty.
func (w Window) LastVolume() float64 {
	if len(w) == 0 {
		return 0
	}
	return w[len(w)-1].Volume
}

// Usable reports whether the window carries at least minBars bars.
func (w Window) Usable(minBars int) bool {
	return len(w) >= minBars
}

// Instrument is a static watchlist entry.
type Instrument struct {
	Symbol string `yaml:"symbol"`
	Sector string `yaml:"sector"`
}
