package model

import "time"

// TrendLabel classifies the EMA structure of a price window.
type TrendLabel string

const (
	TrendUp       TrendLabel = "UPTREND"
	TrendDown     TrendLabel = "DOWNTREND"
	TrendSideways TrendLabel = "SIDEWAYS"
	// TrendUnknown means the inputs could not be resolved (too little data or
	// non-numeric cells). It scores like SIDEWAYS but is a distinct diagnostic.
	TrendUnknown TrendLabel = "UNKNOWN"
)

// Confirmed reports whether the label counts as a confirmed directional trend.
func (t TrendLabel) Confirmed() bool {
	return t == TrendUp || t == TrendDown
}

// Signal is an accepted evaluation. Immutable after construction: it is only
// ever appended to the repository, never rewritten.
type Signal struct {
	ID            string     `json:"id"`
	Time          time.Time  `json:"time"`
	Symbol        string     `json:"symbol"`
	Sector        string     `json:"sector,omitempty"`
	PercentChange float64    `json:"percent_change"`
	Volume        float64    `json:"volume"`
	Trend         TrendLabel `json:"trend"`
	Confidence    int        `json:"confidence"`
}
