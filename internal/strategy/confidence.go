package strategy

import (
	"MarketScout/internal/model"
)

// Thresholds holds the tunable knobs of the confidence score. The move tiers
// are percent-change magnitudes; the point values are the additive bonuses.
type Thresholds struct {
	StrongMove   float64 `yaml:"strong_move"`
	ModerateMove float64 `yaml:"moderate_move"`
	MinorMove    float64 `yaml:"minor_move"`

	StrongPoints   int `yaml:"strong_points"`
	ModeratePoints int `yaml:"moderate_points"`
	MinorPoints    int `yaml:"minor_points"`
	VolumePoints   int `yaml:"volume_points"`
	TrendPoints    int `yaml:"trend_points"`
}

// DefaultThresholds returns the reference scoring table: 1.0/0.7/0.4 percent
// move tiers worth 40/25/20 points, volume confirmation worth 30, trend
// confirmation worth 30. The maxima sum to 100.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StrongMove:     1.0,
		ModerateMove:   0.7,
		MinorMove:      0.4,
		StrongPoints:   40,
		ModeratePoints: 25,
		MinorPoints:    20,
		VolumePoints:   30,
		TrendPoints:    30,
	}
}

// Confidence combines move magnitude, volume confirmation, and trend
// confirmation into a bounded [0,100] score. The function is total: malformed
// numeric inputs contribute zero for their component instead of erroring.
func Confidence(percentChange, currentVolume, averageVolume float64, trend model.TrendLabel, th Thresholds) int {
	score := 0

	if finite(percentChange) {
		magnitude := percentChange
		if magnitude < 0 {
			magnitude = -magnitude
		}
		switch {
		case magnitude > th.StrongMove:
			score += th.StrongPoints
		case magnitude > th.ModerateMove:
			score += th.ModeratePoints
		case magnitude > th.MinorMove:
			score += th.MinorPoints
		}
	}

	if finite(currentVolume) && finite(averageVolume) && currentVolume > averageVolume {
		score += th.VolumePoints
	}

	if trend.Confirmed() {
		score += th.TrendPoints
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
