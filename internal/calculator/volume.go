package calculator

import (
	"math"

	"MarketScout/internal/model"
)

// AverageVolume returns the mean volume of the trailing n bars. Non-finite
// cells are skipped rather than poisoning the mean. Returns 0 when no usable
// bars exist.
func AverageVolume(w model.Window, n int) float64 {
	if n <= 0 || len(w) == 0 {
		return 0
	}
	start := len(w) - n
	if start < 0 {
		start = 0
	}
	sum, count := 0.0, 0
	for _, b := range w[start:] {
		if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) {
			continue
		}
		sum += b.Volume
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
