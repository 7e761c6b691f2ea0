package collector

import (
	"context"
	"time"

	"MarketScout/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Windows map[string]model.Window
	Errs    map[string]error
	Calls   []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchWindow(_ context.Context, symbol, _, _ string) (model.Window, error) {
	m.Calls = append(m.Calls, symbol)
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	return m.Windows[symbol], nil
}

// GenerateBars builds count bars drifting linearly around basePrice with the
// given volume, 5 minutes apart, most-recent-last.
func GenerateBars(basePrice, volume float64, count int) model.Window {
	bars := make(model.Window, count)
	base := time.Date(2025, 6, 10, 9, 15, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.PriceBar{
			Time:   base.Add(time.Duration(i) * 5 * time.Minute),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: volume,
		}
	}
	return bars
}
