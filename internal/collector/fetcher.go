package collector

import (
	"context"

	"MarketScout/internal/model"
)

// Fetcher retrieves the trailing bar window for one instrument. An empty or
// undersized result is not an error contract violation; the engine treats it
// as "skip instrument".
type Fetcher interface {
	FetchWindow(ctx context.Context, symbol, lookback, interval string) (model.Window, error)
	Name() string
}
