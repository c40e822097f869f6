package fetcher

import (
	"fmt"

	"ChartVault/internal/model"
)

// Fetcher defines the interface for retrieving chart data from an upstream
// provider.
type Fetcher interface {
	// FetchFull retrieves the full history for a range token like "5y".
	FetchFull(symbol, rng, interval string) (*model.ChartSeries, error)
	// FetchIncremental retrieves only bars in the window [since, now].
	FetchIncremental(symbol string, since int64, interval string) (*model.ChartSeries, error)
	Name() string
}

// NoDataError signals that the upstream returned no usable result for a
// symbol. Fatal to the request that triggered the fetch.
type NoDataError struct {
	Symbol string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no data returned for %s", e.Symbol)
}

// RateLimitedError signals that the upstream kept responding 429 until the
// retry budget was exhausted.
type RateLimitedError struct {
	Symbol   string
	Attempts int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("upstream rate limited fetching %s after %d attempts", e.Symbol, e.Attempts)
}
