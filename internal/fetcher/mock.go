package fetcher

import (
	"time"

	"ChartVault/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	FullSeries        *model.ChartSeries
	IncrementalSeries *model.ChartSeries
	Err               error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchFull(symbol, rng, interval string) (*model.ChartSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.FullSeries != nil {
		return m.FullSeries, nil
	}
	return generateMockSeries(symbol, 100), nil
}

func (m *MockFetcher) FetchIncremental(symbol string, since int64, interval string) (*model.ChartSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.IncrementalSeries != nil {
		return m.IncrementalSeries, nil
	}
	return &model.ChartSeries{Symbol: symbol, Currency: "USD", ShortName: symbol}, nil
}

func generateMockSeries(symbol string, count int) *model.ChartSeries {
	s := &model.ChartSeries{Symbol: symbol, Currency: "USD", ShortName: symbol}
	start := time.Now().AddDate(0, 0, -count).Unix()
	for i := 0; i < count; i++ {
		p := 100 * (1 + float64(i-count/2)*0.001)
		s.AddRow(start+int64(i)*86400, p*0.999, p*1.005, p*0.995, p, p, 1000000)
	}
	return s
}
