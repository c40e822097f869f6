package model

// YahooChart mirrors the upstream chart response envelope so cached series
// can be served back to clients in the exact shape Yahoo emits.
type YahooChart struct {
	Chart YahooChartBody `json:"chart"`
}

type YahooChartBody struct {
	Result []YahooResult `json:"result"`
	Error  *YahooError   `json:"error"`
}

type YahooError struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description"`
}

type YahooResult struct {
	Meta       YahooMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators YahooIndicators `json:"indicators"`
}

type YahooMeta struct {
	Currency             string  `json:"currency"`
	Symbol               string  `json:"symbol"`
	ShortName            string  `json:"shortName"`
	ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	PreviousClose        float64 `json:"previousClose"`
}

type YahooIndicators struct {
	Quote    []YahooQuote    `json:"quote"`
	AdjClose []YahooAdjClose `json:"adjclose"`
}

type YahooQuote struct {
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []int64   `json:"volume"`
}

type YahooAdjClose struct {
	AdjClose []float64 `json:"adjclose"`
}

// DefaultTimezone is used whenever a series carries no exchange timezone.
const DefaultTimezone = "America/New_York"

// ToYahooFormat serializes the series into the upstream chart schema.
func (s *ChartSeries) ToYahooFormat() *YahooChart {
	n := len(s.Bars)
	result := YahooResult{
		Timestamp: make([]int64, n),
		Indicators: YahooIndicators{
			Quote: []YahooQuote{{
				Open:   make([]float64, n),
				High:   make([]float64, n),
				Low:    make([]float64, n),
				Close:  make([]float64, n),
				Volume: make([]int64, n),
			}},
			AdjClose: []YahooAdjClose{{AdjClose: make([]float64, n)}},
		},
	}

	quote := &result.Indicators.Quote[0]
	adj := &result.Indicators.AdjClose[0]
	for i, b := range s.Bars {
		result.Timestamp[i] = b.Timestamp
		quote.Open[i] = b.Open
		quote.High[i] = b.High
		quote.Low[i] = b.Low
		quote.Close[i] = b.Close
		quote.Volume[i] = b.Volume
		adj.AdjClose[i] = b.AdjClose
	}

	meta := YahooMeta{
		Currency:             s.Currency,
		Symbol:               s.Symbol,
		ShortName:            s.ShortName,
		ExchangeTimezoneName: s.TimezoneName,
	}
	if meta.ShortName == "" {
		meta.ShortName = s.Symbol
	}
	if meta.ExchangeTimezoneName == "" {
		meta.ExchangeTimezoneName = DefaultTimezone
	}
	if n > 0 {
		meta.RegularMarketPrice = s.Bars[n-1].Close
	}
	if n > 1 {
		meta.PreviousClose = s.Bars[n-2].Close
	}
	result.Meta = meta

	return &YahooChart{Chart: YahooChartBody{Result: []YahooResult{result}}}
}
