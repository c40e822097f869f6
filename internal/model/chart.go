package model

// Bar represents a single OHLCV candlestick row.
type Bar struct {
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	AdjClose  float64
	Volume    int64
}

// ChartSeries holds the chart history for one symbol.
// Bars are kept in strictly ascending timestamp order; both the staleness
// check and Merge rely on the last element being the most recent.
type ChartSeries struct {
	Symbol       string
	Currency     string
	ShortName    string
	TimezoneName string
	FetchedRange string
	Bars         []Bar
}

// AddRow appends a bar to the series.
func (s *ChartSeries) AddRow(ts int64, open, high, low, close, adjClose float64, volume int64) {
	s.Bars = append(s.Bars, Bar{
		Timestamp: ts,
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		AdjClose:  adjClose,
		Volume:    volume,
	})
}

// LastTimestamp returns the timestamp of the most recent bar, or 0 when empty.
func (s *ChartSeries) LastTimestamp() int64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Timestamp
}

// SpanSeconds returns the time covered between the first and last bar.
func (s *ChartSeries) SpanSeconds() int64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Timestamp - s.Bars[0].Timestamp
}

// Merge appends bars from newer whose timestamp is strictly greater than
// the current last timestamp, in the order received. Existing bars are
// never modified or de-duplicated.
func (s *ChartSeries) Merge(newer *ChartSeries) {
	if newer == nil || len(newer.Bars) == 0 {
		return
	}
	lastTs := s.LastTimestamp()
	for _, b := range newer.Bars {
		if b.Timestamp > lastTs {
			s.Bars = append(s.Bars, b)
		}
	}
}
