package fetcher

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"

	"ChartVault/internal/model"
)

const (
	defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// YahooFetcher implements Fetcher against the Yahoo Finance chart API.
//
// A single permit serializes all upstream calls across all symbols, and the
// holder sleeps RequestSpacing before releasing it, so there is a minimum
// global spacing between any two upstream requests. This is a courtesy
// limiter to stay under Yahoo's rate limits, not a correctness requirement.
type YahooFetcher struct {
	BaseURL        string
	Client         *http.Client
	MaxRetries     int
	BaseDelay      time.Duration
	RequestSpacing time.Duration

	mu sync.Mutex // the single upstream permit
}

// NewYahooFetcher creates a fetcher with optional base URL and proxy
// overrides. An empty baseURL selects the public Yahoo endpoint.
func NewYahooFetcher(baseURL, proxyURL string) *YahooFetcher {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		MaxRetries:     3,
		BaseDelay:      500 * time.Millisecond,
		RequestSpacing: 500 * time.Millisecond,
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// FetchFull requests a range-based window, e.g. the last five years.
func (f *YahooFetcher) FetchFull(symbol, rng, interval string) (*model.ChartSeries, error) {
	u := fmt.Sprintf("%s/%s?range=%s&interval=%s&includeAdjustedClose=true",
		f.BaseURL, url.PathEscape(symbol), rng, interval)
	log.Printf("[INFO] fetching full chart: %s", u)
	return f.fetch(symbol, u)
}

// FetchIncremental requests the explicit window [since, now].
func (f *YahooFetcher) FetchIncremental(symbol string, since int64, interval string) (*model.ChartSeries, error) {
	now := time.Now().Unix()
	u := fmt.Sprintf("%s/%s?period1=%d&period2=%d&interval=%s&includeAdjustedClose=true",
		f.BaseURL, url.PathEscape(symbol), since, now, interval)
	log.Printf("[INFO] fetching incremental chart: %s", u)
	return f.fetch(symbol, u)
}

func (f *YahooFetcher) fetch(symbol, u string) (*model.ChartSeries, error) {
	body, err := f.fetchWithThrottle(symbol, u)
	if err != nil {
		return nil, err
	}
	return parseChart(symbol, body)
}

// fetchWithThrottle holds the global permit for the whole attempt loop plus
// the fixed post-request spacing, so retries for one symbol never interleave
// with requests for another.
func (f *YahooFetcher) fetchWithThrottle(symbol, u string) ([]byte, error) {
	f.mu.Lock()
	defer func() {
		time.Sleep(f.RequestSpacing)
		f.mu.Unlock()
	}()

	for attempt := 1; attempt <= f.MaxRetries; attempt++ {
		body, status, err := f.doRequest(u)
		if err != nil {
			return nil, err
		}
		if status == http.StatusTooManyRequests {
			if attempt == f.MaxRetries {
				return nil, &RateLimitedError{Symbol: symbol, Attempts: attempt}
			}
			backoff := f.BaseDelay * time.Duration(attempt) * 2
			log.Printf("[WARN] yahoo 429 rate limited (attempt %d/%d), waiting %s", attempt, f.MaxRetries, backoff)
			time.Sleep(backoff)
			continue
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf("yahoo: status %d, body: %s", status, truncate(body, 256))
		}
		return body, nil
	}
	return nil, &RateLimitedError{Symbol: symbol, Attempts: f.MaxRetries}
}

func (f *YahooFetcher) doRequest(u string) ([]byte, int, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("yahoo read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n]) + "..."
	}
	return string(b)
}

// yahooChart is the upstream response structure. Pointer element types keep
// JSON nulls distinguishable from zero values.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string `json:"currency"`
				Symbol               string `json:"symbol"`
				ShortName            string `json:"shortName"`
				LongName             string `json:"longName"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func parseChart(symbol string, body []byte) (*model.ChartSeries, error) {
	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, &NoDataError{Symbol: symbol}
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, &NoDataError{Symbol: symbol}
	}
	quote := result.Indicators.Quote[0]

	var adjClose []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
	}

	series := &model.ChartSeries{
		Symbol:       symbol,
		Currency:     "USD",
		ShortName:    symbol,
		TimezoneName: model.DefaultTimezone,
	}
	if result.Meta.Symbol != "" {
		series.Symbol = result.Meta.Symbol
	}
	if result.Meta.Currency != "" {
		series.Currency = result.Meta.Currency
	}
	if result.Meta.ShortName != "" {
		series.ShortName = result.Meta.ShortName
	} else if result.Meta.LongName != "" {
		series.ShortName = result.Meta.LongName
	}
	if result.Meta.ExchangeTimezoneName != "" {
		series.TimezoneName = result.Meta.ExchangeTimezoneName
	}

	for i, ts := range result.Timestamp {
		c := floatAt(quote.Close, i)
		if c == nil {
			// A row without a close is never emitted.
			continue
		}
		series.AddRow(ts,
			floatOr(quote.Open, i, *c),
			floatOr(quote.High, i, *c),
			floatOr(quote.Low, i, *c),
			*c,
			floatOr(adjClose, i, *c),
			intOr(quote.Volume, i, 0),
		)
	}
	return series, nil
}

func floatAt(list []*float64, i int) *float64 {
	if i < len(list) {
		return list[i]
	}
	return nil
}

func floatOr(list []*float64, i int, fallback float64) float64 {
	if v := floatAt(list, i); v != nil {
		return *v
	}
	return fallback
}

func intOr(list []*int64, i int, fallback int64) int64 {
	if i < len(list) && list[i] != nil {
		return *list[i]
	}
	return fallback
}
