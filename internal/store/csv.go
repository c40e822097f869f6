// Package store persists one CSV record per symbol under the cache
// directory. The file's modification time doubles as the staleness clock,
// so writes always replace the whole file.
package store

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ChartVault/internal/model"
)

// CorruptCacheError signals an unreadable or malformed cache record. The
// orchestrator treats it as a cache miss and re-fetches.
type CorruptCacheError struct {
	Symbol string
	Line   string
	Err    error
}

func (e *CorruptCacheError) Error() string {
	return fmt.Sprintf("corrupt cache record for %s (line %q): %v", e.Symbol, e.Line, e.Err)
}

func (e *CorruptCacheError) Unwrap() error { return e.Err }

const columnHeader = "date,open,high,low,close,adjclose,volume"

// Store reads and writes chart series records in a cache directory.
type Store struct {
	Dir string
}

// New creates a Store rooted at dir.
func New(dir string) *Store {
	return &Store{Dir: dir}
}

// Path returns the record file path for a symbol.
func (s *Store) Path(symbol string) string {
	return filepath.Join(s.Dir, Sanitize(symbol)+".csv")
}

// ModTime returns the last modification time of a symbol's record.
func (s *Store) ModTime(symbol string) (time.Time, error) {
	info, err := os.Stat(s.Path(symbol))
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Read deserializes the record for symbol. A missing file yields (nil, nil);
// a malformed numeric field yields a *CorruptCacheError.
func (s *Store) Read(symbol string) (*model.ChartSeries, error) {
	f, err := os.Open(s.Path(symbol))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &CorruptCacheError{Symbol: symbol, Err: err}
	}
	defer f.Close()

	series := &model.ChartSeries{
		Symbol:    symbol,
		Currency:  "USD",
		ShortName: symbol,
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "# symbol="):
			series.Symbol = line[len("# symbol="):]
		case strings.HasPrefix(line, "# currency="):
			series.Currency = line[len("# currency="):]
		case strings.HasPrefix(line, "# shortName="):
			series.ShortName = line[len("# shortName="):]
		case strings.HasPrefix(line, "# exchangeTimezoneName="):
			series.TimezoneName = line[len("# exchangeTimezoneName="):]
		case strings.HasPrefix(line, "# fetchedRange="):
			series.FetchedRange = line[len("# fetchedRange="):]
		case strings.HasPrefix(line, "#"), strings.HasPrefix(line, "date,"):
			// comment or column header
		default:
			if err := parseRow(series, line); err != nil {
				return nil, &CorruptCacheError{Symbol: symbol, Line: line, Err: err}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &CorruptCacheError{Symbol: symbol, Err: err}
	}
	return series, nil
}

func parseRow(series *model.ChartSeries, line string) error {
	parts := strings.Split(line, ",")
	if len(parts) < 7 {
		// Short rows are skipped, matching the tolerant reader behavior
		// for trailing junk.
		return nil
	}
	ts, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	floats := make([]float64, 5)
	for i := 0; i < 5; i++ {
		f, err := strconv.ParseFloat(parts[i+1], 64)
		if err != nil {
			return fmt.Errorf("field %d: %w", i+1, err)
		}
		floats[i] = f
	}
	volume, err := strconv.ParseInt(parts[6], 10, 64)
	if err != nil {
		return fmt.Errorf("volume: %w", err)
	}
	series.AddRow(ts, floats[0], floats[1], floats[2], floats[3], floats[4], volume)
	return nil
}

// Write serializes the full series to the symbol's record, replacing any
// previous content. The containing directory is created if absent.
func (s *Store) Write(symbol string, series *model.ChartSeries) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# symbol=%s\n", series.Symbol)
	fmt.Fprintf(&sb, "# currency=%s\n", series.Currency)
	fmt.Fprintf(&sb, "# shortName=%s\n", series.ShortName)
	fmt.Fprintf(&sb, "# exchangeTimezoneName=%s\n", series.TimezoneName)
	if series.FetchedRange != "" {
		fmt.Fprintf(&sb, "# fetchedRange=%s\n", series.FetchedRange)
	}
	sb.WriteString(columnHeader + "\n")
	for _, b := range series.Bars {
		fmt.Fprintf(&sb, "%d,%.6f,%.6f,%.6f,%.6f,%.6f,%d\n",
			b.Timestamp, b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume)
	}

	path := s.Path(symbol)
	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write cache record %s: %w", path, err)
	}
	log.Printf("[INFO] wrote cache record: %s (%d bars)", path, len(series.Bars))
	return nil
}

// List returns the symbols of all readable records in the cache directory,
// taken from each record's symbol header. Unreadable records are skipped.
func (s *Store) List() []string {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil
	}
	var symbols []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".csv") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".csv")
		series, err := s.Read(name)
		if err != nil || series == nil {
			continue
		}
		symbols = append(symbols, series.Symbol)
	}
	return symbols
}
