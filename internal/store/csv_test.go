package store

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"ChartVault/internal/model"
)

func sampleSeries() *model.ChartSeries {
	s := &model.ChartSeries{
		Symbol:       "GC=F",
		Currency:     "USD",
		ShortName:    "Gold Futures",
		TimezoneName: "America/New_York",
		FetchedRange: "5y",
	}
	s.AddRow(1700000000, 1980.5, 1990.123456, 1975.0, 1985.25, 1985.25, 120000)
	s.AddRow(1700086400, 1985.25, 2001.0, 1984.0, 1999.999999, 1999.999999, 98000)
	return s
}

func TestWriteRead_RoundTrip(t *testing.T) {
	st := New(t.TempDir())
	want := sampleSeries()

	if err := st.Write(want.Symbol, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := st.Read(want.Symbol)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got == nil {
		t.Fatal("read returned nil for existing record")
	}

	if got.Symbol != want.Symbol || got.Currency != want.Currency ||
		got.ShortName != want.ShortName || got.TimezoneName != want.TimezoneName ||
		got.FetchedRange != want.FetchedRange {
		t.Errorf("header mismatch: got %+v", got)
	}
	if len(got.Bars) != len(want.Bars) {
		t.Fatalf("expected %d bars, got %d", len(want.Bars), len(got.Bars))
	}
	for i := range want.Bars {
		w, g := want.Bars[i], got.Bars[i]
		if g.Timestamp != w.Timestamp || g.Volume != w.Volume {
			t.Errorf("bar %d: got %+v, want %+v", i, g, w)
		}
		for _, pair := range [][2]float64{
			{g.Open, w.Open}, {g.High, w.High}, {g.Low, w.Low},
			{g.Close, w.Close}, {g.AdjClose, w.AdjClose},
		} {
			if math.Abs(pair[0]-pair[1]) > 1e-6 {
				t.Errorf("bar %d: float mismatch %f vs %f", i, pair[0], pair[1])
			}
		}
	}
}

func TestRead_MissingFileIsAbsent(t *testing.T) {
	st := New(t.TempDir())
	got, err := st.Read("NOPE")
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil series for missing file, got %+v", got)
	}
}

func TestRead_MalformedNumericField(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	content := "# symbol=ABC\ndate,open,high,low,close,adjclose,volume\n1700000000,notanumber,2,3,4,5,6\n"
	if err := os.WriteFile(filepath.Join(dir, "ABC.csv"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := st.Read("ABC")
	var corrupt *CorruptCacheError
	if !errors.As(err, &corrupt) {
		t.Fatalf("expected CorruptCacheError, got %v", err)
	}
	if corrupt.Symbol != "ABC" {
		t.Errorf("expected symbol ABC in error, got %q", corrupt.Symbol)
	}
}

func TestRead_HeaderDefaults(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	content := "date,open,high,low,close,adjclose,volume\n1700000000,1.0,2.0,0.5,1.5,1.5,10\n"
	if err := os.WriteFile(filepath.Join(dir, "XYZ.csv"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := st.Read("XYZ")
	if err != nil {
		t.Fatal(err)
	}
	if got.Symbol != "XYZ" || got.Currency != "USD" || got.ShortName != "XYZ" {
		t.Errorf("expected defaulted header fields, got %+v", got)
	}
	if len(got.Bars) != 1 {
		t.Errorf("expected 1 bar, got %d", len(got.Bars))
	}
}

func TestWrite_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "cache")
	st := New(dir)
	if err := st.Write("ABC", sampleSeries()); err != nil {
		t.Fatalf("write into missing dir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ABC.csv")); err != nil {
		t.Errorf("expected record file to exist: %v", err)
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"AAPL", "AAPL"},
		{"GC=F", "GC_EQ_F"},
		{"EURUSD=X", "EURUSD_EQ_X"},
		{"a/b\\c:d*e?f\"g<h>i|j", "a_b_c_d_e_f_g_h_i_j"},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	a := sampleSeries()
	if err := st.Write(a.Symbol, a); err != nil {
		t.Fatal(err)
	}
	b := &model.ChartSeries{Symbol: "AAPL", Currency: "USD", ShortName: "Apple"}
	b.AddRow(1700000000, 1, 2, 3, 4, 5, 6)
	if err := st.Write(b.Symbol, b); err != nil {
		t.Fatal(err)
	}

	symbols := st.List()
	if len(symbols) != 2 {
		t.Fatalf("expected 2 symbols, got %v", symbols)
	}
	found := map[string]bool{}
	for _, s := range symbols {
		found[s] = true
	}
	if !found["GC=F"] || !found["AAPL"] {
		t.Errorf("expected raw symbols from headers, got %v", symbols)
	}
}
