package recorder

import "time"

// Lookup outcomes recorded for each cache decision.
const (
	OutcomeFull          = "full"
	OutcomeIncremental   = "incremental"
	OutcomeFresh         = "fresh"
	OutcomeStaleFallback = "stale_fallback"
	OutcomeError         = "error"
)

// LookupEvent captures one cache decision for later analysis.
type LookupEvent struct {
	Symbol   string
	Range    string
	Interval string
	Outcome  string
	Bars     int
	Err      string
	Duration time.Duration
}

// Recorder persists lookup history for analysis.
type Recorder interface {
	RecordLookup(evt *LookupEvent) error
	Close() error
}
