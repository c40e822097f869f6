// Package policy holds the pure coverage heuristics the cache uses to decide
// between serving cached bars and re-fetching.
package policy

import "strconv"

const (
	day = int64(86400)

	// DefaultRangeSeconds is used for any token that cannot be parsed.
	DefaultRangeSeconds = 5 * 365 * day

	// CoverageSlackSeconds is how far short of the requested range a cached
	// span may fall while still counting as coverage. Tolerates one
	// staleness cycle without forcing a full re-fetch.
	CoverageSlackSeconds = 30 * day
)

// ParseRangeSeconds converts a range token like "5y", "6m" or "30d" to
// seconds. Months are 30 days, years 365 days. Any unparsable token degrades
// to the five-year default rather than erroring: the result only gates a
// coverage heuristic, not data correctness.
func ParseRangeSeconds(token string) int64 {
	if len(token) < 2 {
		return DefaultRangeSeconds
	}
	value, err := strconv.Atoi(token[:len(token)-1])
	if err != nil {
		return DefaultRangeSeconds
	}
	switch token[len(token)-1] {
	case 'd':
		return int64(value) * day
	case 'm':
		return int64(value) * 30 * day
	case 'y':
		return int64(value) * 365 * day
	default:
		return DefaultRangeSeconds
	}
}

// CoversRange reports whether a cached span satisfies a requested range
// within the 30-day slack.
func CoversRange(cachedSpanSeconds, requestedRangeSeconds int64) bool {
	return cachedSpanSeconds >= requestedRangeSeconds-CoverageSlackSeconds
}
