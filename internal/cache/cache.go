// Package cache implements the decision engine that sits between read
// requests and the upstream fetcher: serve cached bars, fetch a full
// series, or fetch and merge an incremental update.
package cache

import (
	"log"
	"sync"
	"time"

	"ChartVault/internal/fetcher"
	"ChartVault/internal/model"
	"ChartVault/internal/policy"
	"ChartVault/internal/recorder"
	"ChartVault/internal/store"
)

// StaleThreshold is the record age beyond which an incremental refresh is
// attempted. The record file's mtime is the sole staleness clock.
const StaleThreshold = 24 * time.Hour

// Mirror receives a best-effort commit notification after each persisted
// update. Implementations must never propagate failures.
type Mirror interface {
	CommitChanges(message string)
}

// Cache coordinates per-symbol locking, the staleness/coverage policy, the
// fetch client, and persistence.
type Cache struct {
	store    *store.Store
	fetcher  fetcher.Fetcher
	mirror   Mirror
	recorder recorder.Recorder

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	staleAfter time.Duration
}

// New creates a Cache. mirror and rec may be nil, in which case mirroring
// and audit recording are skipped.
func New(st *store.Store, f fetcher.Fetcher, mirror Mirror, rec recorder.Recorder) *Cache {
	return &Cache{
		store:      st,
		fetcher:    f,
		mirror:     mirror,
		recorder:   rec,
		locks:      make(map[string]*sync.Mutex),
		staleAfter: StaleThreshold,
	}
}

// symbolLock returns the lock for a raw symbol, creating it on first use.
// Locks live for the process lifetime; symbol cardinality is bounded by
// real-world ticker counts, so there is no eviction.
func (c *Cache) symbolLock(symbol string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[symbol]
	if !ok {
		l = &sync.Mutex{}
		c.locks[symbol] = l
	}
	return l
}

// GetChartData returns the chart series for (symbol, range, interval),
// fetching from upstream only when the cached record is missing, too short
// for the requested range, or stale. The entire decide-fetch-merge-persist
// sequence runs under the symbol's lock, so concurrent requests for one
// symbol never race on the record or duplicate upstream fetches.
func (c *Cache) GetChartData(symbol, rng, interval string) (*model.ChartSeries, error) {
	lock := c.symbolLock(symbol)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	series, outcome, err := c.lookup(symbol, rng, interval)
	c.record(symbol, rng, interval, outcome, series, err, time.Since(start))
	return series, err
}

func (c *Cache) lookup(symbol, rng, interval string) (*model.ChartSeries, string, error) {
	cached, err := c.store.Read(symbol)
	if err != nil {
		// Treated as a cache miss: re-fetching beats failing the request.
		log.Printf("[WARN] unreadable cache record for %s, re-fetching full: %v", symbol, err)
		cached = nil
	}

	if cached != nil && len(cached.Bars) > 0 {
		requested := policy.ParseRangeSeconds(rng)
		if !policy.CoversRange(cached.SpanSeconds(), requested) &&
			policy.ParseRangeSeconds(cached.FetchedRange) < requested {
			log.Printf("[INFO] cache for %s covers %dd but range %s requires %dd, re-fetching full",
				symbol, cached.SpanSeconds()/86400, rng, requested/86400)
			data, err := c.fetcher.FetchFull(symbol, rng, interval)
			if err != nil {
				return nil, recorder.OutcomeError, err
			}
			data.FetchedRange = rng
			c.persist(symbol, data, "Update "+symbol)
			return data, recorder.OutcomeFull, nil
		}

		if age, ok := c.recordAge(symbol); ok && age < c.staleAfter {
			log.Printf("[INFO] cache fresh for %s (record written %s ago)", symbol, age.Round(time.Second))
			return cached, recorder.OutcomeFresh, nil
		}

		log.Printf("[INFO] cache stale for %s, fetching incremental since %d", symbol, cached.LastTimestamp())
		incremental, err := c.fetcher.FetchIncremental(symbol, cached.LastTimestamp(), interval)
		if err != nil {
			// Incremental failure is never fatal to the read path: trade
			// staleness for availability.
			log.Printf("[WARN] incremental fetch failed for %s, returning stale cache: %v", symbol, err)
			return cached, recorder.OutcomeStaleFallback, nil
		}
		cached.Merge(incremental)
		c.persist(symbol, cached, "Update "+symbol)
		return cached, recorder.OutcomeIncremental, nil
	}

	log.Printf("[INFO] no cache for %s, fetching full %s", symbol, rng)
	data, err := c.fetcher.FetchFull(symbol, rng, interval)
	if err != nil {
		return nil, recorder.OutcomeError, err
	}
	data.FetchedRange = rng
	c.persist(symbol, data, "Add "+symbol)
	return data, recorder.OutcomeFull, nil
}

// recordAge reports the age of the persisted record. A missing or
// unstatable file counts as infinitely old.
func (c *Cache) recordAge(symbol string) (time.Duration, bool) {
	mt, err := c.store.ModTime(symbol)
	if err != nil {
		return 0, false
	}
	return time.Since(mt), true
}

// persist writes the record and notifies the mirror. Both are best-effort:
// the caller still gets the in-memory series even if persistence fails.
func (c *Cache) persist(symbol string, series *model.ChartSeries, commitMsg string) {
	if err := c.store.Write(symbol, series); err != nil {
		log.Printf("[WARN] persist failed for %s: %v", symbol, err)
		return
	}
	if c.mirror != nil {
		c.mirror.CommitChanges(commitMsg)
	}
}

func (c *Cache) record(symbol, rng, interval, outcome string, series *model.ChartSeries, lookupErr error, d time.Duration) {
	if c.recorder == nil {
		return
	}
	evt := &recorder.LookupEvent{
		Symbol:   symbol,
		Range:    rng,
		Interval: interval,
		Outcome:  outcome,
		Duration: d,
	}
	if series != nil {
		evt.Bars = len(series.Bars)
	}
	if lookupErr != nil {
		evt.Err = lookupErr.Error()
	}
	if err := c.recorder.RecordLookup(evt); err != nil {
		log.Printf("[WARN] record lookup event: %v", err)
	}
}
