// Package scheduler keeps cached symbols warm by sweeping them on a cron
// schedule, so interactive requests mostly hit the fresh path.
package scheduler

import (
	"fmt"
	"log"

	"ChartVault/internal/model"

	"github.com/robfig/cron/v3"
)

// ChartSource is the cache surface the refresher drives.
type ChartSource interface {
	GetChartData(symbol, rng, interval string) (*model.ChartSeries, error)
}

// SymbolLister enumerates the symbols that currently have cache records.
type SymbolLister interface {
	List() []string
	Read(symbol string) (*model.ChartSeries, error)
}

// Refresher periodically re-requests every cached symbol.
type Refresher struct {
	Cron   *cron.Cron
	source ChartSource
	lister SymbolLister
}

// NewRefresher creates a Refresher over the given cache and store.
func NewRefresher(source ChartSource, lister SymbolLister) *Refresher {
	return &Refresher{
		Cron:   cron.New(cron.WithSeconds()),
		source: source,
		lister: lister,
	}
}

// Register adds the sweep job on the given cron spec (with seconds field).
func (r *Refresher) Register(spec string) error {
	if _, err := r.Cron.AddFunc(spec, r.Sweep); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (r *Refresher) Start() {
	r.Cron.Start()
	log.Println("[INFO] refresh scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (r *Refresher) Stop() {
	r.Cron.Stop()
	log.Println("[INFO] refresh scheduler stopped")
}

// Sweep re-requests every cached symbol with the range it was originally
// fetched for. Per-symbol failures are logged and do not stop the sweep.
func (r *Refresher) Sweep() {
	symbols := r.lister.List()
	log.Printf("[INFO] refresh sweep starting for %d cached symbols", len(symbols))
	for _, symbol := range symbols {
		rng := "5y"
		if series, err := r.lister.Read(symbol); err == nil && series != nil && series.FetchedRange != "" {
			rng = series.FetchedRange
		}
		if _, err := r.source.GetChartData(symbol, rng, "1d"); err != nil {
			log.Printf("[WARN] refresh %s failed: %v", symbol, err)
		}
	}
	log.Println("[INFO] refresh sweep finished")
}
