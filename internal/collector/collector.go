package collector

import (
	"context"
	"fmt"
	"log"

	"StockAnalyzer/internal/engine"
	"StockAnalyzer/internal/model"
)

// Collector orchestrates data fetching and analysis.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Analyze fetches the series for symbol and runs the engine over it.
// Fetch failures are reported once, never retried.
func (c *Collector) Analyze(ctx context.Context, symbol string, cfg model.AnalysisConfig) (*model.ResultBundle, error) {
	sym := NormalizeSymbol(symbol)
	if sym == "" {
		return nil, fmt.Errorf("empty symbol")
	}

	raw, err := c.Fetcher.FetchSeries(ctx, sym, cfg.Period, cfg.Interval)
	if err != nil {
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	log.Printf("[INFO] %s: fetched %d rows for %s (%s, %s)", c.Fetcher.Name(), raw.Len(), sym, cfg.Period, cfg.Interval)

	bundle, err := engine.Analyze(raw, cfg)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", sym, err)
	}
	bundle.Symbol = sym
	return bundle, nil
}
