package collector

import (
	"context"
	"strings"
	"time"

	"StockAnalyzer/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbol string, period model.Period, interval string) (*model.RawSeries, error)
	Name() string
}

// NormalizeSymbol trims a ticker, upper-cases it and strips a leading '$'.
func NormalizeSymbol(symbol string) string {
	s := strings.TrimSpace(symbol)
	s = strings.TrimPrefix(s, "$")
	return strings.ToUpper(strings.TrimSpace(s))
}

// rawFromBars converts typed bars into the column layout the validator consumes.
func rawFromBars(symbol string, period model.Period, interval string, bars []model.OHLCV) *model.RawSeries {
	raw := &model.RawSeries{
		Symbol:     symbol,
		Period:     period,
		Interval:   interval,
		Timestamps: make([]time.Time, len(bars)),
		Columns:    make(map[string][]any, len(model.RequiredFields)),
		FetchedAt:  time.Now(),
	}
	for _, f := range model.RequiredFields {
		raw.Columns[f] = make([]any, len(bars))
	}
	for i, b := range bars {
		raw.Timestamps[i] = b.Time
		raw.Columns[model.FieldOpen][i] = b.Open
		raw.Columns[model.FieldHigh][i] = b.High
		raw.Columns[model.FieldLow][i] = b.Low
		raw.Columns[model.FieldClose][i] = b.Close
		raw.Columns[model.FieldVolume][i] = b.Volume
	}
	return raw
}
