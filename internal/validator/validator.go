// Package validator checks raw OHLCV input before any indicator is computed.
package validator

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"StockAnalyzer/internal/model"

	"github.com/shopspring/decimal"
)

// Validate checks a raw series for the required fields and coerces every
// observation to numeric values. Malformed observations are dropped; the
// series fails only when it is empty, a required column is missing, or no
// observation survives.
func Validate(raw *model.RawSeries, required []string) (*model.Series, error) {
	if raw.Len() == 0 {
		return nil, &model.SeriesError{Kind: model.KindEmptySeries}
	}
	if len(required) == 0 {
		required = model.RequiredFields
	}

	var missing []string
	for _, f := range model.RequiredFields {
		if !contains(required, f) {
			continue
		}
		if _, ok := raw.Columns[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &model.SeriesError{Kind: model.KindMissingFields, Fields: missing}
	}

	bars := make([]model.OHLCV, 0, raw.Len())
	for i, ts := range raw.Timestamps {
		bar := model.OHLCV{Time: ts}
		ok := true
		for _, f := range model.RequiredFields {
			v, good := cell(raw.Columns[f], i)
			if !good {
				if contains(required, f) {
					ok = false
					break
				}
				continue
			}
			setField(&bar, f, v)
		}
		if ok {
			bars = append(bars, bar)
		}
	}

	return finish(raw.Symbol, raw.Period, raw.Interval, bars)
}

// ValidateBars applies the observation rules to an already typed series:
// non-finite bars are dropped, the rest are ordered and de-duplicated.
// The input is not modified.
func ValidateBars(series *model.Series) (*model.Series, error) {
	if series == nil || len(series.Bars) == 0 {
		return nil, &model.SeriesError{Kind: model.KindEmptySeries}
	}
	kept := make([]model.OHLCV, 0, len(series.Bars))
	for _, b := range series.Bars {
		if finite(b.Open) && finite(b.High) && finite(b.Low) && finite(b.Close) && finite(b.Volume) {
			kept = append(kept, b)
		}
	}
	return finish(series.Symbol, series.Period, series.Interval, kept)
}

// finish orders the surviving bars, removes duplicate timestamps and rejects
// series with no well-formed observation left.
func finish(symbol string, period model.Period, interval string, bars []model.OHLCV) (*model.Series, error) {
	kept := bars[:0]
	for _, b := range bars {
		if !b.Time.IsZero() {
			kept = append(kept, b)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Time.Before(kept[j].Time) })

	out := make([]model.OHLCV, 0, len(kept))
	var last time.Time
	for i, b := range kept {
		if i > 0 && b.Time.Equal(last) {
			continue
		}
		out = append(out, b)
		last = b.Time
	}

	if len(out) == 0 {
		return nil, &model.SeriesError{
			Kind:      model.KindInsufficientHistory,
			Required:  1,
			Available: 0,
			Reason:    "no well-formed observations",
		}
	}
	return &model.Series{Symbol: symbol, Period: period, Interval: interval, Bars: out}, nil
}

func cell(col []any, i int) (float64, bool) {
	if i >= len(col) {
		return 0, false
	}
	v, ok := ToFloat(col[i])
	if !ok || !finite(v) {
		return 0, false
	}
	return v, true
}

// ToFloat coerces a raw cell to float64. It reports false for nil and for
// values that are not numeric.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, false
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case decimal.Decimal:
		f, _ := n.Float64()
		return f, true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func setField(b *model.OHLCV, field string, v float64) {
	switch field {
	case model.FieldOpen:
		b.Open = v
	case model.FieldHigh:
		b.High = v
	case model.FieldLow:
		b.Low = v
	case model.FieldClose:
		b.Close = v
	case model.FieldVolume:
		b.Volume = v
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
