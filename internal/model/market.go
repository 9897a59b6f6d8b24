package model

import (
	"fmt"
	"time"
)

// Field names of an OHLCV observation.
const (
	FieldOpen   = "open"
	FieldHigh   = "high"
	FieldLow    = "low"
	FieldClose  = "close"
	FieldVolume = "volume"
)

// RequiredFields lists the OHLCV fields in canonical order.
var RequiredFields = []string{FieldOpen, FieldHigh, FieldLow, FieldClose, FieldVolume}

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// RawSeries is an untyped, column-oriented series as delivered by a data source.
// A missing column is an absent key; a malformed cell is nil, non-finite or unparsable.
type RawSeries struct {
	Symbol     string
	Period     Period
	Interval   string
	Timestamps []time.Time
	Columns    map[string][]any
	FetchedAt  time.Time
}

// Len returns the number of observations in the raw series.
func (r *RawSeries) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Timestamps)
}

// Series is a validated OHLCV series in strictly increasing time order.
type Series struct {
	Symbol   string
	Period   Period
	Interval string
	Bars     []OHLCV
}

// Closes extracts the close prices of the series.
func (s *Series) Closes() []float64 {
	return ExtractCloses(s.Bars)
}

// ExtractCloses returns the close price of every bar.
func ExtractCloses(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Period is the lookback window label used to request a source series.
type Period string

const (
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	Period1y  Period = "1y"
	Period2y  Period = "2y"
)

// Periods lists the supported lookback windows, shortest first.
var Periods = []Period{Period1mo, Period3mo, Period6mo, Period1y, Period2y}

// ParsePeriod validates a lookback window label.
func ParsePeriod(s string) (Period, error) {
	for _, p := range Periods {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unsupported period %q (want one of 1mo, 3mo, 6mo, 1y, 2y)", s)
}

// Days returns the approximate calendar length of the period.
func (p Period) Days() int {
	switch p {
	case Period1mo:
		return 31
	case Period3mo:
		return 92
	case Period6mo:
		return 183
	case Period1y:
		return 366
	case Period2y:
		return 731
	default:
		return 0
	}
}
