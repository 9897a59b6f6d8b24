package model

import (
	"encoding/json"
	"math"
)

// IndicatorName identifies a derived indicator series.
type IndicatorName string

const (
	SMA20    IndicatorName = "SMA20"
	SMA50    IndicatorName = "SMA50"
	EMA12    IndicatorName = "EMA12"
	EMA26    IndicatorName = "EMA26"
	MACD     IndicatorName = "MACD"
	Signal   IndicatorName = "Signal"
	MACDHist IndicatorName = "MACDHist"
	RSI      IndicatorName = "RSI"
	BBUpper  IndicatorName = "BBUpper"
	BBMid    IndicatorName = "BBMid"
	BBLower  IndicatorName = "BBLower"
)

// BaselineIndicators must all be defined for a row to be usable.
var BaselineIndicators = []IndicatorName{SMA20, SMA50, MACD, Signal}

// IndicatorSeries is a numeric sequence aligned 1:1 with a bar series.
// Undefined ("not yet computable") positions are stored as NaN.
type IndicatorSeries struct {
	name   IndicatorName
	values []float64
}

// NewIndicatorSeries takes ownership of values; callers must not modify them afterwards.
func NewIndicatorSeries(name IndicatorName, values []float64) *IndicatorSeries {
	return &IndicatorSeries{name: name, values: values}
}

func (s *IndicatorSeries) Name() IndicatorName { return s.name }
func (s *IndicatorSeries) Len() int            { return len(s.values) }

// At returns the value at i and whether it is defined.
func (s *IndicatorSeries) At(i int) (float64, bool) {
	if i < 0 || i >= len(s.values) {
		return math.NaN(), false
	}
	v := s.values[i]
	return v, !math.IsNaN(v)
}

// Defined reports whether position i holds a computed value.
func (s *IndicatorSeries) Defined(i int) bool {
	_, ok := s.At(i)
	return ok
}

// Values returns a copy of the underlying values (NaN where undefined).
func (s *IndicatorSeries) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// FirstDefined returns the index of the first defined value, or -1.
func (s *IndicatorSeries) FirstDefined() int {
	for i, v := range s.values {
		if !math.IsNaN(v) {
			return i
		}
	}
	return -1
}

// Latest returns the last defined value and its index.
func (s *IndicatorSeries) Latest() (int, float64, bool) {
	for i := len(s.values) - 1; i >= 0; i-- {
		if !math.IsNaN(s.values[i]) {
			return i, s.values[i], true
		}
	}
	return -1, math.NaN(), false
}

// Slice returns the aligned sub-series starting at from.
func (s *IndicatorSeries) Slice(from int) *IndicatorSeries {
	if from < 0 {
		from = 0
	}
	if from > len(s.values) {
		from = len(s.values)
	}
	out := make([]float64, len(s.values)-from)
	copy(out, s.values[from:])
	return &IndicatorSeries{name: s.name, values: out}
}

// MarshalJSON encodes undefined positions as null.
func (s *IndicatorSeries) MarshalJSON() ([]byte, error) {
	vals := make([]*float64, len(s.values))
	for i := range s.values {
		if v, ok := s.At(i); ok {
			vals[i] = &v
		}
	}
	return json.Marshal(struct {
		Name   IndicatorName `json:"name"`
		Values []*float64    `json:"values"`
	}{s.name, vals})
}

// IndicatorSet is an ordered collection of indicator series.
type IndicatorSet struct {
	order  []IndicatorName
	series map[IndicatorName]*IndicatorSeries
}

// NewIndicatorSet creates an empty set.
func NewIndicatorSet() *IndicatorSet {
	return &IndicatorSet{series: make(map[IndicatorName]*IndicatorSeries)}
}

// Add inserts or replaces a series, keeping first-insertion order.
func (s *IndicatorSet) Add(series *IndicatorSeries) {
	if _, ok := s.series[series.name]; !ok {
		s.order = append(s.order, series.name)
	}
	s.series[series.name] = series
}

// Get returns the named series, or nil.
func (s *IndicatorSet) Get(name IndicatorName) *IndicatorSeries {
	return s.series[name]
}

// Has reports whether the named series is present.
func (s *IndicatorSet) Has(name IndicatorName) bool {
	_, ok := s.series[name]
	return ok
}

// Names returns the series names in insertion order.
func (s *IndicatorSet) Names() []IndicatorName {
	out := make([]IndicatorName, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of series in the set.
func (s *IndicatorSet) Len() int { return len(s.order) }

// Slice returns a new set with every series sliced from the given row.
func (s *IndicatorSet) Slice(from int) *IndicatorSet {
	out := NewIndicatorSet()
	for _, name := range s.order {
		out.Add(s.series[name].Slice(from))
	}
	return out
}

// MarshalJSON encodes the set as an ordered list of series.
func (s *IndicatorSet) MarshalJSON() ([]byte, error) {
	list := make([]*IndicatorSeries, 0, len(s.order))
	for _, name := range s.order {
		list = append(list, s.series[name])
	}
	return json.Marshal(list)
}
