package exporter

import (
	"math"
	"time"

	"StockAnalyzer/internal/model"

	"github.com/shopspring/decimal"
)

// Places of decimals written for prices and indicator values.
const valuePlaces = 4

// Table is the tabular form of a result bundle over its usable rows.
// Values holds one row per timestamp; undefined cells are NaN.
type Table struct {
	Header []string
	Times  []time.Time
	Values [][]float64
}

// BuildTable lays out the bars followed by every indicator column of the bundle.
func BuildTable(bundle *model.ResultBundle) *Table {
	names := bundle.Indicators.Names()
	t := &Table{
		Header: append([]string{"time"}, model.RequiredFields...),
		Times:  make([]time.Time, len(bundle.Bars)),
		Values: make([][]float64, len(bundle.Bars)),
	}
	for _, n := range names {
		t.Header = append(t.Header, string(n))
	}

	for i, b := range bundle.Bars {
		row := make([]float64, 0, 5+len(names))
		row = append(row, b.Open, b.High, b.Low, b.Close, b.Volume)
		for _, n := range names {
			v, _ := bundle.Indicators.Get(n).At(i)
			row = append(row, v)
		}
		t.Times[i] = b.Time
		t.Values[i] = row
	}
	return t
}

// Strings renders every row as text, with empty cells where a value is undefined.
func (t *Table) Strings() [][]string {
	out := make([][]string, len(t.Values))
	for i, row := range t.Values {
		rec := make([]string, 0, len(row)+1)
		rec = append(rec, formatTime(t.Times[i]))
		for j, v := range row {
			rec = append(rec, formatValue(v, j == volumeColumn))
		}
		out[i] = rec
	}
	return out
}

// volumeColumn is the index of volume within Values rows.
const volumeColumn = 4

func formatValue(v float64, whole bool) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if whole {
		return decimal.NewFromFloat(v).StringFixed(0)
	}
	return decimal.NewFromFloat(v).StringFixed(valuePlaces)
}

// roundValue rounds v to the exported precision.
func roundValue(v float64) float64 {
	return decimal.NewFromFloat(v).Round(valuePlaces).InexactFloat64()
}
