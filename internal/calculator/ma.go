package calculator

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// SMA computes the simple moving average over the trailing period values,
// inclusive of the current one. The first period-1 positions are NaN.
func SMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 {
		return out
	}
	for t := period - 1; t < len(values); t++ {
		out[t] = stat.Mean(values[t-period+1:t+1], nil)
	}
	return out
}

// EMA computes the exponential moving average with alpha = 2/(period+1),
// seeded by the first defined value with no backward adjustment.
// Positions before the seed are NaN.
func EMA(values []float64, period int) []float64 {
	out := undefined(len(values))
	if period <= 0 {
		return out
	}
	alpha := 2.0 / float64(period+1)

	seeded := false
	var prev float64
	for t, v := range values {
		if !seeded {
			if math.IsNaN(v) {
				continue
			}
			prev = v
			seeded = true
			out[t] = prev
			continue
		}
		prev = alpha*v + (1-alpha)*prev
		out[t] = prev
	}
	return out
}

// Subtract returns a[i]-b[i]; a NaN on either side yields NaN.
func Subtract(a, b []float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] - b[i]
	}
	return out
}

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
