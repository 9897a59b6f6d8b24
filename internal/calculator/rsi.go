package calculator

import "gonum.org/v1/gonum/stat"

// RSI computes the relative strength index from trailing simple averages of
// gains and losses over the given period. The first period positions are NaN
// because position 0 has no price change.
//
// When the average loss is exactly zero the RSI is 100.
func RSI(closes []float64, period int) []float64 {
	out := undefined(len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	up := make([]float64, len(closes))
	down := make([]float64, len(closes))
	for t := 1; t < len(closes); t++ {
		delta := closes[t] - closes[t-1]
		if delta > 0 {
			up[t] = delta
		} else {
			down[t] = -delta
		}
	}

	for t := period; t < len(closes); t++ {
		avgUp := stat.Mean(up[t-period+1:t+1], nil)
		avgDown := stat.Mean(down[t-period+1:t+1], nil)
		out[t] = rsiFromAverages(avgUp, avgDown)
	}
	return out
}

func rsiFromAverages(avgUp, avgDown float64) float64 {
	if avgDown == 0 {
		return 100.0
	}
	rs := avgUp / avgDown
	return 100.0 - 100.0/(1.0+rs)
}
