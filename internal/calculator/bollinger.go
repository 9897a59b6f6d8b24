package calculator

import "gonum.org/v1/gonum/stat"

// Bands holds the three Bollinger series, aligned with the input.
type Bands struct {
	Upper []float64
	Mid   []float64
	Lower []float64
}

// Bollinger computes mid = SMA(period) and upper/lower = mid ± k·std, where std is
// the trailing sample standard deviation over the same window.
func Bollinger(closes []float64, period int, k float64) Bands {
	b := Bands{
		Upper: undefined(len(closes)),
		Mid:   SMA(closes, period),
		Lower: undefined(len(closes)),
	}
	if period <= 1 {
		return b
	}
	for t := period - 1; t < len(closes); t++ {
		std := stat.StdDev(closes[t-period+1:t+1], nil)
		b.Upper[t] = b.Mid[t] + k*std
		b.Lower[t] = b.Mid[t] - k*std
	}
	return b
}
