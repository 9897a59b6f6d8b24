package model

import "time"

// AnalysisConfig selects the optional indicator families and the source window.
// It is a value type: construct one per request and never mutate it.
type AnalysisConfig struct {
	EnableRSI       bool   `json:"enable_rsi"`
	EnableBollinger bool   `json:"enable_bollinger"`
	Period          Period `json:"period"`
	Interval        string `json:"interval"`
}

// DefaultAnalysisConfig is a six month daily window with RSI and Bollinger off.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{Period: Period6mo, Interval: "1d"}
}

// ResultBundle is the output of one analysis request.
type ResultBundle struct {
	Symbol      string         `json:"symbol"`
	Config      AnalysisConfig `json:"config"`
	Bars        []OHLCV        `json:"bars"`
	Indicators  *IndicatorSet  `json:"indicators"`
	Signals     SignalSet      `json:"signals"`
	Offset      int            `json:"offset"`        // leading rows dropped before the first usable row
	CloseStdDev float64        `json:"close_std_dev"` // population std-dev of close over Bars
}

// Last returns the most recent usable bar.
func (b *ResultBundle) Last() OHLCV {
	return b.Bars[len(b.Bars)-1]
}

// AsOf returns the time of the most recent usable bar.
func (b *ResultBundle) AsOf() time.Time {
	if len(b.Bars) == 0 {
		return time.Time{}
	}
	return b.Last().Time
}
