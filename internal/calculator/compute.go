package calculator

import "StockAnalyzer/internal/model"

// Indicator windows. Thresholds are fixed; they are not part of AnalysisConfig.
const (
	SMAFastPeriod   = 20
	SMASlowPeriod   = 50
	EMAFastPeriod   = 12
	EMASlowPeriod   = 26
	SignalPeriod    = 9
	RSIPeriod       = 14
	BollingerPeriod = 20
	BollingerK      = 2.0
)

// LongestWindow returns the number of rows needed before the first usable row,
// used to report insufficient history. Usability only depends on the baseline
// indicators, so the slow SMA decides it; the optional RSI and Bollinger
// windows are shorter and undefined cells there never hold a row back.
func LongestWindow(model.AnalysisConfig) int {
	return SMASlowPeriod
}

// Compute derives every indicator series the configuration enables from the close
// prices of bars. It is pure: identical input always yields identical output.
func Compute(bars []model.OHLCV, cfg model.AnalysisConfig) *model.IndicatorSet {
	closes := model.ExtractCloses(bars)
	set := model.NewIndicatorSet()

	set.Add(model.NewIndicatorSeries(model.SMA20, SMA(closes, SMAFastPeriod)))
	set.Add(model.NewIndicatorSeries(model.SMA50, SMA(closes, SMASlowPeriod)))

	emaFast := EMA(closes, EMAFastPeriod)
	emaSlow := EMA(closes, EMASlowPeriod)
	macd := Subtract(emaFast, emaSlow)
	signal := EMA(macd, SignalPeriod)
	set.Add(model.NewIndicatorSeries(model.EMA12, emaFast))
	set.Add(model.NewIndicatorSeries(model.EMA26, emaSlow))
	set.Add(model.NewIndicatorSeries(model.MACD, macd))
	set.Add(model.NewIndicatorSeries(model.Signal, signal))
	set.Add(model.NewIndicatorSeries(model.MACDHist, Subtract(macd, signal)))

	if cfg.EnableRSI {
		set.Add(model.NewIndicatorSeries(model.RSI, RSI(closes, RSIPeriod)))
	}
	if cfg.EnableBollinger {
		bands := Bollinger(closes, BollingerPeriod, BollingerK)
		set.Add(model.NewIndicatorSeries(model.BBUpper, bands.Upper))
		set.Add(model.NewIndicatorSeries(model.BBMid, bands.Mid))
		set.Add(model.NewIndicatorSeries(model.BBLower, bands.Lower))
	}
	return set
}
