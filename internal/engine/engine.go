// Package engine turns a raw OHLCV series into indicator series and signal states.
//
// An analysis runs validation, indicator calculation, trimming of the leading
// rows where the baseline indicators are undefined, and classification of the
// last usable row. It holds no state between calls.
package engine

import (
	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/strategy"
	"StockAnalyzer/internal/validator"
)

// Analyze validates a raw series and analyzes it.
// Validation errors are returned unchanged.
func Analyze(raw *model.RawSeries, cfg model.AnalysisConfig) (*model.ResultBundle, error) {
	series, err := validator.Validate(raw, model.RequiredFields)
	if err != nil {
		return nil, err
	}
	return analyze(series, cfg)
}

// AnalyzeSeries analyzes a typed series. Non-finite bars are dropped and the
// rest ordered by time before any indicator is computed.
func AnalyzeSeries(series *model.Series, cfg model.AnalysisConfig) (*model.ResultBundle, error) {
	validated, err := validator.ValidateBars(series)
	if err != nil {
		return nil, err
	}
	return analyze(validated, cfg)
}

func analyze(series *model.Series, cfg model.AnalysisConfig) (*model.ResultBundle, error) {
	full := calculator.Compute(series.Bars, cfg)

	offset := FirstUsableRow(full)
	if offset < 0 {
		return nil, &model.SeriesError{
			Kind:      model.KindInsufficientHistory,
			Required:  calculator.LongestWindow(cfg),
			Available: len(series.Bars),
			Reason:    "baseline indicators never defined",
		}
	}

	bars := make([]model.OHLCV, len(series.Bars)-offset)
	copy(bars, series.Bars[offset:])
	indicators := full.Slice(offset)

	closeStd, err := calculator.PopulationStdDev(model.ExtractCloses(bars))
	if err != nil {
		return nil, err
	}

	snap := strategy.LatestSnapshot(indicators, bars, closeStd)

	return &model.ResultBundle{
		Symbol:      series.Symbol,
		Config:      cfg,
		Bars:        bars,
		Indicators:  indicators,
		Signals:     strategy.Classify(snap, cfg),
		Offset:      offset,
		CloseStdDev: closeStd,
	}, nil
}

// FirstUsableRow returns the first row at which every baseline indicator is
// defined, or -1 when there is none.
func FirstUsableRow(set *model.IndicatorSet) int {
	for _, name := range model.BaselineIndicators {
		if !set.Has(name) {
			return -1
		}
	}
	from := 0
	for _, name := range model.BaselineIndicators {
		first := set.Get(name).FirstDefined()
		if first < 0 {
			return -1
		}
		if first > from {
			from = first
		}
	}
	n := set.Get(model.BaselineIndicators[0]).Len()
	for i := from; i < n; i++ {
		usable := true
		for _, name := range model.BaselineIndicators {
			if !set.Get(name).Defined(i) {
				usable = false
				break
			}
		}
		if usable {
			return i
		}
	}
	return -1
}
