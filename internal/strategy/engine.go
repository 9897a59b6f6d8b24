// Package strategy maps the latest indicator values to discrete signal states.
package strategy

import "StockAnalyzer/internal/model"

// Classify produces one state per applicable family. Disabled families and
// families whose indicators have no defined value are left out.
func Classify(snap model.Snapshot, cfg model.AnalysisConfig) model.SignalSet {
	set := make(model.SignalSet, len(model.Families))

	if st, ok := classifyTrend(snap); ok {
		set[model.FamilyTrend] = st
	}
	if st, ok := classifyMomentum(snap); ok {
		set[model.FamilyMomentum] = st
	}
	if cfg.EnableRSI {
		if st, ok := classifyOscillator(snap); ok {
			set[model.FamilyOscillator] = st
		}
	}
	if cfg.EnableBollinger {
		if st, ok := classifyVolatility(snap); ok {
			set[model.FamilyVolatility] = st
		}
	}
	return set
}

// LatestSnapshot collects the most recent defined value of every series in the set.
func LatestSnapshot(set *model.IndicatorSet, bars []model.OHLCV, closeStd float64) model.Snapshot {
	snap := model.Snapshot{
		Values:      make(map[model.IndicatorName]float64),
		CloseStdDev: closeStd,
	}
	if len(bars) > 0 {
		last := bars[len(bars)-1]
		snap.Time = last.Time
		snap.Close = last.Close
	}
	if set == nil {
		return snap
	}
	for _, name := range set.Names() {
		if _, v, ok := set.Get(name).Latest(); ok {
			snap.Values[name] = v
		}
	}
	return snap
}
