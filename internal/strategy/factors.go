package strategy

import "StockAnalyzer/internal/model"

// Oscillator thresholds on RSI(14).
const (
	RSIOversold   = 30.0
	RSIOverbought = 70.0
)

// SqueezeRatio scales the close std-dev into the minimum band width that counts as expanding.
const SqueezeRatio = 0.1

// classifyTrend compares the fast and slow SMA.
// Equal averages resolve to Hold.
func classifyTrend(snap model.Snapshot) (model.State, bool) {
	fast, ok1 := snap.Value(model.SMA20)
	slow, ok2 := snap.Value(model.SMA50)
	if !ok1 || !ok2 {
		return "", false
	}
	switch {
	case fast > slow:
		return model.StateBuy, true
	case fast < slow:
		return model.StateSell, true
	default:
		return model.StateHold, true
	}
}

// classifyMomentum compares MACD with its signal line.
// Anything but a strictly higher MACD is Bearish.
func classifyMomentum(snap model.Snapshot) (model.State, bool) {
	macd, ok1 := snap.Value(model.MACD)
	signal, ok2 := snap.Value(model.Signal)
	if !ok1 || !ok2 {
		return "", false
	}
	if macd > signal {
		return model.StateBullish, true
	}
	return model.StateBearish, true
}

func classifyOscillator(snap model.Snapshot) (model.State, bool) {
	rsi, ok := snap.Value(model.RSI)
	if !ok {
		return "", false
	}
	switch {
	case rsi < RSIOversold:
		return model.StateOversold, true
	case rsi > RSIOverbought:
		return model.StateOverbought, true
	default:
		return model.StateNeutral, true
	}
}

// classifyVolatility compares the Bollinger band width with a fraction of the
// close std-dev over the whole usable series.
func classifyVolatility(snap model.Snapshot) (model.State, bool) {
	upper, ok1 := snap.Value(model.BBUpper)
	lower, ok2 := snap.Value(model.BBLower)
	if !ok1 || !ok2 {
		return "", false
	}
	if upper-lower > SqueezeRatio*snap.CloseStdDev {
		return model.StateExpanding, true
	}
	return model.StateSqueeze, true
}
