package model

import "time"

// Family groups indicators that produce one signal state.
type Family string

const (
	FamilyTrend      Family = "TREND"
	FamilyMomentum   Family = "MOMENTUM"
	FamilyOscillator Family = "OSCILLATOR"
	FamilyVolatility Family = "VOLATILITY"
)

// Families lists every family in display order.
var Families = []Family{FamilyTrend, FamilyMomentum, FamilyOscillator, FamilyVolatility}

// Label is the status panel caption of the family.
func (f Family) Label() string {
	switch f {
	case FamilyTrend:
		return "SMA Crossover"
	case FamilyMomentum:
		return "MACD Signal"
	case FamilyOscillator:
		return "RSI OB/OS"
	case FamilyVolatility:
		return "BB Squeeze"
	default:
		return string(f)
	}
}

// State is a discrete classification of one family.
type State string

const (
	StateBuy        State = "BUY"
	StateSell       State = "SELL"
	StateHold       State = "HOLD"
	StateBullish    State = "BULLISH"
	StateBearish    State = "BEARISH"
	StateOverbought State = "OVERBOUGHT"
	StateOversold   State = "OVERSOLD"
	StateNeutral    State = "NEUTRAL"
	StateExpanding  State = "EXPANDING"
	StateSqueeze    State = "SQUEEZE"
)

// Tone is the colour a presentation layer gives a state.
type Tone string

const (
	TonePositive Tone = "green"
	ToneNegative Tone = "red"
	ToneCaution  Tone = "orange"
)

// Tone maps the state to its status LED colour.
func (s State) Tone() Tone {
	switch s {
	case StateBuy, StateBullish, StateOversold, StateExpanding:
		return TonePositive
	case StateSell, StateBearish, StateOverbought:
		return ToneNegative
	default:
		return ToneCaution
	}
}

// SignalSet holds one state per active family.
type SignalSet map[Family]State

// Get returns the state of a family and whether the family is applicable.
func (s SignalSet) Get(f Family) (State, bool) {
	st, ok := s[f]
	return st, ok
}

// Snapshot holds the latest defined value of each indicator used for classification.
type Snapshot struct {
	Time        time.Time
	Close       float64
	Values      map[IndicatorName]float64
	CloseStdDev float64 // population std-dev of close over the usable series
}

// Value returns the latest value of the named indicator, if one was defined.
func (s Snapshot) Value(name IndicatorName) (float64, bool) {
	v, ok := s.Values[name]
	return v, ok
}
