package strategy

import "StockAnalyzer/internal/model"

// Cross is a change of the trend family between two analyses.
type Cross string

const (
	CrossNone   Cross = ""
	CrossGolden Cross = "GOLDEN"
	CrossDeath  Cross = "DEATH"
)

// DetectCross reports a golden cross when the trend turns to Buy and a death
// cross when it turns to Sell. A missing previous state never counts as a cross.
func DetectCross(prev, curr model.State) Cross {
	if prev == "" || prev == curr {
		return CrossNone
	}
	switch curr {
	case model.StateBuy:
		return CrossGolden
	case model.StateSell:
		return CrossDeath
	default:
		return CrossNone
	}
}

// Label is the human readable name of the cross.
func (c Cross) Label() string {
	switch c {
	case CrossGolden:
		return "Golden Cross"
	case CrossDeath:
		return "Death Cross"
	default:
		return ""
	}
}
