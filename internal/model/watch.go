package model

import "time"

// WatchEntry is the last known classification of one watched symbol.
type WatchEntry struct {
	Symbol     string    `json:"symbol"`
	Signals    SignalSet `json:"signals"`
	LastClose  float64   `json:"last_close"`
	AsOf       time.Time `json:"as_of"`
	AnalyzedAt time.Time `json:"analyzed_at"`
}

// WatchState tracks every watched symbol between scheduled runs.
type WatchState struct {
	Entries   map[string]*WatchEntry `json:"entries"`
	UpdatedAt time.Time              `json:"updated_at"`
}
