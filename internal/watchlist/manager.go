// Package watchlist remembers the last signal states of watched symbols and
// reports what changed between two analyses.
package watchlist

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/strategy"
)

// ErrNotWatched is returned by Update for a symbol that is no longer watched.
var ErrNotWatched = errors.New("symbol is not on the watchlist")

// FamilyChange is a state transition of one family.
type FamilyChange struct {
	Family model.Family
	From   model.State
	To     model.State
}

// Change summarizes an update of one symbol.
type Change struct {
	Symbol   string
	First    bool // no previous signals existed
	Families []FamilyChange
	Cross    strategy.Cross
}

// Changed reports whether any family moved.
func (c *Change) Changed() bool {
	return len(c.Families) > 0
}

// Manager keeps the watch state with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	state    *model.WatchState
	filePath string
}

// NewManager creates a Manager, loading state from disk and adding the
// configured symbols that are not tracked yet.
func NewManager(filePath string, symbols []string) (*Manager, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}
	for _, s := range symbols {
		if _, ok := state.Entries[s]; !ok {
			state.Entries[s] = &model.WatchEntry{Symbol: s}
		}
	}

	m := &Manager{state: state, filePath: filePath}
	if err := m.save(); err != nil {
		return nil, err
	}
	return m, nil
}

// Symbols returns the watched symbols in alphabetical order.
func (m *Manager) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.symbols()
}

func (m *Manager) symbols() []string {
	out := make([]string, 0, len(m.state.Entries))
	for s := range m.state.Entries {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Entry returns a copy of the entry of symbol.
func (m *Manager) Entry(symbol string) (model.WatchEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.state.Entries[symbol]
	if !ok {
		return model.WatchEntry{}, false
	}
	return copyEntry(e), true
}

// Entries returns copies of every entry ordered by symbol.
func (m *Manager) Entries() []model.WatchEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	symbols := m.symbols()
	out := make([]model.WatchEntry, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, copyEntry(m.state.Entries[s]))
	}
	return out
}

// Add starts watching symbol. Adding a watched symbol is a no-op.
func (m *Manager) Add(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.Entries[symbol]; ok {
		return nil
	}
	m.state.Entries[symbol] = &model.WatchEntry{Symbol: symbol}
	return m.save()
}

// Remove stops watching symbol.
func (m *Manager) Remove(symbol string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.Entries[symbol]; !ok {
		return fmt.Errorf("%s is not on the watchlist", symbol)
	}
	delete(m.state.Entries, symbol)
	return m.save()
}

// Update stores the latest signals of symbol and returns the families that
// changed plus any trend cross. A symbol seen for the first time since Add
// reports no changes. A symbol removed meanwhile is left out and Update
// returns ErrNotWatched.
func (m *Manager) Update(symbol string, signals model.SignalSet, lastClose float64, asOf time.Time) (*Change, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.state.Entries[symbol]
	if !ok {
		return nil, fmt.Errorf("%s: %w", symbol, ErrNotWatched)
	}
	change := &Change{Symbol: symbol}
	if prev.Signals == nil {
		change.First = true
	} else {
		for _, f := range model.Families {
			from, hadFrom := prev.Signals.Get(f)
			to, hasTo := signals.Get(f)
			if hadFrom && hasTo && from != to {
				change.Families = append(change.Families, FamilyChange{Family: f, From: from, To: to})
			}
		}
		change.Cross = strategy.DetectCross(prev.Signals[model.FamilyTrend], signals[model.FamilyTrend])
	}

	copied := make(model.SignalSet, len(signals))
	for f, s := range signals {
		copied[f] = s
	}
	m.state.Entries[symbol] = &model.WatchEntry{
		Symbol:     symbol,
		Signals:    copied,
		LastClose:  lastClose,
		AsOf:       asOf,
		AnalyzedAt: time.Now(),
	}

	if err := m.save(); err != nil {
		log.Printf("[ERROR] save watch state: %v", err)
		return change, err
	}
	return change, nil
}

func (m *Manager) save() error {
	return SaveState(m.filePath, m.state)
}

func copyEntry(e *model.WatchEntry) model.WatchEntry {
	out := *e
	if e.Signals != nil {
		out.Signals = make(model.SignalSet, len(e.Signals))
		for f, s := range e.Signals {
			out.Signals[f] = s
		}
	}
	return out
}
