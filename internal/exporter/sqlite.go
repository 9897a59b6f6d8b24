package exporter

import (
	"database/sql"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"StockAnalyzer/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteExporter appends every analysis run to a SQLite database.
type SQLiteExporter struct {
	db *sql.DB
	mu sync.Mutex
}

// RunSummary is one row of analysis_runs.
type RunSummary struct {
	ID          string
	Symbol      string
	Period      string
	Interval    string
	AsOf        time.Time
	CreatedAt   time.Time
	Rows        int
	CloseStdDev float64
	Signals     model.SignalSet
}

// indicatorColumns maps every indicator onto its analysis_rows column.
var indicatorColumns = []struct {
	Name   model.IndicatorName
	Column string
}{
	{model.SMA20, "sma20"},
	{model.SMA50, "sma50"},
	{model.EMA12, "ema12"},
	{model.EMA26, "ema26"},
	{model.MACD, "macd"},
	{model.Signal, "macd_signal"},
	{model.MACDHist, "macd_hist"},
	{model.RSI, "rsi"},
	{model.BBUpper, "bb_upper"},
	{model.BBMid, "bb_mid"},
	{model.BBLower, "bb_lower"},
}

// NewSQLiteExporter opens (or creates) the SQLite database and runs migrations.
func NewSQLiteExporter(dbPath string) (*SQLiteExporter, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	e := &SQLiteExporter{db: db}
	if err := e.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite exporter opened: %s", dbPath)
	return e, nil
}

func (e *SQLiteExporter) migrate() error {
	cols := make([]string, len(indicatorColumns))
	for i, c := range indicatorColumns {
		cols[i] = c.Column + " REAL"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			id            TEXT PRIMARY KEY,
			symbol        TEXT NOT NULL,
			period        TEXT,
			interval      TEXT,
			as_of         INTEGER NOT NULL,
			created_at    INTEGER NOT NULL,
			row_count     INTEGER,
			close_std_dev REAL,
			trend         TEXT,
			momentum      TEXT,
			oscillator    TEXT,
			volatility    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol ON analysis_runs(symbol, created_at)`,

		`CREATE TABLE IF NOT EXISTS analysis_rows (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL REFERENCES analysis_runs(id),
			timestamp INTEGER NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			volume    REAL,
			` + strings.Join(cols, ",\n\t\t\t") + `
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rows_run ON analysis_rows(run_id, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := e.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Export stores the run and its rows in one transaction and returns the run id.
func (e *SQLiteExporter) Export(bundle *model.ResultBundle) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := uuid.NewString()
	tx, err := e.db.Begin()
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	sig := bundle.Signals
	_, err = tx.Exec(`INSERT INTO analysis_runs
		(id, symbol, period, interval, as_of, created_at, row_count, close_std_dev,
		 trend, momentum, oscillator, volatility)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, bundle.Symbol, string(bundle.Config.Period), bundle.Config.Interval,
		bundle.AsOf().Unix(), time.Now().Unix(), len(bundle.Bars), bundle.CloseStdDev,
		nullState(sig, model.FamilyTrend), nullState(sig, model.FamilyMomentum),
		nullState(sig, model.FamilyOscillator), nullState(sig, model.FamilyVolatility),
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	names := make([]string, len(indicatorColumns))
	marks := make([]string, len(indicatorColumns))
	for i, c := range indicatorColumns {
		names[i] = c.Column
		marks[i] = "?"
	}
	stmt, err := tx.Prepare(`INSERT INTO analysis_rows
		(run_id, timestamp, open, high, low, close, volume, ` + strings.Join(names, ", ") + `)
		VALUES (?,?,?,?,?,?,?,` + strings.Join(marks, ",") + `)`)
	if err != nil {
		return "", fmt.Errorf("prepare rows: %w", err)
	}
	defer stmt.Close()

	for i, b := range bundle.Bars {
		args := []any{id, b.Time.Unix(), b.Open, b.High, b.Low, b.Close, b.Volume}
		for _, c := range indicatorColumns {
			args = append(args, nullValue(bundle.Indicators.Get(c.Name), i))
		}
		if _, err := stmt.Exec(args...); err != nil {
			return "", fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Runs returns the most recent runs for symbol, newest first.
func (e *SQLiteExporter) Runs(symbol string, limit int) ([]RunSummary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rows, err := e.db.Query(`SELECT id, symbol, period, interval, as_of, created_at, row_count,
		close_std_dev, trend, momentum, oscillator, volatility
		FROM analysis_runs WHERE symbol = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			r               RunSummary
			asOf, createdAt int64
			trend, momentum sql.NullString
			osc, vol        sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Symbol, &r.Period, &r.Interval, &asOf, &createdAt, &r.Rows,
			&r.CloseStdDev, &trend, &momentum, &osc, &vol); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.AsOf = time.Unix(asOf, 0).UTC()
		r.CreatedAt = time.Unix(createdAt, 0).UTC()
		r.Signals = model.SignalSet{}
		for f, s := range map[model.Family]sql.NullString{
			model.FamilyTrend: trend, model.FamilyMomentum: momentum,
			model.FamilyOscillator: osc, model.FamilyVolatility: vol,
		} {
			if s.Valid {
				r.Signals[f] = model.State(s.String)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RowCount returns the number of stored rows for a run.
func (e *SQLiteExporter) RowCount(runID string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var n int
	err := e.db.QueryRow(`SELECT COUNT(*) FROM analysis_rows WHERE run_id = ?`, runID).Scan(&n)
	return n, err
}

func (e *SQLiteExporter) Close() error {
	log.Println("[INFO] closing sqlite exporter")
	return e.db.Close()
}

func nullState(s model.SignalSet, f model.Family) sql.NullString {
	st, ok := s.Get(f)
	return sql.NullString{String: string(st), Valid: ok}
}

func nullValue(s *model.IndicatorSeries, i int) sql.NullFloat64 {
	if s == nil {
		return sql.NullFloat64{}
	}
	v, ok := s.At(i)
	if !ok || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}
