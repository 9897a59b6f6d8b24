package exporter

import (
	"bytes"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockAnalyzer/internal/model"

	"github.com/xuri/excelize/v2"
)

func testBundle() *model.ResultBundle {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	bars := []model.OHLCV{
		{Time: start, Open: 10, High: 11, Low: 9, Close: 10.5, Volume: 1200},
		{Time: start.AddDate(0, 0, 1), Open: 10.5, High: 12, Low: 10, Close: 11.25, Volume: 1500},
	}
	set := model.NewIndicatorSet()
	set.Add(model.NewIndicatorSeries(model.SMA20, []float64{10.123456, 10.2}))
	set.Add(model.NewIndicatorSeries(model.RSI, []float64{math.NaN(), 55.5}))
	return &model.ResultBundle{
		Symbol:      "AAPL",
		Config:      model.AnalysisConfig{EnableRSI: true, Period: model.Period6mo, Interval: "1d"},
		Bars:        bars,
		Indicators:  set,
		Signals:     model.SignalSet{model.FamilyTrend: model.StateBuy, model.FamilyOscillator: model.StateNeutral},
		Offset:      49,
		CloseStdDev: 0.375,
	}
}

func TestBuildTable(t *testing.T) {
	tbl := BuildTable(testBundle())
	wantHeader := "time,open,high,low,close,volume,SMA20,RSI"
	if got := strings.Join(tbl.Header, ","); got != wantHeader {
		t.Errorf("header = %s, want %s", got, wantHeader)
	}
	rows := tbl.Strings()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "2024-05-01 00:00:00" {
		t.Errorf("unexpected time cell %q", rows[0][0])
	}
	if rows[0][5] != "1200" {
		t.Errorf("volume should be whole, got %q", rows[0][5])
	}
	if rows[0][6] != "10.1235" {
		t.Errorf("SMA20 should be rounded to 4 places, got %q", rows[0][6])
	}
	if rows[0][7] != "" {
		t.Errorf("undefined RSI should be empty, got %q", rows[0][7])
	}
	if rows[1][7] != "55.5000" {
		t.Errorf("RSI = %q, want 55.5000", rows[1][7])
	}
}

func TestCSVExporter(t *testing.T) {
	dir := t.TempDir()
	e := &CSVExporter{Dir: dir}
	path, err := e.Export(testBundle())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if filepath.Base(path) != "AAPL_6mo_20240502.csv" {
		t.Errorf("unexpected file name %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[2][4] != "11.2500" {
		t.Errorf("close = %q, want 11.2500", records[2][4])
	}
}

func TestXLSXExporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "aapl.xlsx")
	e, err := ForPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Export(testBundle()); err != nil {
		t.Fatalf("export: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := f.GetRows("AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][6] != "SMA20" {
		t.Errorf("unexpected header %v", rows[0])
	}
	if rows[2][7] != "55.5" {
		t.Errorf("RSI cell = %q, want 55.5", rows[2][7])
	}
}

func TestXLSXExporter_AwkwardSymbol(t *testing.T) {
	b := testBundle()
	b.Symbol = "BRK/B:[CLASS*B]?" + strings.Repeat("X", 40)
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if _, err := (&XLSXExporter{Path: path}).Export(b); err != nil {
		t.Fatal(err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	name := f.GetSheetName(0)
	if len([]rune(name)) != 31 || strings.ContainsAny(name, `:\/?*[]`) {
		t.Errorf("unexpected sheet name %q", name)
	}
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		symbol string
		want   string
	}{
		{"AAPL", "AAPL"},
		{"BRK/B", "BRK_B"},
		{"", "Analysis"},
		{"'''", "Analysis"},
		{"'X'", "X"},
		{strings.Repeat("A", 40), strings.Repeat("A", 31)},
	}
	for _, tt := range tests {
		if got := sheetName(tt.symbol); got != tt.want {
			t.Errorf("sheetName(%q) = %q, want %q", tt.symbol, got, tt.want)
		}
	}
}

func TestForPath(t *testing.T) {
	if _, err := ForPath("report.pdf"); err == nil {
		t.Error("expected error for unsupported extension")
	}
	e, err := ForPath("REPORT.CSV")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := e.(*CSVExporter); !ok {
		t.Errorf("expected CSVExporter, got %T", e)
	}
	if _, err := ForFormat("dir", "json"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestSQLiteExporter(t *testing.T) {
	e, err := NewSQLiteExporter(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()

	id, err := e.Export(testBundle())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(id) != 36 {
		t.Errorf("expected uuid run id, got %q", id)
	}
	n, err := e.RowCount(id)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows, got %d", n)
	}

	runs, err := e.Runs("AAPL", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if r.ID != id || r.Rows != 2 || r.Period != "6mo" {
		t.Errorf("unexpected run: %+v", r)
	}
	if r.Signals[model.FamilyTrend] != model.StateBuy {
		t.Errorf("trend = %s, want BUY", r.Signals[model.FamilyTrend])
	}
	if _, ok := r.Signals[model.FamilyMomentum]; ok {
		t.Error("momentum should be NULL")
	}
}

func TestNoopExporter(t *testing.T) {
	e := NewNoopExporter()
	if loc, err := e.Export(testBundle()); err != nil || loc != "" {
		t.Errorf("unexpected result %q, %v", loc, err)
	}
}
