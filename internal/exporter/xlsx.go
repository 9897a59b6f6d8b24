package exporter

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"StockAnalyzer/internal/model"

	"github.com/xuri/excelize/v2"
)

// XLSXExporter writes a bundle as a single-sheet workbook. Path wins over Dir.
type XLSXExporter struct {
	Dir  string
	Path string
}

func (e *XLSXExporter) Export(bundle *model.ResultBundle) (string, error) {
	path := targetPath(e.Path, e.Dir, bundle, FormatXLSX)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create export dir: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(bundle.Symbol)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return "", fmt.Errorf("name sheet: %w", err)
	}

	t := BuildTable(bundle)
	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}

	for i, values := range t.Values {
		row := make([]interface{}, 0, len(values)+1)
		row = append(row, formatTime(t.Times[i]))
		for _, v := range values {
			if math.IsNaN(v) {
				row = append(row, nil)
				continue
			}
			row = append(row, roundValue(v))
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save xlsx: %w", err)
	}
	log.Printf("[INFO] exported %d rows for %s to %s", len(t.Values), bundle.Symbol, path)
	return path, nil
}

func (e *XLSXExporter) Close() error { return nil }

// sheetName makes a symbol usable as a worksheet name: the characters Excel
// rejects become '_', surrounding apostrophes go and the name is cut to 31 runes.
func sheetName(symbol string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}
		return r
	}, symbol)
	name = strings.Trim(name, "'")
	if r := []rune(name); len(r) > excelize.MaxSheetNameLength {
		name = strings.TrimRight(string(r[:excelize.MaxSheetNameLength]), "'")
	}
	if strings.TrimSpace(name) == "" {
		return "Analysis"
	}
	return name
}
