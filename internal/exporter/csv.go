package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"StockAnalyzer/internal/model"
)

// CSVExporter writes a bundle as a comma separated file. Path wins over Dir.
type CSVExporter struct {
	Dir  string
	Path string
}

func (e *CSVExporter) Export(bundle *model.ResultBundle) (string, error) {
	path := targetPath(e.Path, e.Dir, bundle, FormatCSV)
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create export dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create csv: %w", err)
	}
	if err := WriteCSV(f, BuildTable(bundle)); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close csv: %w", err)
	}
	log.Printf("[INFO] exported %d rows for %s to %s", len(bundle.Bars), bundle.Symbol, path)
	return path, nil
}

func (e *CSVExporter) Close() error { return nil }

// WriteCSV writes the header and every row of t to w.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Strings()); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
