// Package exporter writes analysis results as row-per-timestamp tables.
package exporter

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"StockAnalyzer/internal/model"
)

// Exporter persists one analysis result and returns where it went
// (a file path or a run id).
type Exporter interface {
	Export(bundle *model.ResultBundle) (string, error)
	Close() error
}

// Supported file formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ForPath picks a file exporter from the extension of path.
func ForPath(path string) (Exporter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return &CSVExporter{Path: path}, nil
	case ".xlsx":
		return &XLSXExporter{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported export file %q (want .csv or .xlsx)", path)
	}
}

// ForFormat returns a file exporter writing generated file names under dir.
func ForFormat(dir, format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case FormatCSV:
		return &CSVExporter{Dir: dir}, nil
	case FormatXLSX:
		return &XLSXExporter{Dir: dir}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// fileName builds <SYMBOL>_<period>_<asof>.<ext>.
func fileName(bundle *model.ResultBundle, ext string) string {
	period := string(bundle.Config.Period)
	if period == "" {
		period = "custom"
	}
	return fmt.Sprintf("%s_%s_%s.%s", bundle.Symbol, period, bundle.AsOf().UTC().Format("20060102"), ext)
}

func targetPath(path, dir string, bundle *model.ResultBundle, ext string) string {
	if path != "" {
		return path
	}
	return filepath.Join(dir, fileName(bundle, ext))
}

const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
