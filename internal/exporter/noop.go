package exporter

import "StockAnalyzer/internal/model"

// NoopExporter is a no-op implementation used when exporting is not configured.
type NoopExporter struct{}

func NewNoopExporter() *NoopExporter { return &NoopExporter{} }

func (n *NoopExporter) Export(_ *model.ResultBundle) (string, error) { return "", nil }
func (n *NoopExporter) Close() error                                 { return nil }
