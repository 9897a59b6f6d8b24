// Package metrics exposes Prometheus metrics for analysis runs.
package metrics

import (
	"context"
	"log"
	"net/http"
	"time"

	"StockAnalyzer/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels of analyses_total.
const (
	OutcomeOK         = "ok"
	OutcomeFetchError = "fetch_error"
	OutcomeDataError  = "data_error"
)

// Metrics holds all Prometheus metrics of the analyzer.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec // labels: outcome
	AnalysisDuration prometheus.Histogram   // fetch + analyze, seconds
	SignalState      *prometheus.GaugeVec   // labels: symbol, family; value: state code
	ExportsTotal     *prometheus.CounterVec // labels: kind, outcome
	LastSuccess      *prometheus.GaugeVec   // labels: symbol; unix seconds
}

// New creates the metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockanalyzer_analyses_total",
			Help: "Total analyses by outcome",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockanalyzer_analysis_duration_seconds",
			Help:    "Time to fetch and analyze one symbol",
			Buckets: prometheus.DefBuckets,
		}),
		SignalState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stockanalyzer_signal_state",
			Help: "Latest signal per family: 1 positive, -1 negative, 0 neutral",
		}, []string{"symbol", "family"}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockanalyzer_exports_total",
			Help: "Total exports by kind and outcome",
		}, []string{"kind", "outcome"}),
		LastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stockanalyzer_last_success_timestamp_seconds",
			Help: "Unix time of the last successful analysis per symbol",
		}, []string{"symbol"}),
	}
	reg.MustRegister(m.AnalysesTotal, m.AnalysisDuration, m.SignalState, m.ExportsTotal, m.LastSuccess)
	return m
}

// ObserveAnalysis records one finished analysis.
func (m *Metrics) ObserveAnalysis(symbol, outcome string, took time.Duration, signals model.SignalSet) {
	m.AnalysesTotal.WithLabelValues(outcome).Inc()
	m.AnalysisDuration.Observe(took.Seconds())
	if outcome != OutcomeOK {
		return
	}
	m.LastSuccess.WithLabelValues(symbol).SetToCurrentTime()
	for _, f := range model.Families {
		st, ok := signals.Get(f)
		if !ok {
			m.SignalState.DeleteLabelValues(symbol, string(f))
			continue
		}
		m.SignalState.WithLabelValues(symbol, string(f)).Set(StateValue(st))
	}
}

// ObserveExport records one export attempt.
func (m *Metrics) ObserveExport(kind string, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = "error"
	}
	m.ExportsTotal.WithLabelValues(kind, outcome).Inc()
}

// StateValue encodes a state as a gauge value following its tone.
func StateValue(s model.State) float64 {
	switch s.Tone() {
	case model.TonePositive:
		return 1
	case model.ToneNegative:
		return -1
	default:
		return 0
	}
}

// Server runs an HTTP server exposing /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics server for the metrics gathered by g.
func NewServer(addr string, g prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return &Server{
		addr: addr,
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] metrics server listening on %s", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[ERROR] metrics server: %v", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
