package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/exporter"
	"StockAnalyzer/internal/metrics"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/publisher"
	"StockAnalyzer/internal/watchlist"

	"github.com/robfig/cron/v3"
)

// Analyzer fetches and analyzes one symbol.
type Analyzer interface {
	Analyze(ctx context.Context, symbol string, cfg model.AnalysisConfig) (*model.ResultBundle, error)
}

// Sender delivers a chat message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// HistoryStore lists previous analysis runs.
type HistoryStore interface {
	Runs(symbol string, limit int) ([]exporter.RunSummary, error)
}

// Deps are the collaborators of a Scheduler. Notifier and History may be nil.
type Deps struct {
	Analyzer  Analyzer
	Watchlist *watchlist.Manager
	Notifier  Sender
	Exporters map[string]exporter.Exporter // keyed by kind, e.g. "csv", "sqlite"
	History   HistoryStore
	Publisher publisher.Publisher
	Metrics   *metrics.Metrics
	Config    model.AnalysisConfig
}

// Scheduler manages the cron watch loop and chat commands.
type Scheduler struct {
	Deps
	Cron *cron.Cron
	Ctx  context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, deps Deps) *Scheduler {
	if deps.Publisher == nil {
		deps.Publisher = publisher.NoopPublisher{}
	}
	return &Scheduler{
		Deps: deps,
		Cron: cron.New(cron.WithSeconds()),
		Ctx:  ctx,
	}
}

// RegisterAll registers the periodic analysis of the watchlist.
func (s *Scheduler) RegisterAll(analysisCron string) error {
	if _, err := s.Cron.AddFunc(analysisCron, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow analyzes the whole watchlist immediately.
func (s *Scheduler) RunNow() {
	s.analysisTask()
}

func (s *Scheduler) analysisTask() {
	symbols := s.Watchlist.Symbols()
	log.Printf("[INFO] running analysis for %d symbols", len(symbols))
	for _, sym := range symbols {
		if s.Ctx.Err() != nil {
			return
		}
		s.watchSymbol(s.Ctx, sym)
	}
}

// watchSymbol runs one scheduled analysis: export, publish, compare with the
// last known state and notify on changes. Failures are reported, never retried.
func (s *Scheduler) watchSymbol(ctx context.Context, symbol string) {
	bundle, err := s.analyze(ctx, symbol, s.Config)
	if err != nil {
		log.Printf("[ERROR] analyze %s: %v", symbol, err)
		s.trySend(notifier.FormatError(symbol, err))
		return
	}

	for kind, e := range s.Exporters {
		loc, err := e.Export(bundle)
		s.Metrics.ObserveExport(kind, err)
		if err != nil {
			log.Printf("[ERROR] %s export %s: %v", kind, symbol, err)
			continue
		}
		log.Printf("[INFO] %s export %s: %s", kind, symbol, loc)
	}

	if err := s.Publisher.Publish(ctx, bundle); err != nil {
		log.Printf("[WARN] publish %s: %v", symbol, err)
	}

	change, err := s.Watchlist.Update(symbol, bundle.Signals, bundle.Last().Close, bundle.AsOf())
	if errors.Is(err, watchlist.ErrNotWatched) {
		log.Printf("[INFO] %s left the watchlist during analysis, skipping", symbol)
		return
	}
	if err != nil {
		log.Printf("[ERROR] update watchlist %s: %v", symbol, err)
	}
	if change != nil && (change.Changed() || change.Cross != "") {
		s.trySend(notifier.FormatChange(change, bundle))
	}
}

// analyze runs one analysis and records its outcome.
func (s *Scheduler) analyze(ctx context.Context, symbol string, cfg model.AnalysisConfig) (*model.ResultBundle, error) {
	start := time.Now()
	bundle, err := s.Analyzer.Analyze(ctx, symbol, cfg)

	outcome := metrics.OutcomeOK
	var signals model.SignalSet
	switch {
	case err == nil:
		signals = bundle.Signals
		symbol = bundle.Symbol
	case errors.As(err, new(*model.SeriesError)):
		outcome = metrics.OutcomeDataError
	default:
		outcome = metrics.OutcomeFetchError
	}
	s.Metrics.ObserveAnalysis(symbol, outcome, time.Since(start), signals)
	return bundle, err
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	args := fields[1:]

	switch strings.ToLower(fields[0]) {
	case "/analyze":
		if len(args) == 0 {
			return "usage: /analyze SYMBOL [1mo|3mo|6mo|1y|2y]"
		}
		cfg := s.Config
		if len(args) > 1 {
			p, err := model.ParsePeriod(args[1])
			if err != nil {
				return err.Error()
			}
			cfg.Period = p
		}
		symbol := collector.NormalizeSymbol(args[0])
		bundle, err := s.analyze(ctx, symbol, cfg)
		if err != nil {
			return notifier.FormatError(symbol, err)
		}
		return notifier.FormatStatusPanel(bundle)

	case "/watchlist":
		return notifier.FormatWatchlist(s.Watchlist.Entries())

	case "/watch":
		if len(args) == 0 {
			return "usage: /watch SYMBOL"
		}
		symbol := collector.NormalizeSymbol(args[0])
		if err := s.Watchlist.Add(symbol); err != nil {
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("👀 watching %s", symbol)

	case "/unwatch":
		if len(args) == 0 {
			return "usage: /unwatch SYMBOL"
		}
		symbol := collector.NormalizeSymbol(args[0])
		if err := s.Watchlist.Remove(symbol); err != nil {
			return "❌ " + err.Error()
		}
		return fmt.Sprintf("stopped watching %s", symbol)

	case "/history":
		if len(args) == 0 {
			return "usage: /history SYMBOL"
		}
		if s.History == nil {
			return "history is not recorded"
		}
		symbol := collector.NormalizeSymbol(args[0])
		runs, err := s.History.Runs(symbol, 5)
		if err != nil {
			return "❌ " + err.Error()
		}
		return notifier.FormatHistory(symbol, runs)

	case "/run":
		go s.RunNow()
		return fmt.Sprintf("running analysis for %d symbols", len(s.Watchlist.Symbols()))

	default:
		return helpText
	}
}

const helpText = `Commands:
• /analyze SYMBOL [period]
• /watchlist
• /watch SYMBOL
• /unwatch SYMBOL
• /history SYMBOL
• /run`

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Printf("[INFO] notification (telegram disabled): %s", text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
