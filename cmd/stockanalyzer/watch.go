package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/exporter"
	"StockAnalyzer/internal/metrics"
	"StockAnalyzer/internal/notifier"
	"StockAnalyzer/internal/scheduler"
	"StockAnalyzer/internal/watchlist"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var runOnStart bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Analyze the watchlist on a schedule and push signal changes to Telegram",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log.Println("[INFO] stockanalyzer watch starting...")

			fetcher, err := newFetcher(cfg)
			if err != nil {
				return err
			}

			symbols := make([]string, 0, len(cfg.Analysis.Symbols))
			for _, s := range cfg.Analysis.Symbols {
				symbols = append(symbols, collector.NormalizeSymbol(s))
			}
			wl, err := watchlist.NewManager(cfg.Watchlist.StateFile, symbols)
			if err != nil {
				return err
			}

			fileExporter, err := exporter.ForFormat(cfg.Export.Dir, cfg.Export.Format)
			if err != nil {
				return err
			}
			exporters := map[string]exporter.Exporter{cfg.Export.Format: fileExporter}
			deps := scheduler.Deps{
				Analyzer:  collector.NewCollector(fetcher),
				Watchlist: wl,
				Exporters: exporters,
				Config:    cfg.AnalysisConfig(),
			}
			if db := newSQLite(cfg); db != nil {
				defer db.Close()
				exporters["sqlite"] = db
				deps.History = db
			}

			pub := newPublisher(cfg)
			defer pub.Close()
			deps.Publisher = pub

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			deps.Metrics = metrics.New(reg)
			ms := metrics.NewServer(cfg.Metrics.Addr, reg)
			ms.Start()

			var tn *notifier.TelegramNotifier
			if cfg.TelegramEnabled() {
				tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
				deps.Notifier = tn
			} else {
				log.Println("[WARN] telegram not configured, notifications are logged only")
			}

			// Context for graceful shutdown
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sched := scheduler.NewScheduler(ctx, deps)
			if err := sched.RegisterAll(cfg.Schedule.AnalysisCron); err != nil {
				return err
			}
			sched.Start()

			if tn != nil {
				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Println("[INFO] Telegram polling started")
			}

			if runOnStart || os.Getenv("RUN_ON_START") == "true" {
				log.Println("[INFO] running analysis on start")
				go sched.RunNow()
			}

			log.Printf("[INFO] watching %d symbols. Press Ctrl+C to stop.", len(symbols))

			// Wait for shutdown signal
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh

			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
			sched.Stop()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := ms.Stop(shutdownCtx); err != nil {
				log.Printf("[WARN] metrics server shutdown: %v", err)
			}
			log.Println("[INFO] stockanalyzer stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&runOnStart, "run-now", false, "Analyze the watchlist once at start-up")
	return cmd
}
