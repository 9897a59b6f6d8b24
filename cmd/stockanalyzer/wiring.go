package main

import (
	"fmt"
	"log"

	"StockAnalyzer/internal/collector"
	"StockAnalyzer/internal/config"
	"StockAnalyzer/internal/exporter"
	"StockAnalyzer/internal/publisher"
)

func newFetcher(cfg *config.Config) (collector.Fetcher, error) {
	var f collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderYahoo:
		f = collector.NewYahooFetcher(cfg.Proxy)
	case config.ProviderREST:
		f = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderAlpaca:
		f = collector.NewAlpacaFetcher(cfg.DataSource.APIKey, cfg.DataSource.APISecret)
	case config.ProviderMock:
		f = &collector.MockFetcher{Price: 100}
	default:
		return nil, fmt.Errorf("unknown data provider %q", cfg.DataSource.Provider)
	}
	log.Printf("[INFO] data source: %s", f.Name())
	return f, nil
}

// newSQLite opens the run database, falling back to none when it cannot be opened.
func newSQLite(cfg *config.Config) *exporter.SQLiteExporter {
	if cfg.Database.SQLitePath == "" {
		return nil
	}
	db, err := exporter.NewSQLiteExporter(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite exporter failed, runs will not be recorded: %v", err)
		return nil
	}
	return db
}

func newPublisher(cfg *config.Config) publisher.Publisher {
	if cfg.Redis.Addr == "" {
		return publisher.NoopPublisher{}
	}
	p, err := publisher.New(publisher.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.ChannelPrefix,
	})
	if err != nil {
		log.Printf("[WARN] init redis publisher failed, using noop: %v", err)
		return publisher.NoopPublisher{}
	}
	return p
}
