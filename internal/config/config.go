package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"StockAnalyzer/internal/model"

	"gopkg.in/yaml.v3"
)

// Supported data providers.
const (
	ProviderYahoo  = "yahoo"
	ProviderREST   = "rest"
	ProviderAlpaca = "alpaca"
	ProviderMock   = "mock"
)

// Config holds all application configuration.
type Config struct {
	Analysis struct {
		Symbols         []string `yaml:"symbols"`
		Period          string   `yaml:"period"`
		Interval        string   `yaml:"interval"`
		EnableRSI       *bool    `yaml:"enable_rsi"`
		EnableBollinger *bool    `yaml:"enable_bollinger"`
	} `yaml:"analysis"`
	DataSource struct {
		Provider  string `yaml:"provider"`
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
	} `yaml:"data_source"`
	Export struct {
		Dir    string `yaml:"dir"`
		Format string `yaml:"format"`
	} `yaml:"export"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Watchlist struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"watchlist"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Schedule struct {
		AnalysisCron string `yaml:"analysis_cron"`
	} `yaml:"schedule"`
	Redis struct {
		Addr          string `yaml:"addr"`
		Password      string `yaml:"password"`
		DB            int    `yaml:"db"`
		ChannelPrefix string `yaml:"channel_prefix"`
	} `yaml:"redis"`
	Metrics struct {
		Addr string `yaml:"addr"`
	} `yaml:"metrics"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("REST_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("REST_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" && cfg.DataSource.Provider == ProviderAlpaca {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.DataSource.APISecret = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("CRON_ANALYSIS"); v != "" {
		cfg.Schedule.AnalysisCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Analysis.Symbols = splitList(v)
	}

	// Defaults
	if len(cfg.Analysis.Symbols) == 0 {
		cfg.Analysis.Symbols = []string{"AAPL"}
	}
	if cfg.Analysis.Period == "" {
		cfg.Analysis.Period = string(model.Period6mo)
	}
	if cfg.Analysis.Interval == "" {
		cfg.Analysis.Interval = "1d"
	}
	if cfg.Analysis.EnableRSI == nil {
		cfg.Analysis.EnableRSI = boolPtr(true)
	}
	if cfg.Analysis.EnableBollinger == nil {
		cfg.Analysis.EnableBollinger = boolPtr(true)
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = ProviderYahoo
	}
	if cfg.Export.Dir == "" {
		cfg.Export.Dir = "data/exports"
	}
	if cfg.Export.Format == "" {
		cfg.Export.Format = "csv"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockanalyzer.db"
	}
	if cfg.Watchlist.StateFile == "" {
		cfg.Watchlist.StateFile = "data/watchlist.json"
	}
	if cfg.Schedule.AnalysisCron == "" {
		cfg.Schedule.AnalysisCron = "0 30 16 * * 1-5"
	}
	if cfg.Redis.ChannelPrefix == "" {
		cfg.Redis.ChannelPrefix = "stockanalyzer"
	}
	if cfg.Metrics.Addr == "" {
		cfg.Metrics.Addr = ":9090"
	}

	return cfg, nil
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if _, err := model.ParsePeriod(c.Analysis.Period); err != nil {
		return fmt.Errorf("analysis.period: %w", err)
	}
	if len(c.Analysis.Symbols) == 0 {
		return fmt.Errorf("analysis.symbols must not be empty")
	}
	switch c.DataSource.Provider {
	case ProviderYahoo, ProviderMock:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	case ProviderAlpaca:
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return fmt.Errorf("data_source.api_key and api_secret are required for the alpaca provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	switch c.Export.Format {
	case "csv", "xlsx":
	default:
		return fmt.Errorf("export.format must be csv or xlsx, got %q", c.Export.Format)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether notifications can be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// AnalysisConfig builds the engine configuration. Call Validate first.
func (c *Config) AnalysisConfig() model.AnalysisConfig {
	period, err := model.ParsePeriod(c.Analysis.Period)
	if err != nil {
		period = model.Period6mo
	}
	return model.AnalysisConfig{
		EnableRSI:       c.Analysis.EnableRSI == nil || *c.Analysis.EnableRSI,
		EnableBollinger: c.Analysis.EnableBollinger == nil || *c.Analysis.EnableBollinger,
		Period:          period,
		Interval:        c.Analysis.Interval,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
