// Package publisher hands analysis results to a presentation layer over Redis.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"StockAnalyzer/internal/model"

	goredis "github.com/go-redis/redis/v8"
)

// latestTTL bounds how long the last result of a symbol stays readable.
const latestTTL = 24 * time.Hour

// Publisher delivers a result bundle to subscribers.
type Publisher interface {
	Publish(ctx context.Context, bundle *model.ResultBundle) error
	Close() error
}

// Config configures the Redis publisher.
type Config struct {
	Addr     string // Redis address, e.g. "localhost:6379"
	Password string
	DB       int
	Prefix   string // channel and key prefix
}

// RedisPublisher publishes every bundle on <prefix>:<SYMBOL> and keeps the
// latest one under <prefix>:latest:<SYMBOL>.
type RedisPublisher struct {
	client *goredis.Client
	prefix string
}

// New creates a RedisPublisher and pings the server.
func New(cfg Config) (*RedisPublisher, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Printf("[INFO] redis publisher connected to %s", cfg.Addr)
	return NewWithClient(client, cfg.Prefix), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *goredis.Client, prefix string) *RedisPublisher {
	if prefix == "" {
		prefix = "stockanalyzer"
	}
	return &RedisPublisher{client: client, prefix: prefix}
}

// Channel returns the pub/sub channel of symbol.
func (p *RedisPublisher) Channel(symbol string) string {
	return p.prefix + ":" + symbol
}

// LatestKey returns the key holding the last bundle of symbol.
func (p *RedisPublisher) LatestKey(symbol string) string {
	return p.prefix + ":latest:" + symbol
}

func (p *RedisPublisher) Publish(ctx context.Context, bundle *model.ResultBundle) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	pipe := p.client.Pipeline()
	pipe.Set(ctx, p.LatestKey(bundle.Symbol), data, latestTTL)
	pipe.Publish(ctx, p.Channel(bundle.Symbol), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis publish %s: %w", bundle.Symbol, err)
	}
	return nil
}

func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

// NoopPublisher is used when Redis is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(_ context.Context, _ *model.ResultBundle) error { return nil }
func (NoopPublisher) Close() error                                          { return nil }
