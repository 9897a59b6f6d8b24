package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/netclient"
)

// RESTFetcher implements Fetcher against a generic JSON bars endpoint.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  netclient.New(proxyURL, netclient.DefaultTimeout),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars endpoint.
type restBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

// FetchSeries requests daily or weekly bars covering period. When the endpoint
// has no weekly bars, daily bars are fetched and aggregated.
func (f *RESTFetcher) FetchSeries(ctx context.Context, symbol string, period model.Period, interval string) (*model.RawSeries, error) {
	days := period.Days()
	if days == 0 {
		return nil, fmt.Errorf("rest: unsupported period %q", period)
	}

	switch interval {
	case "1d", "":
		bars, err := f.fetchBars(ctx, "daily", symbol, days)
		if err != nil {
			return nil, err
		}
		return rawFromBars(symbol, period, interval, bars), nil
	case "1wk":
		bars, err := f.fetchBars(ctx, "weekly", symbol, days/7+1)
		if err != nil {
			daily, dailyErr := f.fetchBars(ctx, "daily", symbol, days)
			if dailyErr != nil {
				return nil, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr)
			}
			bars = aggregateDailyToWeekly(daily)
		}
		return rawFromBars(symbol, period, interval, bars), nil
	default:
		return nil, fmt.Errorf("rest: unsupported interval %q", interval)
	}
}

func (f *RESTFetcher) fetchBars(ctx context.Context, kind, symbol string, limit int) ([]model.OHLCV, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/%s?symbol=%s&limit=%d", f.BaseURL, kind, url.QueryEscape(symbol), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var restBars []restBar
	if err := json.NewDecoder(resp.Body).Decode(&restBars); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.OHLCV, len(restBars))
	for i, rb := range restBars {
		bars[i] = model.OHLCV{
			Time:   time.Unix(rb.Timestamp, 0).UTC(),
			Open:   rb.Open,
			High:   rb.High,
			Low:    rb.Low,
			Close:  rb.Close,
			Volume: rb.Volume,
		}
	}
	return bars, nil
}

// aggregateDailyToWeekly converts chronologically ordered daily bars into ISO-week bars.
func aggregateDailyToWeekly(daily []model.OHLCV) []model.OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var weekly []model.OHLCV
	week := daily[0]
	wy, ww := week.Time.ISOWeek()

	for _, d := range daily[1:] {
		y, w := d.Time.ISOWeek()
		if y != wy || w != ww {
			weekly = append(weekly, week)
			week = d
			wy, ww = y, w
			continue
		}
		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
	}
	return append(weekly, week)
}
