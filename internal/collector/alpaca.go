package collector

import (
	"context"
	"fmt"
	"time"

	"StockAnalyzer/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// AlpacaFetcher implements Fetcher using the Alpaca market data API.
type AlpacaFetcher struct {
	client *marketdata.Client
	now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher authenticated with an Alpaca key pair.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		now: time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// FetchSeries requests the bars between now-period and now.
func (f *AlpacaFetcher) FetchSeries(ctx context.Context, symbol string, period model.Period, interval string) (*model.RawSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tf, err := alpacaTimeFrame(interval)
	if err != nil {
		return nil, err
	}
	days := period.Days()
	if days == 0 {
		return nil, fmt.Errorf("alpaca: unsupported period %q", period)
	}

	end := f.now()
	bars, err := f.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: tf,
		Start:     end.AddDate(0, 0, -days),
		End:       end,
	})
	if err != nil {
		return nil, fmt.Errorf("alpaca get bars: %w", err)
	}

	out := make([]model.OHLCV, len(bars))
	for i, b := range bars {
		out[i] = model.OHLCV{
			Time:   b.Timestamp,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: float64(b.Volume),
		}
	}
	return rawFromBars(symbol, period, interval, out), nil
}

// alpacaTimeFrame maps chart interval labels onto Alpaca time frames.
func alpacaTimeFrame(interval string) (marketdata.TimeFrame, error) {
	switch interval {
	case "1h":
		return marketdata.OneHour, nil
	case "1d", "":
		return marketdata.OneDay, nil
	case "1wk":
		return marketdata.NewTimeFrame(1, marketdata.Week), nil
	case "1mo":
		return marketdata.NewTimeFrame(1, marketdata.Month), nil
	default:
		return marketdata.TimeFrame{}, fmt.Errorf("alpaca: unsupported interval %q", interval)
	}
}
