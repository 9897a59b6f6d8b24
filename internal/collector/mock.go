package collector

import (
	"context"
	"math"
	"time"

	"StockAnalyzer/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Bars  []model.OHLCV // returned as-is when set
	Err   error
	End   time.Time // last bar date; defaults to today
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchSeries(_ context.Context, symbol string, period model.Period, interval string) (*model.RawSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Bars != nil {
		return rawFromBars(symbol, period, interval, m.Bars), nil
	}
	// roughly five trading sessions per seven days
	count := period.Days() * 5 / 7
	end := m.End
	if end.IsZero() {
		end = time.Now().Truncate(24 * time.Hour)
	}
	return rawFromBars(symbol, period, interval, generateMockBars(m.Price, count, end)), nil
}

func generateMockBars(basePrice float64, count int, end time.Time) []model.OHLCV {
	if basePrice <= 0 {
		basePrice = 100
	}
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001 + 0.02*math.Sin(float64(i)/5))
		bars[i] = model.OHLCV{
			Time:   end.AddDate(0, 0, -(count - 1 - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
