package calculator

import (
	"math"
	"testing"
	"time"

	"StockAnalyzer/internal/model"

	talib "github.com/markcheno/go-talib"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.6f, want %.6f (tol=%.6f, diff=%.6f)", label, got, want, tol, math.Abs(got-want))
	}
}

func barsFromCloses(closes []float64) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

// wave is a deterministic, non-monotonic price path.
func wave(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + 10*math.Sin(float64(i)/4) + float64(i%7)
	}
	return out
}

func TestSMA_Correctness_Period3(t *testing.T) {
	// (100+102+104)/3 = 102, (102+104+103)/3 = 103, (104+103+105)/3 = 104
	got := SMA([]float64{100, 102, 104, 103, 105}, 3)
	want := []float64{math.NaN(), math.NaN(), 102, 103, 104}
	for i := range want {
		if math.IsNaN(want[i]) {
			if !math.IsNaN(got[i]) {
				t.Errorf("position %d: expected undefined, got %v", i, got[i])
			}
			continue
		}
		assertClose(t, "SMA(3)", got[i], want[i], 1e-12)
	}
}

func TestSMA_MatchesTalib(t *testing.T) {
	closes := wave(120)
	for _, period := range []int{SMAFastPeriod, SMASlowPeriod} {
		got := SMA(closes, period)
		ref := talib.Sma(closes, period)
		for i := period - 1; i < len(closes); i++ {
			assertClose(t, "SMA vs talib", got[i], ref[i], 1e-9)
		}
	}
}

func TestSMA_ArithmeticMeanProperty(t *testing.T) {
	closes := wave(80)
	n := 20
	sma := SMA(closes, n)
	for i := 0; i < len(closes); i++ {
		if i < n-1 {
			if !math.IsNaN(sma[i]) {
				t.Fatalf("position %d: expected undefined", i)
			}
			continue
		}
		sum := 0.0
		for j := i - n + 1; j <= i; j++ {
			sum += closes[j]
		}
		assertClose(t, "SMA mean", sma[i], sum/float64(n), 1e-9)
	}
}

func TestSMA_InvalidPeriod(t *testing.T) {
	for _, v := range SMA([]float64{1, 2, 3}, 0) {
		if !math.IsNaN(v) {
			t.Fatalf("expected all undefined for period 0, got %v", v)
		}
	}
}

func TestEMA_SeededByFirstValue(t *testing.T) {
	// EMA(3): alpha = 0.5
	// 100 -> 100, 102 -> 101, 104 -> 102.5, 103 -> 102.75
	got := EMA([]float64{100, 102, 104, 103}, 3)
	want := []float64{100, 101, 102.5, 102.75}
	for i := range want {
		assertClose(t, "EMA(3)", got[i], want[i], 1e-12)
	}
}

func TestEMA_RecurrenceHoldsExactly(t *testing.T) {
	closes := wave(100)
	for _, n := range []int{EMAFastPeriod, EMASlowPeriod, SignalPeriod} {
		ema := EMA(closes, n)
		alpha := 2.0 / float64(n+1)
		if ema[0] != closes[0] {
			t.Fatalf("EMA(%d)[0] = %v, want %v", n, ema[0], closes[0])
		}
		for i := 1; i < len(closes); i++ {
			want := alpha*closes[i] + (1-alpha)*ema[i-1]
			assertClose(t, "EMA recurrence", ema[i], want, 1e-12)
		}
	}
}

func TestEMA_SkipsLeadingUndefined(t *testing.T) {
	got := EMA([]float64{math.NaN(), math.NaN(), 10, 20}, 3)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("expected leading positions undefined, got %v", got)
	}
	assertClose(t, "seed", got[2], 10, 0)
	assertClose(t, "next", got[3], 15, 1e-12)
}

func TestRSI_KnownValue(t *testing.T) {
	// deltas: +1, -1, +2 -> avgUp = 1, avgDown = 1/3, RS = 3, RSI = 75
	got := RSI([]float64{10, 11, 10, 12}, 3)
	for i := 0; i < 3; i++ {
		if !math.IsNaN(got[i]) {
			t.Errorf("position %d: expected undefined, got %v", i, got[i])
		}
	}
	assertClose(t, "RSI(3)", got[3], 75, 1e-9)
}

func TestRSI_NoLossesIsExactly100(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	rsi := RSI(closes, RSIPeriod)
	for i := RSIPeriod; i < len(closes); i++ {
		if rsi[i] != 100 {
			t.Fatalf("RSI[%d] = %v, want exactly 100", i, rsi[i])
		}
	}
}

func TestRSI_FlatSeriesIs100(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50
	}
	rsi := RSI(closes, RSIPeriod)
	if rsi[19] != 100 {
		t.Fatalf("flat series RSI = %v, want 100", rsi[19])
	}
}

func TestRSI_AlwaysWithinBounds(t *testing.T) {
	rsi := RSI(wave(200), RSIPeriod)
	for i := RSIPeriod; i < len(rsi); i++ {
		if math.IsNaN(rsi[i]) || rsi[i] < 0 || rsi[i] > 100 {
			t.Fatalf("RSI[%d] = %v out of [0,100]", i, rsi[i])
		}
	}
}

func TestRSI_AllLossesIsZero(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 100 - float64(i)
	}
	rsi := RSI(closes, RSIPeriod)
	assertClose(t, "falling RSI", rsi[19], 0, 1e-12)
}

func TestBollinger_WidthNonNegative(t *testing.T) {
	closes := wave(100)
	b := Bollinger(closes, BollingerPeriod, BollingerK)
	for i := BollingerPeriod - 1; i < len(closes); i++ {
		if b.Upper[i]-b.Lower[i] < 0 {
			t.Fatalf("position %d: negative band width", i)
		}
		assertClose(t, "mid equals SMA20", b.Mid[i], SMA(closes, BollingerPeriod)[i], 0)
	}
}

func TestBollinger_SampleStdDev(t *testing.T) {
	// window 2, 4, 4, 4, 5, 5, 7, 9: mean 5, sample variance 32/7
	closes := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	b := Bollinger(closes, 8, 2)
	std := math.Sqrt(32.0 / 7.0)
	assertClose(t, "upper", b.Upper[7], 5+2*std, 1e-9)
	assertClose(t, "lower", b.Lower[7], 5-2*std, 1e-9)
	if !math.IsNaN(b.Upper[6]) {
		t.Errorf("expected undefined before window is full")
	}
}

func TestBollinger_ConstantSeriesCollapses(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 42
	}
	b := Bollinger(closes, BollingerPeriod, BollingerK)
	if b.Upper[29] != 42 || b.Lower[29] != 42 {
		t.Fatalf("expected bands to collapse onto 42, got %v/%v", b.Upper[29], b.Lower[29])
	}
}

func TestPopulationStdDev(t *testing.T) {
	std, err := PopulationStdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, "population std", std, 2, 1e-12)

	if _, err := PopulationStdDev(nil); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestPriceRange(t *testing.T) {
	high, low, err := PriceRange(barsFromCloses([]float64{10, 30, 20}))
	if err != nil {
		t.Fatal(err)
	}
	if high != 31 || low != 9 {
		t.Errorf("expected 31/9, got %v/%v", high, low)
	}
	if _, _, err := PriceRange(nil); err == nil {
		t.Error("expected error for no bars")
	}
}

func TestRangePosition(t *testing.T) {
	tests := []struct {
		price, high, low, want float64
	}{
		{15, 20, 10, 0.5},
		{25, 20, 10, 1},
		{5, 20, 10, 0},
		{10, 10, 10, 0.5},
	}
	for _, tt := range tests {
		got, err := RangePosition(tt.price, tt.high, tt.low)
		if err != nil {
			t.Fatal(err)
		}
		assertClose(t, "position", got, tt.want, 1e-12)
	}
	if _, err := RangePosition(1, 1, 2); err == nil {
		t.Error("expected error when high < low")
	}
}

func TestCompute_IsDeterministic(t *testing.T) {
	bars := barsFromCloses(wave(90))
	cfg := model.AnalysisConfig{EnableRSI: true, EnableBollinger: true}
	a := Compute(bars, cfg)
	b := Compute(bars, cfg)

	for _, name := range a.Names() {
		av, bv := a.Get(name).Values(), b.Get(name).Values()
		if len(av) != len(bv) {
			t.Fatalf("%s: length mismatch", name)
		}
		for i := range av {
			if math.Float64bits(av[i]) != math.Float64bits(bv[i]) {
				t.Fatalf("%s[%d]: %v != %v", name, i, av[i], bv[i])
			}
		}
	}
}

func TestCompute_OptionalFamilies(t *testing.T) {
	bars := barsFromCloses(wave(60))

	base := Compute(bars, model.AnalysisConfig{})
	for _, name := range []model.IndicatorName{model.RSI, model.BBUpper, model.BBMid, model.BBLower} {
		if base.Has(name) {
			t.Errorf("%s should be absent when disabled", name)
		}
	}
	for _, name := range model.BaselineIndicators {
		if !base.Has(name) {
			t.Errorf("%s should always be present", name)
		}
	}

	full := Compute(bars, model.AnalysisConfig{EnableRSI: true, EnableBollinger: true})
	if full.Len() != base.Len()+4 {
		t.Errorf("expected 4 optional series, got %d extra", full.Len()-base.Len())
	}
}

func TestCompute_HistogramIsMACDMinusSignal(t *testing.T) {
	set := Compute(barsFromCloses(wave(70)), model.AnalysisConfig{})
	macd, signal, hist := set.Get(model.MACD), set.Get(model.Signal), set.Get(model.MACDHist)
	for i := 0; i < hist.Len(); i++ {
		m, _ := macd.At(i)
		s, _ := signal.At(i)
		h, ok := hist.At(i)
		if !ok {
			t.Fatalf("histogram undefined at %d", i)
		}
		if h != m-s {
			t.Fatalf("hist[%d] = %v, want %v", i, h, m-s)
		}
	}
}

func TestCompute_ShortHistoryNeverFails(t *testing.T) {
	set := Compute(barsFromCloses([]float64{1, 2, 3}), model.AnalysisConfig{EnableRSI: true, EnableBollinger: true})
	if set.Get(model.SMA50).FirstDefined() != -1 {
		t.Error("SMA50 should be entirely undefined for 3 bars")
	}
	if !set.Get(model.MACD).Defined(0) {
		t.Error("MACD is defined from the first bar")
	}
}

func TestLongestWindow(t *testing.T) {
	for _, cfg := range []model.AnalysisConfig{
		{},
		{EnableRSI: true},
		{EnableRSI: true, EnableBollinger: true},
	} {
		if w := LongestWindow(cfg); w != SMASlowPeriod {
			t.Errorf("%+v: expected %d, got %d", cfg, SMASlowPeriod, w)
		}
	}
	if RSIPeriod+1 > SMASlowPeriod || BollingerPeriod > SMASlowPeriod {
		t.Error("an optional window is longer than the slow SMA")
	}
}
