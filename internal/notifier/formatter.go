package notifier

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"StockAnalyzer/internal/calculator"
	"StockAnalyzer/internal/exporter"
	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/strategy"
	"StockAnalyzer/internal/watchlist"
)

// LED returns the status light of a tone.
func LED(tone model.Tone) string {
	switch tone {
	case model.TonePositive:
		return "🟢"
	case model.ToneNegative:
		return "🔴"
	default:
		return "🟠"
	}
}

const ledOff = "⚪"

// FormatStatusPanel renders the four signal lights of an analysis.
func FormatStatusPanel(bundle *model.ResultBundle) string {
	var b strings.Builder

	last := bundle.Last()
	b.WriteString(fmt.Sprintf("📊 <b>%s</b> | %s · %s | %s\n\n",
		html.EscapeString(bundle.Symbol), bundle.Config.Period, bundle.Config.Interval, last.Time.Format("2006-01-02")))

	b.WriteString(fmt.Sprintf("Close: %.2f\n", last.Close))
	if high, low, err := calculator.PriceRange(bundle.Bars); err == nil {
		if pos, err := calculator.RangePosition(last.Close, high, low); err == nil {
			b.WriteString(fmt.Sprintf("Range: %.2f – %.2f (at %.0f%%)\n", low, high, pos*100))
		}
	}
	b.WriteString("\n")

	for _, f := range model.Families {
		st, ok := bundle.Signals.Get(f)
		if !ok {
			b.WriteString(fmt.Sprintf("%s %s: off\n", ledOff, f.Label()))
			continue
		}
		b.WriteString(fmt.Sprintf("%s %s: <b>%s</b>%s\n", LED(st.Tone()), f.Label(), st, detail(bundle, f)))
	}
	return b.String()
}

// detail shows the values a family was classified from.
func detail(bundle *model.ResultBundle, f model.Family) string {
	latest := func(name model.IndicatorName) (float64, bool) {
		s := bundle.Indicators.Get(name)
		if s == nil {
			return 0, false
		}
		_, v, ok := s.Latest()
		return v, ok
	}

	switch f {
	case model.FamilyTrend:
		fast, ok1 := latest(model.SMA20)
		slow, ok2 := latest(model.SMA50)
		if ok1 && ok2 {
			return fmt.Sprintf(" (SMA20 %.2f / SMA50 %.2f)", fast, slow)
		}
	case model.FamilyMomentum:
		macd, ok1 := latest(model.MACD)
		sig, ok2 := latest(model.Signal)
		if ok1 && ok2 {
			return fmt.Sprintf(" (MACD %.3f / Signal %.3f)", macd, sig)
		}
	case model.FamilyOscillator:
		if rsi, ok := latest(model.RSI); ok {
			return fmt.Sprintf(" (RSI %.1f)", rsi)
		}
	case model.FamilyVolatility:
		upper, ok1 := latest(model.BBUpper)
		lower, ok2 := latest(model.BBLower)
		if ok1 && ok2 {
			return fmt.Sprintf(" (width %.2f vs %.2f)", upper-lower, strategy.SqueezeRatio*bundle.CloseStdDev)
		}
	}
	return ""
}

// FormatChange renders the families that moved since the previous analysis.
func FormatChange(ch *watchlist.Change, bundle *model.ResultBundle) string {
	var b strings.Builder
	if ch.Cross != strategy.CrossNone {
		b.WriteString(FormatCrossAlert(ch.Symbol, ch.Cross, bundle))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("🔔 <b>%s</b> signal changes:\n", html.EscapeString(ch.Symbol)))
	for _, fc := range ch.Families {
		b.WriteString(fmt.Sprintf("  %s %s: %s → %s\n", LED(fc.To.Tone()), fc.Family.Label(), fc.From, fc.To))
	}
	return b.String()
}

// FormatCrossAlert announces a golden or death cross of the moving averages.
func FormatCrossAlert(symbol string, cross strategy.Cross, bundle *model.ResultBundle) string {
	icon := "⚠️"
	if cross == strategy.CrossGolden {
		icon = "✨"
	}
	msg := fmt.Sprintf("%s <b>%s</b>: %s", icon, html.EscapeString(symbol), cross.Label())
	if bundle != nil && len(bundle.Bars) > 0 {
		msg += fmt.Sprintf(" @ %.2f (%s)", bundle.Last().Close, bundle.AsOf().Format("2006-01-02"))
	}
	return msg + "\n"
}

// FormatError explains why an analysis of symbol failed.
func FormatError(symbol string, err error) string {
	var se *model.SeriesError
	reason := err.Error()
	if errors.As(err, &se) {
		switch se.Kind {
		case model.KindEmptySeries:
			reason = "no data found, the symbol may be delisted or misspelled"
		case model.KindMissingFields:
			reason = "data source omitted " + strings.Join(se.Fields, ", ")
		case model.KindInsufficientHistory:
			reason = fmt.Sprintf("not enough history: need %d rows, have %d; try a longer period", se.Required, se.Available)
		}
	}
	return fmt.Sprintf("❌ <b>%s</b>: %s", html.EscapeString(symbol), html.EscapeString(reason))
}

// FormatWatchlist lists the last known states of every watched symbol.
func FormatWatchlist(entries []model.WatchEntry) string {
	var b strings.Builder
	b.WriteString("👀 <b>Watchlist</b>\n\n")
	if len(entries) == 0 {
		b.WriteString("(empty)\n")
		return b.String()
	}
	for _, e := range entries {
		if e.Signals == nil {
			b.WriteString(fmt.Sprintf("<b>%s</b>: not analyzed yet\n", html.EscapeString(e.Symbol)))
			continue
		}
		var lights []string
		for _, f := range model.Families {
			if st, ok := e.Signals.Get(f); ok {
				lights = append(lights, LED(st.Tone())+" "+string(st))
			}
		}
		b.WriteString(fmt.Sprintf("<b>%s</b> %.2f (%s): %s\n",
			html.EscapeString(e.Symbol), e.LastClose, e.AsOf.Format("2006-01-02"), strings.Join(lights, " ")))
	}
	return b.String()
}

// FormatHistory lists previous analysis runs of a symbol.
func FormatHistory(symbol string, runs []exporter.RunSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>%s</b> history\n\n", html.EscapeString(symbol)))
	if len(runs) == 0 {
		b.WriteString("no runs recorded\n")
		return b.String()
	}
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s %s/%s trend=%s momentum=%s\n",
			r.CreatedAt.In(time.Local).Format("2006-01-02 15:04"), r.Period, r.Interval,
			orDash(r.Signals[model.FamilyTrend]), orDash(r.Signals[model.FamilyMomentum])))
	}
	return b.String()
}

func orDash(s model.State) string {
	if s == "" {
		return "-"
	}
	return string(s)
}
