package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"StockAnalyzer/internal/model"
	"StockAnalyzer/internal/strategy"
	"StockAnalyzer/internal/watchlist"
)

func panelBundle() *model.ResultBundle {
	day := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	set := model.NewIndicatorSet()
	set.Add(model.NewIndicatorSeries(model.SMA20, []float64{101, 102}))
	set.Add(model.NewIndicatorSeries(model.SMA50, []float64{100, 100.5}))
	set.Add(model.NewIndicatorSeries(model.MACD, []float64{0.2, 0.1}))
	set.Add(model.NewIndicatorSeries(model.Signal, []float64{0.1, 0.15}))
	return &model.ResultBundle{
		Symbol: "AAPL",
		Config: model.AnalysisConfig{EnableRSI: false, Period: model.Period6mo, Interval: "1d"},
		Bars: []model.OHLCV{
			{Time: day.AddDate(0, 0, -1), High: 110, Low: 90, Close: 100},
			{Time: day, High: 105, Low: 95, Close: 105},
		},
		Indicators: set,
		Signals: model.SignalSet{
			model.FamilyTrend:    model.StateBuy,
			model.FamilyMomentum: model.StateBearish,
		},
	}
}

func TestFormatStatusPanel(t *testing.T) {
	msg := FormatStatusPanel(panelBundle())
	for _, want := range []string{
		"<b>AAPL</b>",
		"2024-06-28",
		"🟢 SMA Crossover: <b>BUY</b> (SMA20 102.00 / SMA50 100.50)",
		"🔴 MACD Signal: <b>BEARISH</b>",
		"⚪ RSI OB/OS: off",
		"⚪ BB Squeeze: off",
		"(at 75%)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("panel missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatError(t *testing.T) {
	err := fmt.Errorf("analyze X: %w", &model.SeriesError{Kind: model.KindInsufficientHistory, Required: 50, Available: 21})
	msg := FormatError("X", err)
	if !strings.Contains(msg, "need 50 rows, have 21") {
		t.Errorf("unexpected message %q", msg)
	}
	msg = FormatError("<b>", fmt.Errorf("boom"))
	if strings.Contains(msg, "<b><b>") || !strings.Contains(msg, "&lt;b&gt;") {
		t.Errorf("symbol should be escaped: %q", msg)
	}
}

func TestFormatChange_WithCross(t *testing.T) {
	ch := &watchlist.Change{
		Symbol: "AAPL",
		Families: []watchlist.FamilyChange{
			{Family: model.FamilyTrend, From: model.StateSell, To: model.StateBuy},
		},
		Cross: strategy.CrossGolden,
	}
	msg := FormatChange(ch, panelBundle())
	if !strings.Contains(msg, "Golden Cross @ 105.00") {
		t.Errorf("missing cross alert:\n%s", msg)
	}
	if !strings.Contains(msg, "SMA Crossover: SELL → BUY") {
		t.Errorf("missing family change:\n%s", msg)
	}
}

func TestFormatWatchlist(t *testing.T) {
	msg := FormatWatchlist([]model.WatchEntry{
		{Symbol: "AAPL", Signals: model.SignalSet{model.FamilyTrend: model.StateSell}, LastClose: 1.5},
		{Symbol: "MSFT"},
	})
	if !strings.Contains(msg, "🔴 SELL") || !strings.Contains(msg, "MSFT</b>: not analyzed yet") {
		t.Errorf("unexpected watchlist:\n%s", msg)
	}
}

func TestSend(t *testing.T) {
	var got map[string]string
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	if err := n.Send("hello"); err != nil {
		t.Fatal(err)
	}
	if path != "/botTOKEN/sendMessage" {
		t.Errorf("unexpected path %s", path)
	}
	if got["chat_id"] != "42" || got["text"] != "hello" || got["parse_mode"] != "HTML" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestSendWithRetry_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := n.SendWithRetry(ctx, "hello", 3); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPoll_DispatchesCommands(t *testing.T) {
	var mu sync.Mutex
	var replies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			fmt.Fprint(w, `{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /watchlist ","chat":{"id":42}}},
				{"update_id":8,"message":{"text":"/analyze AAPL","chat":{"id":99}}},
				{"update_id":9}
			]}`)
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			mu.Lock()
			replies = append(replies, p["text"])
			mu.Unlock()
			fmt.Fprint(w, `{"ok":true}`)
		}
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	var commands []string
	next, err := n.poll(context.Background(), srv.Client(), 0, 0, func(_ context.Context, cmd string) string {
		commands = append(commands, cmd)
		return "ack " + cmd
	})
	if err != nil {
		t.Fatal(err)
	}
	if next != 10 {
		t.Errorf("next offset = %d, want 10", next)
	}
	if len(commands) != 1 || commands[0] != "/watchlist" {
		t.Errorf("unexpected commands %v (other chats must be ignored)", commands)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(replies) != 1 || replies[0] != "ack /watchlist" {
		t.Errorf("unexpected replies %v", replies)
	}
}

func TestSend_SplitsLongWatchlist(t *testing.T) {
	entries := make([]model.WatchEntry, 80)
	for i := range entries {
		entries[i] = model.WatchEntry{
			Symbol: fmt.Sprintf("SYM%02d", i),
			Signals: model.SignalSet{
				model.FamilyTrend:      model.StateBuy,
				model.FamilyMomentum:   model.StateBearish,
				model.FamilyOscillator: model.StateOverbought,
				model.FamilyVolatility: model.StateExpanding,
			},
			LastClose: 123.45,
			AsOf:      time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		}
	}
	text := FormatWatchlist(entries)
	if utf8.RuneCountInString(text) <= MaxMessageRunes {
		t.Fatalf("watchlist too short to need splitting: %d runes", utf8.RuneCountInString(text))
	}

	var mu sync.Mutex
	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p map[string]string
		json.NewDecoder(r.Body).Decode(&p)
		mu.Lock()
		sent = append(sent, p["text"])
		mu.Unlock()
		fmt.Fprint(w, `{"ok":true}`)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	if err := n.SendWithRetry(context.Background(), text, 3); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(sent) < 2 {
		t.Fatalf("expected several messages, got %d", len(sent))
	}
	joined := strings.Join(sent, "\n")
	for i, msg := range sent {
		if c := utf8.RuneCountInString(msg); c > MaxMessageRunes {
			t.Errorf("message %d has %d runes", i, c)
		}
	}
	for _, e := range entries {
		if !strings.Contains(joined, "<b>"+e.Symbol+"</b>") {
			t.Errorf("%s missing from sent messages", e.Symbol)
		}
	}
}

func TestSplitMessage(t *testing.T) {
	if got := SplitMessage("short", 10); len(got) != 1 || got[0] != "short" {
		t.Errorf("short text changed: %q", got)
	}

	got := SplitMessage("aaaa\nbbbb\ncccc\n", 10)
	want := []string{"aaaa\nbbbb", "cccc"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("line split = %q, want %q", got, want)
	}

	got = SplitMessage("ééééééééééééé", 5)
	if len(got) != 3 || got[0] != "ééééé" || got[2] != "ééé" {
		t.Errorf("long line split = %q", got)
	}
}

func TestSendWithRetry_RejectedNotRetried(t *testing.T) {
	var mu sync.Mutex
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits++
		mu.Unlock()
		http.Error(w, `{"ok":false,"description":"Bad Request: message is too long"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("TOKEN", "42", "")
	n.APIBase = srv.URL
	err := n.SendWithRetry(context.Background(), "hello", 3)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 APIError, got %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if hits != 1 {
		t.Errorf("rejected request sent %d times", hits)
	}
}
