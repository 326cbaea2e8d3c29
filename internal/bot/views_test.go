package bot

import (
	"strings"
	"testing"

	"kursbot/internal/alert"
	"kursbot/internal/market"
	"kursbot/internal/p2p"
	"kursbot/internal/prefs"
)

func ptr(v float64) *float64 { return &v }

func TestRatesView(t *testing.T) {
	rows := map[string]market.MarketRow{
		"bitcoin":  {ID: "bitcoin", CurrentPrice: ptr(65000), Change24h: ptr(1.5)},
		"ethereum": {ID: "ethereum", CurrentPrice: ptr(3200), Change24h: ptr(-0.8)},
	}
	fx := map[string]float64{"USD": 41.5, "EUR": 45.2, "PLN": 10.4}

	trend := []market.RatePoint{{Label: "24.08", Rate: 41.2}, {Label: "30.08", Rate: 41.5}}
	got := ratesView(prefs.LangEN, rows, fx, trend)

	if !strings.Contains(got, "BTC: 65000.00 USD (+1.50%)") {
		t.Errorf("Missing BTC line: %q", got)
	}
	if !strings.Contains(got, "ETH: 3200.00 USD (-0.80%)") {
		t.Errorf("Missing ETH line: %q", got)
	}
	if !strings.Contains(got, "USD/UAH: 41.50") || !strings.Contains(got, "EUR/UAH: 45.20") {
		t.Errorf("Missing fiat lines: %q", got)
	}
	if strings.Contains(got, "PLN") {
		t.Errorf("Unexpected currency in view: %q", got)
	}
	if !strings.Contains(got, "USD 7d: "+Sparkline([]float64{41.2, 41.5})) {
		t.Errorf("Missing trend line: %q", got)
	}
	// BTC is always listed before ETH.
	if strings.Index(got, "BTC") > strings.Index(got, "ETH") {
		t.Errorf("Wrong ordering: %q", got)
	}
}

func TestAlertsView(t *testing.T) {
	if got := alertsView(prefs.LangEN, nil); got != T(prefs.LangEN, "alerts.empty") {
		t.Errorf("Expected empty message, got %q", got)
	}

	fired := alert.New(42, "ETH", alert.Below, 3000)
	fired.Active = false
	items := []alert.Alert{
		alert.New(42, "BTC", alert.Above, 65000),
		fired,
	}
	got := alertsView(prefs.LangUA, items)

	if !strings.Contains(got, "1. 🟢 BTC ≥ 65000.00") {
		t.Errorf("Missing active line: %q", got)
	}
	if !strings.Contains(got, "2. ⚪ ETH ≤ 3000.00") {
		t.Errorf("Missing inactive line: %q", got)
	}
}

func TestAnalyticsView(t *testing.T) {
	usd := []market.RatePoint{
		{Label: "18.08", Rate: 41.0},
		{Label: "19.08", Rate: 41.5},
		{Label: "20.08", Rate: 42.0},
	}
	eur := []market.RatePoint{
		{Label: "18.08", Rate: 45.0},
		{Label: "20.08", Rate: 44.1},
	}
	got := analyticsView(prefs.LangEN, usd, eur)

	if !strings.Contains(got, "USD/UAH\n"+Sparkline([]float64{41.0, 41.5, 42.0})) {
		t.Errorf("Missing USD sparkline: %q", got)
	}
	if !strings.Contains(got, "18.08 … 20.08") {
		t.Errorf("Missing period: %q", got)
	}
	if !strings.Contains(got, "min 41.00 / max 42.00 / +2.44%") {
		t.Errorf("Missing USD summary: %q", got)
	}
	if !strings.Contains(got, "EUR/UAH") || !strings.Contains(got, "min 44.10 / max 45.00 / -2.00%") {
		t.Errorf("Missing EUR section: %q", got)
	}

	// One missing currency drops its section but keeps the rest.
	if got := analyticsView(prefs.LangEN, usd, nil); strings.Contains(got, "EUR/UAH") {
		t.Errorf("Unexpected EUR section: %q", got)
	}
	if got := analyticsView(prefs.LangEN, nil, nil); got != T(prefs.LangEN, "analytics.fail") {
		t.Errorf("Expected failure message for empty history, got %q", got)
	}
}

func TestExchangesViewSortsAndLimits(t *testing.T) {
	tickers := make([]market.Ticker, 0, 20)
	for i := 0; i < 20; i++ {
		tk := market.Ticker{Base: "BTC", Target: "USDT", Last: 65000, Volume: float64(i)}
		tk.Market.Name = "exchange"
		tickers = append(tickers, tk)
	}
	tickers[3].Market.Name = "Biggest"
	tickers[3].Volume = 1e9

	got := exchangesView(prefs.LangEN, tickers)

	if !strings.HasPrefix(strings.Split(got, "\n")[2], "1. Biggest") {
		t.Errorf("Expected Biggest first, got %q", got)
	}
	if strings.Count(got, "\n") > exchangeTop+1 {
		t.Errorf("Expected at most %d rows, got %q", exchangeTop, got)
	}
	if strings.Contains(got, "16.") {
		t.Errorf("List must stop at %d entries: %q", exchangeTop, got)
	}
}

func TestP2PView(t *testing.T) {
	if got := p2pView(prefs.LangEN, nil); got != T(prefs.LangEN, "p2p.empty") {
		t.Errorf("Expected empty message, got %q", got)
	}

	sellers := []p2p.Seller{{Name: "Olena", Currency: "USD", Rate: 41.8, Limit: "100-2000", Contact: "@olena"}}
	got := p2pView(prefs.LangUA, sellers)
	if !strings.Contains(got, "Olena · USD 41.80 · 100-2000 · @olena") {
		t.Errorf("Missing seller line: %q", got)
	}
}

func TestNewsView(t *testing.T) {
	items := []NewsItem{{Title: "Bitcoin hits new high", Link: "https://example.com/a"}}
	got := newsView(prefs.LangEN, items)

	if !strings.Contains(got, "• Bitcoin hits new high") || !strings.Contains(got, "https://example.com/a") {
		t.Errorf("Missing headline: %q", got)
	}
	if got := newsView(prefs.LangEN, nil); got != T(prefs.LangEN, "news.fail") {
		t.Errorf("Expected failure message, got %q", got)
	}
}
