package bot

import (
	"fmt"
	"sort"
	"strings"

	"kursbot/internal/alert"
	"kursbot/internal/market"
	"kursbot/internal/p2p"
)

const exchangeTop = 15

// ratesView renders the combined crypto and fiat rate board, with a short
// USD/UAH trend line when history is available.
func ratesView(lang string, rows map[string]market.MarketRow, fx map[string]float64, trend []market.RatePoint) string {
	var b strings.Builder
	b.WriteString(T(lang, "rates.title"))
	b.WriteString("\n\n")

	for _, entry := range coinOrder {
		row, ok := rows[entry.id]
		if !ok || row.CurrentPrice == nil {
			continue
		}
		line := fmt.Sprintf("%s: %.2f USD", entry.symbol, *row.CurrentPrice)
		if row.Change24h != nil {
			line += fmt.Sprintf(" (%+.2f%%)", *row.Change24h)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	for _, code := range []string{"USD", "EUR"} {
		if rate, ok := fx[code]; ok {
			fmt.Fprintf(&b, "%s/UAH: %.2f\n", code, rate)
		}
	}
	if len(trend) > 1 {
		values := make([]float64, len(trend))
		for i, p := range trend {
			values[i] = p.Rate
		}
		fmt.Fprintf(&b, "USD 7d: %s\n", Sparkline(values))
	}
	return strings.TrimRight(b.String(), "\n")
}

var coinOrder = []struct{ symbol, id string }{
	{"BTC", "bitcoin"},
	{"ETH", "ethereum"},
	{"SOL", "solana"},
	{"USDT", "tether"},
}

// alertsView lists the owner's alerts with their stable ordinals.
func alertsView(lang string, items []alert.Alert) string {
	if len(items) == 0 {
		return T(lang, "alerts.empty")
	}

	var b strings.Builder
	for i, a := range items {
		status := "🟢"
		if !a.Active {
			status = "⚪"
		}
		sign := "≥"
		if a.Direction == alert.Below {
			sign = "≤"
		}
		fmt.Fprintf(&b, "%d. %s %s %s %.2f\n", i+1, status, a.Symbol, sign, a.Target)
	}
	b.WriteString("\n")
	b.WriteString(T(lang, "alerts.offformat"))
	return b.String()
}

// analyticsView renders the 14-day USD and EUR histories as sparklines.
// A currency with no data is left out; both empty yields the failure text.
func analyticsView(lang string, usd, eur []market.RatePoint) string {
	usdSection := historySection("USD/UAH", usd)
	eurSection := historySection("EUR/UAH", eur)
	if usdSection == "" && eurSection == "" {
		return T(lang, "analytics.fail")
	}

	var b strings.Builder
	b.WriteString(T(lang, "analytics.title"))
	for _, section := range []string{usdSection, eurSection} {
		if section == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(section)
	}
	return b.String()
}

func historySection(pair string, points []market.RatePoint) string {
	if len(points) == 0 {
		return ""
	}

	values := make([]float64, len(points))
	min, max := points[0].Rate, points[0].Rate
	for i, p := range points {
		values[i] = p.Rate
		if p.Rate < min {
			min = p.Rate
		}
		if p.Rate > max {
			max = p.Rate
		}
	}
	change := (values[len(values)-1] - values[0]) / values[0] * 100

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n", pair, Sparkline(values))
	fmt.Fprintf(&b, "%s … %s\n", points[0].Label, points[len(points)-1].Label)
	fmt.Fprintf(&b, "min %.2f / max %.2f / %+.2f%%", min, max, change)
	return b.String()
}

// exchangesView lists the largest BTC markets by reported volume.
func exchangesView(lang string, tickers []market.Ticker) string {
	if len(tickers) == 0 {
		return T(lang, "exchanges.fail")
	}

	sorted := make([]market.Ticker, len(tickers))
	copy(sorted, tickers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Volume > sorted[j].Volume })
	if len(sorted) > exchangeTop {
		sorted = sorted[:exchangeTop]
	}

	var b strings.Builder
	b.WriteString(T(lang, "exchanges.title"))
	b.WriteString("\n\n")
	for i, tk := range sorted {
		fmt.Fprintf(&b, "%d. %s %s/%s: %.2f\n", i+1, tk.Market.Name, tk.Base, tk.Target, tk.Last)
	}
	return strings.TrimRight(b.String(), "\n")
}

// p2pView renders the seller board for chat users.
func p2pView(lang string, sellers []p2p.Seller) string {
	if len(sellers) == 0 {
		return T(lang, "p2p.empty")
	}

	var b strings.Builder
	b.WriteString(T(lang, "p2p.title"))
	b.WriteString("\n\n")
	for _, s := range sellers {
		fmt.Fprintf(&b, "%s · %s %.2f · %s · %s\n", s.Name, s.Currency, s.Rate, s.Limit, s.Contact)
	}
	return strings.TrimRight(b.String(), "\n")
}

// newsView renders feed headlines as titled links.
func newsView(lang string, items []NewsItem) string {
	if len(items) == 0 {
		return T(lang, "news.fail")
	}

	var b strings.Builder
	b.WriteString(T(lang, "news.title"))
	b.WriteString("\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "• %s\n%s\n", item.Title, item.Link)
	}
	return strings.TrimRight(b.String(), "\n")
}
