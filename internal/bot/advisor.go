package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"kursbot/internal/market"
)

const (
	advisorFreshFor = time.Minute
	advisorStaleFor = 24 * time.Hour
	trendThreshold  = 2.0
)

type cryptoSnapshotter interface {
	MarketsSnapshot(ctx context.Context, ids []string) (map[string]market.MarketRow, error)
}

type fxQuoter interface {
	Rate(ctx context.Context, code string) (float64, error)
}

type advisorData struct {
	rows      map[string]market.MarketRow
	usdRate   float64
	fetchedAt time.Time
}

// Advisor summarizes the market in one message. Snapshots are cached
// for a minute; when upstream fails, a snapshot up to a day old is
// served with a staleness note instead of an error.
type Advisor struct {
	crypto cryptoSnapshotter
	fx     fxQuoter
	logger *logrus.Logger

	mu   sync.Mutex
	last *advisorData
	now  func() time.Time
}

func NewAdvisor(crypto cryptoSnapshotter, fx fxQuoter, logger *logrus.Logger) *Advisor {
	return &Advisor{crypto: crypto, fx: fx, logger: logger, now: time.Now}
}

// Summary renders the advisor message in the given language.
func (a *Advisor) Summary(ctx context.Context, lang string) (string, error) {
	data, stale, err := a.snapshot(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(T(lang, "advisor.title"))
	b.WriteString("\n\n")

	avgChange, counted := 0.0, 0
	for _, entry := range coinOrder {
		row, ok := data.rows[entry.id]
		if !ok || row.CurrentPrice == nil {
			continue
		}
		line := fmt.Sprintf("%s: %.2f USD", entry.symbol, *row.CurrentPrice)
		if row.Change24h != nil {
			line += fmt.Sprintf(" (%+.2f%%)", *row.Change24h)
			avgChange += *row.Change24h
			counted++
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if data.usdRate > 0 {
		fmt.Fprintf(&b, "USD/UAH: %.2f\n", data.usdRate)
	}

	trend := "advisor.flat"
	if counted > 0 {
		switch avg := avgChange / float64(counted); {
		case avg >= trendThreshold:
			trend = "advisor.up"
		case avg <= -trendThreshold:
			trend = "advisor.down"
		}
	}
	b.WriteString("\n")
	b.WriteString(T(lang, trend))
	if stale {
		b.WriteString("\n")
		b.WriteString(T(lang, "advisor.stale"))
	}
	return b.String(), nil
}

func (a *Advisor) snapshot(ctx context.Context) (*advisorData, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if a.last != nil && now.Sub(a.last.fetchedAt) < advisorFreshFor {
		return a.last, false, nil
	}

	data, err := a.fetch(ctx, now)
	if err == nil {
		a.last = data
		return data, false, nil
	}
	if a.last != nil && now.Sub(a.last.fetchedAt) < advisorStaleFor {
		a.logger.Warnf("Advisor serving stale snapshot: %v", err)
		return a.last, true, nil
	}
	return nil, false, err
}

func (a *Advisor) fetch(ctx context.Context, now time.Time) (*advisorData, error) {
	ids := make([]string, 0, len(coinOrder))
	for _, entry := range coinOrder {
		ids = append(ids, entry.id)
	}
	rows, err := a.crypto.MarketsSnapshot(ctx, ids)
	if err != nil {
		return nil, err
	}

	data := &advisorData{rows: rows, fetchedAt: now}
	// The fiat leg is optional; crypto data alone is still useful.
	if rate, err := a.fx.Rate(ctx, "USD"); err == nil {
		data.usdRate = rate
	} else {
		a.logger.Debugf("Advisor fiat leg unavailable: %v", err)
	}
	return data, nil
}
