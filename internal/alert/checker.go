package alert

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const fetchTimeout = 20 * time.Second

// PriceSource resolves a symbol to its current price.
type PriceSource interface {
	Price(ctx context.Context, symbol string) (float64, error)
}

// AlertStore is the slice of the Store the checker needs. The loop re-reads
// the full collection every cycle and writes it back at most once.
type AlertStore interface {
	List() []Alert
	Replace([]Alert) error
}

// Fire describes one triggered alert, handed to the notification dispatcher.
type Fire struct {
	OwnerID   int64     `json:"owner_id"`
	Symbol    string    `json:"symbol"`
	Direction Direction `json:"direction"`
	Target    float64   `json:"target"`
	Price     float64   `json:"price"`
}

// Notifier delivers a fire event to the owning user. Delivery is attempted
// once; a failure is the caller's to log, never to retry.
type Notifier interface {
	Notify(ctx context.Context, f Fire) error
}

// Checker is the background polling loop. It wakes on a fixed interval,
// re-prices the distinct symbols referenced by active alerts, evaluates
// thresholds, deactivates fired alerts with one batched write and dispatches
// notifications. A failure inside a cycle never stops the loop.
type Checker struct {
	store        AlertStore
	source       PriceSource
	notifier     Notifier
	interval     time.Duration
	startupDelay time.Duration
	logger       *logrus.Logger
}

// NewChecker creates a Checker. It does not start the loop; call Run.
func NewChecker(store AlertStore, source PriceSource, notifier Notifier, interval, startupDelay time.Duration, logger *logrus.Logger) *Checker {
	return &Checker{
		store:        store,
		source:       source,
		notifier:     notifier,
		interval:     interval,
		startupDelay: startupDelay,
		logger:       logger,
	}
}

// Run executes check cycles until ctx is cancelled. The loop is eternal in
// normal operation; process shutdown is the only way out.
func (c *Checker) Run(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(c.startupDelay):
	}

	c.logger.Infof("Alert checker started, interval %s", c.interval)

	for {
		c.RunCycle(ctx)

		select {
		case <-ctx.Done():
			c.logger.Info("Alert checker stopped")
			return
		case <-time.After(c.interval):
		}
	}
}

// RunCycle executes one full check cycle. Any panic inside the cycle body is
// recovered here so a single bad cycle cannot kill the loop.
func (c *Checker) RunCycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Errorf("Alert cycle panicked: %v", r)
		}
	}()

	items := c.store.List()
	if len(items) == 0 {
		return
	}

	prices := c.fetchPrices(ctx, activeSymbols(items))

	var fires []Fire
	changed := false
	for i := range items {
		if !items[i].Active {
			continue
		}
		price, ok := prices[items[i].Symbol]
		if !ok {
			// No price this cycle; the alert stays active and is
			// retried next cycle.
			continue
		}
		if ShouldFire(items[i], price) {
			items[i].Active = false
			changed = true
			fires = append(fires, Fire{
				OwnerID:   items[i].OwnerID,
				Symbol:    items[i].Symbol,
				Direction: items[i].Direction,
				Target:    items[i].Target,
				Price:     price,
			})
		}
	}

	// One batched write per cycle, only when something fired. The write is
	// best-effort: on failure the fired state is lost until a later cycle
	// re-fires, which beats blocking the loop on storage.
	if changed {
		if err := c.store.Replace(items); err != nil {
			c.logger.Errorf("Failed to persist alert state: %v", err)
		}
	}

	// Notifications go out after the state is committed. A delivery failure
	// does not roll anything back: a missed reminder is better than a
	// duplicate one.
	for _, f := range fires {
		if err := c.notifier.Notify(ctx, f); err != nil {
			c.logger.Errorf("Failed to notify owner %d about %s: %v", f.OwnerID, f.Symbol, err)
		}
	}

	if len(fires) > 0 {
		c.logger.Infof("Alert cycle fired %d alert(s)", len(fires))
	}
}

// activeSymbols returns the distinct symbols referenced by active alerts.
func activeSymbols(items []Alert) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range items {
		if !a.Active || seen[a.Symbol] {
			continue
		}
		seen[a.Symbol] = true
		out = append(out, a.Symbol)
	}
	return out
}

// fetchPrices resolves each symbol independently and concurrently. All
// lookups complete (or fail) before it returns, so evaluation never runs
// against a partial price set. Failed symbols are simply absent.
func (c *Checker) fetchPrices(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64, len(symbols))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()

			fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
			defer cancel()

			price, err := c.source.Price(fetchCtx, symbol)
			if err != nil {
				c.logger.Debugf("No price for %s this cycle: %v", symbol, err)
				return
			}

			mu.Lock()
			prices[symbol] = price
			mu.Unlock()
		}(symbol)
	}
	wg.Wait()

	return prices
}
