package alert

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
)

type memStore struct {
	mu       sync.Mutex
	items    []Alert
	replaces int
}

func (m *memStore) List() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alert, len(m.items))
	copy(out, m.items)
	return out
}

func (m *memStore) Replace(items []Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
	m.replaces++
	return nil
}

type fakeSource struct {
	mu     sync.Mutex
	prices map[string]float64
	calls  map[string]int
}

func newFakeSource(prices map[string]float64) *fakeSource {
	return &fakeSource{prices: prices, calls: make(map[string]int)}
}

func (f *fakeSource) Price(_ context.Context, symbol string) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[symbol]++
	price, ok := f.prices[symbol]
	if !ok {
		return 0, errFakeUnavailable
	}
	return price, nil
}

var errFakeUnavailable = errors.New("price unavailable")

type recordingNotifier struct {
	mu    sync.Mutex
	fires []Fire
	err   error
}

func (r *recordingNotifier) Notify(_ context.Context, f Fire) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fires = append(r.fires, f)
	return r.err
}

func newTestChecker(store AlertStore, source PriceSource, notifier Notifier) *Checker {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewChecker(store, source, notifier, 0, 0, logger)
}

func TestCycleFiresOnCrossing(t *testing.T) {
	store := &memStore{items: []Alert{New(42, "BTC", Above, 65000)}}
	source := newFakeSource(map[string]float64{"BTC": 64000})
	notifier := &recordingNotifier{}
	checker := newTestChecker(store, source, notifier)

	// Below target: no fire, alert stays active, nothing written.
	checker.RunCycle(context.Background())
	if len(notifier.fires) != 0 {
		t.Fatalf("Expected no fires at 64000, got %d", len(notifier.fires))
	}
	if !store.List()[0].Active {
		t.Fatal("Alert must stay active below target")
	}
	if store.replaces != 0 {
		t.Errorf("Expected no write on a no-change cycle, got %d", store.replaces)
	}

	// Next cycle crosses the threshold.
	source.prices["BTC"] = 65500
	checker.RunCycle(context.Background())

	if len(notifier.fires) != 1 {
		t.Fatalf("Expected 1 fire at 65500, got %d", len(notifier.fires))
	}
	fire := notifier.fires[0]
	if fire.OwnerID != 42 || fire.Symbol != "BTC" || fire.Direction != Above || fire.Target != 65000 || fire.Price != 65500 {
		t.Errorf("Unexpected fire payload: %+v", fire)
	}
	if store.List()[0].Active {
		t.Error("Fired alert must be deactivated")
	}
	if store.replaces != 1 {
		t.Errorf("Expected exactly 1 batched write, got %d", store.replaces)
	}
}

func TestCycleNeverRefires(t *testing.T) {
	store := &memStore{items: []Alert{New(42, "BTC", Above, 65000)}}
	source := newFakeSource(map[string]float64{"BTC": 70000})
	notifier := &recordingNotifier{}
	checker := newTestChecker(store, source, notifier)

	for i := 0; i < 5; i++ {
		checker.RunCycle(context.Background())
	}

	if len(notifier.fires) != 1 {
		t.Errorf("Expected exactly 1 fire over repeated cycles, got %d", len(notifier.fires))
	}
}

func TestCycleDeduplicatesSymbolFetches(t *testing.T) {
	store := &memStore{items: []Alert{
		New(1, "BTC", Above, 100000),
		New(2, "BTC", Below, 1),
		New(3, "BTC", Above, 200000),
		New(4, "ETH", Above, 100000),
	}}
	source := newFakeSource(map[string]float64{"BTC": 65000, "ETH": 3200})
	checker := newTestChecker(store, source, &recordingNotifier{})

	checker.RunCycle(context.Background())

	if source.calls["BTC"] != 1 {
		t.Errorf("Expected exactly 1 BTC fetch for 3 alerts, got %d", source.calls["BTC"])
	}
	if source.calls["ETH"] != 1 {
		t.Errorf("Expected exactly 1 ETH fetch, got %d", source.calls["ETH"])
	}
}

func TestCycleSkipsInactiveSymbols(t *testing.T) {
	inactive := New(1, "SOL", Above, 1)
	inactive.Active = false
	store := &memStore{items: []Alert{inactive}}
	source := newFakeSource(map[string]float64{"SOL": 150})
	checker := newTestChecker(store, source, &recordingNotifier{})

	checker.RunCycle(context.Background())

	if source.calls["SOL"] != 0 {
		t.Errorf("Inactive alerts must not cause fetches, got %d", source.calls["SOL"])
	}
}

func TestCycleRetriesUnpricedSymbolsNextCycle(t *testing.T) {
	store := &memStore{items: []Alert{
		New(1, "BTC", Below, 100000),
		New(2, "USDUAH", Above, 1),
	}}
	// USDUAH has no price this cycle; BTC still evaluates and fires.
	source := newFakeSource(map[string]float64{"BTC": 65000})
	notifier := &recordingNotifier{}
	checker := newTestChecker(store, source, notifier)

	checker.RunCycle(context.Background())

	if len(notifier.fires) != 1 || notifier.fires[0].Symbol != "BTC" {
		t.Fatalf("Expected only BTC to fire, got %+v", notifier.fires)
	}
	items := store.List()
	for _, a := range items {
		if a.Symbol == "USDUAH" && !a.Active {
			t.Error("Unpriced alert must stay active")
		}
	}

	// The price shows up next cycle and the alert is evaluated then.
	source.mu.Lock()
	source.prices["USDUAH"] = 42
	source.mu.Unlock()
	checker.RunCycle(context.Background())

	if len(notifier.fires) != 2 {
		t.Fatalf("Expected USDUAH to fire on the next cycle, got %d fires", len(notifier.fires))
	}
	if source.calls["USDUAH"] != 2 {
		t.Errorf("Expected USDUAH fetched in both cycles, got %d", source.calls["USDUAH"])
	}
}

func TestCycleDeliveryFailureKeepsState(t *testing.T) {
	store := &memStore{items: []Alert{New(42, "BTC", Above, 65000)}}
	source := newFakeSource(map[string]float64{"BTC": 70000})
	notifier := &recordingNotifier{err: errors.New("chat unreachable")}
	checker := newTestChecker(store, source, notifier)

	checker.RunCycle(context.Background())

	if store.List()[0].Active {
		t.Error("Delivery failure must not roll back the fired state")
	}

	// And no redelivery happens later.
	checker.RunCycle(context.Background())
	if len(notifier.fires) != 1 {
		t.Errorf("Expected at-most-once delivery, got %d attempts", len(notifier.fires))
	}
}

type panickyStore struct{ memStore }

func (p *panickyStore) List() []Alert { panic("boom") }

func TestCycleRecoversFromPanic(t *testing.T) {
	checker := newTestChecker(&panickyStore{}, newFakeSource(nil), &recordingNotifier{})

	// Must not propagate; the loop would run the next cycle normally.
	checker.RunCycle(context.Background())
}

func TestCycleEmptyStoreIsNoop(t *testing.T) {
	store := &memStore{}
	source := newFakeSource(map[string]float64{"BTC": 65000})
	checker := newTestChecker(store, source, &recordingNotifier{})

	checker.RunCycle(context.Background())

	if len(source.calls) != 0 {
		t.Errorf("Empty collection must not fetch anything, got %v", source.calls)
	}
	if store.replaces != 0 {
		t.Errorf("Empty collection must not write, got %d", store.replaces)
	}
}
