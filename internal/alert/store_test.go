package alert

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreListEmptyWhenMissing(t *testing.T) {
	store := NewStore(t.TempDir())
	if got := store.List(); len(got) != 0 {
		t.Errorf("Expected empty collection, got %d items", len(got))
	}
}

func TestStoreListEmptyWhenCorrupted(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "alerts.json"), []byte("{{{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir)
	if got := store.List(); len(got) != 0 {
		t.Errorf("Expected corrupted file to degrade to empty, got %d items", len(got))
	}
}

func TestStoreAppendAndList(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Append(New(42, "BTC", Above, 65000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(New(7, "USDUAH", Below, 40)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := store.Append(New(42, "ETH", Below, 3000)); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	all := store.List()
	if len(all) != 3 {
		t.Fatalf("Expected 3 alerts, got %d", len(all))
	}
	// Insertion order is stable.
	if all[0].Symbol != "BTC" || all[1].Symbol != "USDUAH" || all[2].Symbol != "ETH" {
		t.Errorf("Unexpected order: %s %s %s", all[0].Symbol, all[1].Symbol, all[2].Symbol)
	}

	mine := store.ListForOwner(42)
	if len(mine) != 2 {
		t.Fatalf("Expected 2 alerts for owner 42, got %d", len(mine))
	}
	if mine[0].Symbol != "BTC" || mine[1].Symbol != "ETH" {
		t.Errorf("Owner subsequence out of order: %s %s", mine[0].Symbol, mine[1].Symbol)
	}
}

func TestStoreDeactivateOrdinalIsPerOwner(t *testing.T) {
	store := NewStore(t.TempDir())

	// Interleave two owners so global and per-owner indices diverge.
	store.Append(New(1, "BTC", Above, 1))
	store.Append(New(7, "BTC", Above, 2))
	store.Append(New(1, "ETH", Above, 3))
	store.Append(New(7, "ETH", Above, 4))

	found, err := store.Deactivate(7, 1)
	if err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if !found {
		t.Fatal("Expected ordinal 1 to be found for owner 7")
	}

	all := store.List()
	for _, a := range all {
		wantActive := !(a.OwnerID == 7 && a.Symbol == "BTC")
		if a.Active != wantActive {
			t.Errorf("Alert owner=%d symbol=%s: active=%v, expected %v", a.OwnerID, a.Symbol, a.Active, wantActive)
		}
	}
}

func TestStoreDeactivateOutOfRange(t *testing.T) {
	store := NewStore(t.TempDir())
	store.Append(New(42, "BTC", Above, 65000))

	for _, ordinal := range []int{0, -1, 2, 99} {
		found, err := store.Deactivate(42, ordinal)
		if err != nil {
			t.Fatalf("Deactivate(%d) failed: %v", ordinal, err)
		}
		if found {
			t.Errorf("Deactivate(%d): expected not-found", ordinal)
		}
	}

	if !store.List()[0].Active {
		t.Error("Out-of-range deactivate must not mutate anything")
	}

	found, err := store.Deactivate(99, 1)
	if err != nil || found {
		t.Errorf("Deactivate for unknown owner: expected not-found, got found=%v err=%v", found, err)
	}
}

func TestStoreDeactivateCountsInactiveRecords(t *testing.T) {
	store := NewStore(t.TempDir())
	store.Append(New(42, "BTC", Above, 1))
	store.Append(New(42, "ETH", Above, 2))

	// Ordinals are stable over the full owner subsequence: deactivating
	// the first record does not renumber the second.
	if found, _ := store.Deactivate(42, 1); !found {
		t.Fatal("Expected ordinal 1 to be found")
	}
	if found, _ := store.Deactivate(42, 2); !found {
		t.Fatal("Expected ordinal 2 to still address the ETH alert")
	}

	for _, a := range store.List() {
		if a.Active {
			t.Errorf("Expected all of owner 42's alerts inactive, %s still active", a.Symbol)
		}
	}
}

func TestStoreReplace(t *testing.T) {
	store := NewStore(t.TempDir())
	store.Append(New(42, "BTC", Above, 65000))

	items := store.List()
	items[0].Active = false
	if err := store.Replace(items); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got := store.List()
	if len(got) != 1 || got[0].Active {
		t.Errorf("Expected replaced collection with inactive alert, got %+v", got)
	}
}

func TestStoreSurvivesHandEditedFile(t *testing.T) {
	dir := t.TempDir()
	content := `[
  {"owner_id": 42, "symbol": "BTC", "direction": "ABOVE", "target": 65000, "active": true,
   "created_at": "2026-08-01T10:00:00Z", "note": "added by hand"}
]`
	if err := os.WriteFile(filepath.Join(dir, "alerts.json"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(dir)
	items := store.List()
	if len(items) != 1 {
		t.Fatalf("Expected hand-edited record to load, got %d items", len(items))
	}
	if items[0].Symbol != "BTC" || !items[0].Active {
		t.Errorf("Unexpected record: %+v", items[0])
	}
}
