package p2p

import (
	"errors"
	"testing"
)

func TestAddAssignsIncrementingIDs(t *testing.T) {
	store := NewStore(t.TempDir())

	first, err := store.Add(Seller{Name: "Olena", Currency: "USD", Rate: 41.8, Limit: "100-2000", Contact: "@olena"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	second, err := store.Add(Seller{Name: "Taras", Currency: "EUR", Rate: 45.1, Limit: "50-500", Contact: "@taras"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	if first.ID != 1 || second.ID != 2 {
		t.Errorf("Expected IDs 1 and 2, got %d and %d", first.ID, second.ID)
	}
	if first.UpdatedAt.IsZero() {
		t.Error("Add must stamp UpdatedAt")
	}

	sellers := store.List()
	if len(sellers) != 2 || sellers[0].Name != "Olena" || sellers[1].Name != "Taras" {
		t.Errorf("Unexpected listing: %+v", sellers)
	}
}

func TestAddAfterRemoveDoesNotReuseIDs(t *testing.T) {
	store := NewStore(t.TempDir())

	store.Add(Seller{Name: "A"})
	second, _ := store.Add(Seller{Name: "B"})
	store.Remove(1)

	third, err := store.Add(Seller{Name: "C"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if third.ID <= second.ID {
		t.Errorf("Expected a fresh ID above %d, got %d", second.ID, third.ID)
	}
}

func TestUpdate(t *testing.T) {
	store := NewStore(t.TempDir())
	seller, _ := store.Add(Seller{Name: "Olena", Rate: 41.8})

	seller.Rate = 42.2
	if err := store.Update(seller); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, ok := store.Get(seller.ID)
	if !ok {
		t.Fatal("Seller disappeared after update")
	}
	if got.Rate != 42.2 {
		t.Errorf("Expected rate 42.2, got %v", got.Rate)
	}
}

func TestUpdateUnknownSeller(t *testing.T) {
	store := NewStore(t.TempDir())

	if err := store.Update(Seller{ID: 99}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	store := NewStore(t.TempDir())
	seller, _ := store.Add(Seller{Name: "Olena"})

	if err := store.Remove(seller.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok := store.Get(seller.ID); ok {
		t.Error("Seller still present after removal")
	}
	if err := store.Remove(seller.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound on double remove, got %v", err)
	}
}

func TestListEmptyDirectory(t *testing.T) {
	store := NewStore(t.TempDir())

	if got := store.List(); len(got) != 0 {
		t.Errorf("Expected empty listing, got %+v", got)
	}
}
