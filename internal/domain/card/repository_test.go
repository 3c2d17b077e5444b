package card_test

import (
	"errors"
	"testing"

	"github.com/memberclub/memberclub-core/internal/domain/card"
	"github.com/memberclub/memberclub-core/internal/pkg/kvstore"
)

func TestRepositoryRoundTrip(t *testing.T) {
	store := kvstore.NewMemory()
	repo := card.NewRepository(store)

	c := newTestCard(t)
	c.AddPoints(100)

	if err := repo.Save(c); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := repo.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.CardNumber != c.CardNumber {
		t.Fatalf("expected card number %q, got %q", c.CardNumber, loaded.CardNumber)
	}
	if loaded.Points != 100 {
		t.Fatalf("expected 100 points, got %d", loaded.Points)
	}
	if !loaded.ValidUntil.Equal(c.ValidUntil) {
		t.Fatalf("expected validUntil %v, got %v", c.ValidUntil, loaded.ValidUntil)
	}
}

func TestRepositoryLoadAbsent(t *testing.T) {
	repo := card.NewRepository(kvstore.NewMemory())
	if _, err := repo.Load(); !errors.Is(err, card.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryLoadMalformed(t *testing.T) {
	store := kvstore.NewMemory()
	store.Set(card.StorageKey, "{broken json")
	repo := card.NewRepository(store)

	if _, err := repo.Load(); !errors.Is(err, card.ErrNotFound) {
		t.Fatalf("malformed record must read as absent, got %v", err)
	}
	// The corrupt record is discarded.
	if _, ok := store.Get(card.StorageKey); ok {
		t.Fatal("expected malformed record to be removed")
	}
}

func TestRepositoryClear(t *testing.T) {
	store := kvstore.NewMemory()
	repo := card.NewRepository(store)

	if err := repo.Save(newTestCard(t)); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := repo.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if _, err := repo.Load(); !errors.Is(err, card.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after clear, got %v", err)
	}
}
