package kvstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("open store failed: %v", err)
	}

	if err := f.Set("memberCard", `{"points":10}`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := f.Set("transactions_4000", `[]`); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	// Reopen and verify the snapshot survived.
	f2, err := NewFile(path)
	if err != nil {
		t.Fatalf("reopen store failed: %v", err)
	}
	v, ok := f2.Get("memberCard")
	if !ok || v != `{"points":10}` {
		t.Fatalf("expected persisted value, got %q (present=%v)", v, ok)
	}
	if got := len(f2.Keys()); got != 2 {
		t.Fatalf("expected 2 keys, got %d", got)
	}

	if err := f2.Remove("memberCard"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if _, ok := f2.Get("memberCard"); ok {
		t.Fatal("expected key to be gone after remove")
	}
}

func TestFileCorruptSnapshotStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	f, err := NewFile(path)
	if err != nil {
		t.Fatalf("open over corrupt file failed: %v", err)
	}
	if got := len(f.Keys()); got != 0 {
		t.Fatalf("expected empty store, got %d keys", got)
	}
}

func TestMemoryRemoveAbsentKey(t *testing.T) {
	m := NewMemory()
	if err := m.Remove("missing"); err != nil {
		t.Fatalf("remove of absent key should not fail: %v", err)
	}
}
