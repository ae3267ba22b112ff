package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/fkoidl/heimdeck/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "snapshot.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open with missing parent dirs failed: %v", err)
	}
	defer store.Close()

	if err := store.Store("demo", []domain.Record{{Title: "First"}}); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
}

func TestStoreLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)

	records := []domain.Record{
		{
			Title:       "First",
			Link:        "https://example.com/1",
			PublishedAt: time.Date(2024, 10, 2, 10, 0, 0, 0, time.UTC),
			Source:      "Demo",
			Categories:  []string{"Tech"},
		},
		{
			Title:       "Second",
			PublishedAt: time.Date(2024, 10, 1, 10, 0, 0, 0, time.UTC),
			Source:      "Demo",
			Meta:        map[string]string{"score": "8"},
		},
	}

	if err := store.Store("demo", records); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, err := store.Load("demo")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(records, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingSource(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Load("never-stored")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing source, got %v", got)
	}
}

func TestStoreOverwritesPreviousSnapshot(t *testing.T) {
	store := openTestStore(t)

	if err := store.Store("demo", []domain.Record{{Title: "old"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Store("demo", []domain.Record{{Title: "new"}}); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load("demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Title != "new" {
		t.Errorf("snapshot not overwritten: %+v", got)
	}
}
