package strategystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "strategies.json"), zerolog.Nop())
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	store := newTestStore(t)
	entries, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty store, got %d entries", len(entries))
	}
}

func TestUpsertAndLookup(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert("yelp.com/biz/", "proxy", "Auto-discovered via universal fallback"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	strategy, found, err := store.StrategyForURL("https://yelp.com/biz/dolly-sf")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !found || strategy != "proxy" {
		t.Fatalf("expected proxy hit, got (%q, %v)", strategy, found)
	}

	_, found, err = store.StrategyForURL("https://yelp.com/events/sf")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if found {
		t.Fatalf("expected miss for non-matching path")
	}
}

func TestLongestPrefixWins(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert("example.com", "native", ""); err != nil {
		t.Fatalf("upsert host: %v", err)
	}
	if err := store.Upsert("example.com/blog/2024/", "managed", ""); err != nil {
		t.Fatalf("upsert blog: %v", err)
	}

	strategy, found, _ := store.StrategyForURL("https://example.com/blog/2024/post-1")
	if !found || strategy != "managed" {
		t.Fatalf("expected longest prefix (managed), got (%q, %v)", strategy, found)
	}

	strategy, found, _ = store.StrategyForURL("https://example.com/about")
	if !found || strategy != "native" {
		t.Fatalf("expected host fallback (native), got (%q, %v)", strategy, found)
	}
}

func TestUpsertOverwritesSamePrefix(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert("example.com", "native", "first"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Upsert("example.com", "proxy", "second"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	entries, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single entry, got %d", len(entries))
	}
	if entries[0].Strategy != "proxy" || entries[0].Notes != "second" {
		t.Fatalf("expected overwrite, got %+v", entries[0])
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	if err := store.Upsert("example.com", "native", ""); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.Delete("example.com"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := store.StrategyForURL("https://example.com/x"); found {
		t.Fatalf("expected entry gone after delete")
	}
	if err := store.Delete("never-existed"); err != nil {
		t.Fatalf("deleting missing prefix should be a no-op: %v", err)
	}
}

func TestCorruptFileReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strategies.json")
	if err := os.WriteFile(path, []byte("{{{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store := NewStore(path, zerolog.Nop())

	if _, err := store.Load(); err == nil {
		t.Fatalf("expected parse error from corrupt file")
	}
	if _, _, err := store.StrategyForURL("https://example.com"); err == nil {
		t.Fatalf("expected lookup error from corrupt file")
	}
}

func TestEntriesPersistAcrossStoreInstances(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "strategies.json")

	first := NewStore(path, zerolog.Nop())
	if err := first.Upsert("reddit.com/r/golang/comments/1abc23/", "managed", "Auto-discovered via universal fallback"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	second := NewStore(path, zerolog.Nop())
	strategy, found, err := second.StrategyForURL("https://reddit.com/r/golang/comments/1abc23/title/")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if !found || strategy != "managed" {
		t.Fatalf("expected persisted entry, got (%q, %v)", strategy, found)
	}
}
