// Package strategystore persists the learned mapping from URL prefixes
// to scraping strategies in a JSON file. Lookups return the entry with
// the longest prefix that string-matches the scheme-stripped URL.
package strategystore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	json5 "github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/scrapnel/scrapnel/pkg/urlpattern"
)

// Entry maps a scheme-stripped URL prefix to a strategy name.
type Entry struct {
	Prefix    string    `json:"prefix"`
	Strategy  string    `json:"strategy"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type storeFile struct {
	Version int     `json:"version"`
	Entries []Entry `json:"entries"`
}

// Store is a file-backed strategy config store. Writes within one
// process are serialized per path; across processes the last write
// wins.
type Store struct {
	path string
	log  zerolog.Logger
}

func NewStore(path string, log zerolog.Logger) *Store {
	return &Store{path: filepath.Clean(path), log: log}
}

// Load reads all entries. A missing file is an empty store, not an
// error; an unreadable or corrupt file is an error for the caller to
// absorb.
func (s *Store) Load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read strategy config: %w", err)
	}
	var parsed storeFile
	if err := json5.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse strategy config: %w", err)
	}
	return parsed.Entries, nil
}

// Save writes all entries atomically and keeps a .bak copy.
func (s *Store) Save(entries []Entry) error {
	lock := storeLockForPath(s.path)
	lock.Lock()
	defer lock.Unlock()
	return s.saveLocked(entries)
}

func (s *Store) saveLocked(entries []Entry) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Prefix < entries[j].Prefix })
	payload, err := json5.MarshalIndent(storeFile{Version: 1, Entries: entries}, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	_ = os.WriteFile(s.path+".bak", payload, 0o644)
	return nil
}

// UpsertEntry adds an entry or overwrites the existing one with the
// same prefix. No two entries with an identical prefix coexist.
func (s *Store) UpsertEntry(entry Entry) error {
	if strings.TrimSpace(entry.Prefix) == "" {
		return fmt.Errorf("empty prefix")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	lock := storeLockForPath(s.path)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.Load()
	if err != nil {
		// A corrupt store should not block learning; start over and
		// let the .bak copy preserve whatever was there.
		s.log.Warn().Err(err).Str("path", s.path).Msg("Resetting unreadable strategy config")
		entries = nil
	}
	replaced := false
	for i := range entries {
		if entries[i].Prefix == entry.Prefix {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}
	return s.saveLocked(entries)
}

// Upsert is the string-arg convenience used by the orchestrator's
// learning step.
func (s *Store) Upsert(prefix, strategy, notes string) error {
	return s.UpsertEntry(Entry{Prefix: prefix, Strategy: strategy, Notes: notes})
}

// Delete removes the entry with the given prefix. Deleting a missing
// prefix is a no-op.
func (s *Store) Delete(prefix string) error {
	lock := storeLockForPath(s.path)
	lock.Lock()
	defer lock.Unlock()

	entries, err := s.Load()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Prefix != prefix {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	return s.saveLocked(kept)
}

// StrategyForURL returns the strategy of the entry whose prefix is the
// longest string-prefix match of the scheme-stripped URL. The second
// return is false when nothing matches.
func (s *Store) StrategyForURL(rawURL string) (string, bool, error) {
	entries, err := s.Load()
	if err != nil {
		return "", false, err
	}
	stripped := urlpattern.StripScheme(rawURL)

	best := -1
	var strategy string
	for _, e := range entries {
		if e.Prefix == "" || !strings.HasPrefix(stripped, e.Prefix) {
			continue
		}
		if len(e.Prefix) > best {
			best = len(e.Prefix)
			strategy = e.Strategy
		}
	}
	if best < 0 {
		return "", false, nil
	}
	return strategy, true, nil
}
