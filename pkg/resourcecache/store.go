// Package resourcecache stores retrieved page content in sqlite, one
// immutable row per retrieval. Rows for the same URL form a version
// history ordered by a per-URL monotonic sequence; reads default to
// the highest sequence.
package resourcecache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"go.mau.fi/util/dbutil"
)

// DefaultMaxVersions bounds the per-URL version history kept on write.
const DefaultMaxVersions = 5

// Resource is one cached retrieval. Rows are never mutated, only
// superseded by a newer row with a higher sequence.
type Resource struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Content   string    `json:"content"`
	MimeType  string    `json:"mimeType"`
	Strategy  string    `json:"strategy"`
	ScrapedAt time.Time `json:"scrapedAt"`
	Sequence  int64     `json:"sequence"`
	TookMs    int64     `json:"tookMs"`
}

type Store struct {
	db          *dbutil.Database
	maxVersions int
	log         zerolog.Logger
}

func NewStore(db *dbutil.Database, log zerolog.Logger) *Store {
	return &Store{db: db, maxVersions: DefaultMaxVersions, log: log}
}

// WithMaxVersions overrides the per-URL history bound. Zero or
// negative disables pruning.
func (s *Store) WithMaxVersions(n int) *Store {
	s.maxVersions = n
	return s
}

// Init creates the schema.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS scraped_resources (
			id TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			content TEXT NOT NULL,
			mime_type TEXT NOT NULL,
			strategy TEXT NOT NULL,
			scraped_at INTEGER NOT NULL,
			sequence INTEGER NOT NULL,
			took_ms INTEGER NOT NULL DEFAULT 0,
			UNIQUE (url, sequence)
		);
	`)
	if err != nil {
		return fmt.Errorf("create scraped_resources: %w", err)
	}
	_, err = s.db.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_scraped_resources_url ON scraped_resources (url, sequence DESC);`)
	return err
}

// Write appends a new version for the URL and returns its id. The
// sequence is assigned inside the INSERT so concurrent writers cannot
// hand out the same number.
func (s *Store) Write(ctx context.Context, res Resource) (string, error) {
	if strings.TrimSpace(res.URL) == "" {
		return "", fmt.Errorf("empty url")
	}
	if res.ID == "" {
		res.ID = xid.New().String()
	}
	if res.ScrapedAt.IsZero() {
		res.ScrapedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO scraped_resources (id, url, content, mime_type, strategy, scraped_at, sequence, took_ms)
		SELECT $1, $2, $3, $4, $5, $6,
		       COALESCE((SELECT MAX(sequence) FROM scraped_resources WHERE url=$2), 0) + 1,
		       $7
	`, res.ID, res.URL, res.Content, res.MimeType, res.Strategy, res.ScrapedAt.UnixMilli(), res.TookMs)
	if err != nil {
		return "", fmt.Errorf("insert resource: %w", err)
	}
	if s.maxVersions > 0 {
		if err := s.prune(ctx, res.URL); err != nil {
			s.log.Warn().Err(err).Str("url", res.URL).Msg("Failed to prune old cache versions")
		}
	}
	return res.ID, nil
}

func (s *Store) prune(ctx context.Context, url string) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM scraped_resources
		WHERE url=$1 AND id NOT IN (
			SELECT id FROM scraped_resources WHERE url=$1
			ORDER BY sequence DESC LIMIT $2
		)
	`, url, s.maxVersions)
	return err
}

const resourceColumns = `id, url, content, mime_type, strategy, scraped_at, sequence, took_ms`

func scanResource(row dbutil.Scannable) (*Resource, error) {
	var res Resource
	var scrapedAt int64
	err := row.Scan(&res.ID, &res.URL, &res.Content, &res.MimeType, &res.Strategy, &scrapedAt, &res.Sequence, &res.TookMs)
	if err != nil {
		return nil, err
	}
	res.ScrapedAt = time.UnixMilli(scrapedAt).UTC()
	return &res, nil
}

// FindLatest returns the highest-sequence version for the URL, or nil
// on a cache miss.
func (s *Store) FindLatest(ctx context.Context, url string) (*Resource, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM scraped_resources WHERE url=$1 ORDER BY sequence DESC LIMIT 1`,
		url,
	)
	res, err := scanResource(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}

// FindAll returns every cached version for the URL, newest first.
func (s *Store) FindAll(ctx context.Context, url string) ([]Resource, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+resourceColumns+` FROM scraped_resources WHERE url=$1 ORDER BY sequence DESC`,
		url,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Get returns a specific version by id, or nil when unknown.
func (s *Store) Get(ctx context.Context, id string) (*Resource, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+resourceColumns+` FROM scraped_resources WHERE id=$1`,
		id,
	)
	res, err := scanResource(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return res, nil
}
