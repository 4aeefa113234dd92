// Package scrape implements the adaptive retrieval engine: a set of
// scraping backends, a fallback orchestrator that tries them in order,
// and hooks for learned per-prefix routing and content caching.
package scrape

import (
	"fmt"
	"time"
)

// Strategy identifies a scraping backend. The set is closed; anything
// outside it is rejected with ErrUnknownStrategy before any backend is
// touched.
type Strategy string

const (
	StrategyNative  Strategy = "native"
	StrategyManaged Strategy = "managed"
	StrategyProxy   Strategy = "proxy"
)

// SourceNone is the Result.Source value when every attempted backend failed.
const SourceNone = "none"

// ParseStrategy validates a strategy name against the closed set.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case StrategyNative, StrategyManaged, StrategyProxy:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStrategy, name)
	}
}

// Title returns the human-readable backend name used in error strings
// like "Managed client not available".
func (s Strategy) Title() string {
	switch s {
	case StrategyNative:
		return "Native"
	case StrategyManaged:
		return "Managed"
	case StrategyProxy:
		return "Proxy"
	default:
		return string(s)
	}
}

// Format selects the shape of the normalized content.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatText     Format = "text"
)

// ParseFormat validates a format name, defaulting empty to markdown.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "":
		return FormatMarkdown, nil
	case FormatMarkdown, FormatHTML, FormatText:
		return Format(name), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
}

// Request is a normalized retrieval request.
type Request struct {
	URL          string
	Format       Format
	TimeoutMs    int
	ForceRefresh bool
	MaxChars     int
}

// Page is the normalized output of a single backend attempt. Backends
// collapse their wire-specific shapes (plain body, markdown/html pair)
// into a single content string before returning.
type Page struct {
	Content   string
	MimeType  string
	Title     string
	Truncated bool
	RawLength int
}

// Diagnostics records what the orchestrator actually did, so callers
// and tests can tell a first-try success from one rescued by fallback.
type Diagnostics struct {
	RequestID           string                    `json:"requestId"`
	StrategiesAttempted []Strategy                `json:"strategiesAttempted"`
	StrategyErrors      map[Strategy]string       `json:"strategyErrors,omitempty"`
	Timing              map[Strategy]time.Duration `json:"timing,omitempty"`
}

func newDiagnostics(requestID string) Diagnostics {
	return Diagnostics{
		RequestID:      requestID,
		StrategyErrors: make(map[Strategy]string),
		Timing:         make(map[Strategy]time.Duration),
	}
}

// Result is the terminal outcome of a retrieval. Success is false iff
// Content is empty; Source is SourceNone iff every attempted backend
// failed (or none could be attempted).
type Result struct {
	Success     bool        `json:"success"`
	Content     string      `json:"content,omitempty"`
	MimeType    string      `json:"mimeType,omitempty"`
	Source      string      `json:"source"`
	Cached      bool        `json:"cached,omitempty"`
	VersionID   string      `json:"versionId,omitempty"`
	Error       string      `json:"error,omitempty"`
	Diagnostics Diagnostics `json:"diagnostics"`
}
