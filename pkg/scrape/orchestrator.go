package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/scrapnel/scrapnel/pkg/resourcecache"
	"github.com/scrapnel/scrapnel/pkg/urlpattern"
)

// ConfigStore is the learned-routing dependency. Lookup errors are
// absorbed here: a broken store means "no configured strategy", never
// a failed retrieval.
type ConfigStore interface {
	StrategyForURL(rawURL string) (string, bool, error)
	Upsert(prefix, strategy, notes string) error
}

// ContentCache is the retrieval cache dependency.
type ContentCache interface {
	Write(ctx context.Context, res resourcecache.Resource) (string, error)
	FindLatest(ctx context.Context, url string) (*resourcecache.Resource, error)
}

// Orchestrator resolves a strategy for each request (explicit, learned
// config, or universal fallback), executes backends sequentially until
// one succeeds, and feeds fallback successes back into the config
// store. Backend attempts are never parallel: a cheaper backend that
// might still succeed should never be raced against a paid one.
type Orchestrator struct {
	backends Backends
	store    ConfigStore
	cache    ContentCache
	mode     Mode
	log      zerolog.Logger
}

// NewOrchestrator builds an orchestrator. store and cache may be nil,
// which disables learning and caching respectively.
func NewOrchestrator(backends Backends, store ConfigStore, cache ContentCache, cfg *Config, log zerolog.Logger) *Orchestrator {
	cfg = cfg.WithDefaults()
	return &Orchestrator{
		backends: backends,
		store:    store,
		cache:    cache,
		mode:     cfg.Mode,
		log:      log,
	}
}

// ScrapeWithSingleStrategy attempts exactly one named backend: no
// cache, no fallback, no learning.
func (o *Orchestrator) ScrapeWithSingleStrategy(ctx context.Context, name string, req Request) Result {
	diag := newDiagnostics(uuid.NewString())
	req = normalizeRequest(req)
	if err := validateURL(req.URL); err != nil {
		return Result{Source: SourceNone, Error: err.Error(), Diagnostics: diag}
	}
	strategy, err := ParseStrategy(name)
	if err != nil {
		return Result{Source: name, Error: "Unknown strategy: " + name, Diagnostics: diag}
	}

	log := o.requestLogger(diag.RequestID, req.URL)
	if page := o.attempt(ctx, strategy, req, &diag, log); page != nil {
		return Result{
			Success:     true,
			Content:     page.Content,
			MimeType:    page.MimeType,
			Source:      string(strategy),
			Diagnostics: diag,
		}
	}
	return Result{Source: string(strategy), Error: diag.StrategyErrors[strategy], Diagnostics: diag}
}

// ScrapeUniversal runs the pure fallback sequence, skipping the config
// store lookup. Fallback successes still teach the config store.
func (o *Orchestrator) ScrapeUniversal(ctx context.Context, req Request) Result {
	return o.run(ctx, req, "", false)
}

// ScrapeWithStrategy performs full resolution: explicit strategy if
// given, else learned config, else universal fallback; failures of the
// first two fall through to fallback without a retry.
func (o *Orchestrator) ScrapeWithStrategy(ctx context.Context, req Request, explicit string) Result {
	return o.run(ctx, req, explicit, true)
}

func (o *Orchestrator) run(ctx context.Context, req Request, explicit string, useConfig bool) Result {
	diag := newDiagnostics(uuid.NewString())
	req = normalizeRequest(req)
	if err := validateURL(req.URL); err != nil {
		return Result{Source: SourceNone, Error: err.Error(), Diagnostics: diag}
	}
	log := o.requestLogger(diag.RequestID, req.URL)

	// Reject unknown strategy names before any lookup or attempt.
	var explicitStrategy Strategy
	if explicit != "" {
		parsed, err := ParseStrategy(explicit)
		if err != nil {
			return Result{Source: explicit, Error: "Unknown strategy: " + explicit, Diagnostics: diag}
		}
		explicitStrategy = parsed
	}

	if !req.ForceRefresh && o.cache != nil {
		if cached, err := o.cache.FindLatest(ctx, req.URL); err != nil {
			log.Warn().Err(err).Msg("Cache lookup failed; scraping fresh")
		} else if cached != nil {
			log.Debug().Str("version_id", cached.ID).Int64("sequence", cached.Sequence).Msg("Serving cached content")
			return Result{
				Success:     true,
				Content:     cached.Content,
				MimeType:    cached.MimeType,
				Source:      cached.Strategy,
				Cached:      true,
				VersionID:   cached.ID,
				Diagnostics: diag,
			}
		}
	}

	tried := make(map[Strategy]bool, 3)
	var rescueNotes string

	if explicitStrategy != "" {
		if page := o.attempt(ctx, explicitStrategy, req, &diag, log); page != nil {
			// The caller already knew what to use; nothing to learn.
			return o.finish(ctx, req, explicitStrategy, page, "", diag, log)
		}
		tried[explicitStrategy] = true
		rescueNotes = "Auto-discovered after explicit strategy failed"
	} else if useConfig && o.store != nil {
		name, found, err := o.store.StrategyForURL(req.URL)
		if err != nil {
			log.Warn().Err(err).Msg("Strategy config lookup failed; proceeding with fallback")
		} else if found {
			strategy, err := ParseStrategy(name)
			if err != nil {
				log.Warn().Str("configured", name).Msg("Ignoring configured strategy with unknown name")
			} else {
				if page := o.attempt(ctx, strategy, req, &diag, log); page != nil {
					return o.finish(ctx, req, strategy, page, "", diag, log)
				}
				tried[strategy] = true
				rescueNotes = "Auto-discovered after configured strategy failed"
			}
		}
	}

	learnNotes := rescueNotes
	if learnNotes == "" {
		learnNotes = "Auto-discovered via universal fallback"
	}

	for _, strategy := range FallbackOrder(o.mode) {
		if tried[strategy] {
			continue
		}
		if ctx.Err() != nil {
			return Result{Source: SourceNone, Error: ctx.Err().Error(), Diagnostics: diag}
		}
		if page := o.attempt(ctx, strategy, req, &diag, log); page != nil {
			return o.finish(ctx, req, strategy, page, learnNotes, diag, log)
		}
	}

	return Result{Source: SourceNone, Error: composeFailure(diag), Diagnostics: diag}
}

// attempt runs one backend and records the outcome in the diagnostics.
// An absent adapter is synthesized as a failure without being invoked.
func (o *Orchestrator) attempt(ctx context.Context, strategy Strategy, req Request, diag *Diagnostics, log zerolog.Logger) *Page {
	diag.StrategiesAttempted = append(diag.StrategiesAttempted, strategy)

	backend := o.backends.Get(strategy)
	if backend == nil {
		diag.StrategyErrors[strategy] = strategy.Title() + " client not available"
		log.Debug().Str("strategy", string(strategy)).Msg("Backend not configured")
		return nil
	}

	attemptCtx := ctx
	if req.TimeoutMs > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutMs)*time.Millisecond)
		defer cancel()
	}

	start := time.Now()
	page, err := backend.Scrape(attemptCtx, req)
	took := time.Since(start)
	diag.Timing[strategy] = took

	switch {
	case err != nil:
		diag.StrategyErrors[strategy] = err.Error()
	case page == nil || page.Content == "":
		diag.StrategyErrors[strategy] = "backend returned empty content"
	default:
		log.Debug().
			Str("strategy", string(strategy)).
			Int64("took_ms", took.Milliseconds()).
			Int("length", len(page.Content)).
			Msg("Scrape attempt succeeded")
		return page
	}
	log.Debug().
		Str("strategy", string(strategy)).
		Str("error", diag.StrategyErrors[strategy]).
		Int64("took_ms", took.Milliseconds()).
		Msg("Scrape attempt failed")
	return nil
}

// finish builds the success result, persisting the learned entry and
// the cache version before returning; nothing runs after the caller
// has the result.
func (o *Orchestrator) finish(ctx context.Context, req Request, strategy Strategy, page *Page, learnNotes string, diag Diagnostics, log zerolog.Logger) Result {
	result := Result{
		Success:     true,
		Content:     page.Content,
		MimeType:    page.MimeType,
		Source:      string(strategy),
		Diagnostics: diag,
	}

	if learnNotes != "" && o.store != nil {
		prefix := urlpattern.DerivePrefix(req.URL)
		if err := o.store.Upsert(prefix, string(strategy), learnNotes); err != nil {
			log.Warn().Err(err).Str("prefix", prefix).Msg("Failed to persist learned strategy")
		} else {
			log.Info().Str("prefix", prefix).Str("strategy", string(strategy)).Msg("Learned strategy for prefix")
		}
	}

	if o.cache != nil {
		id, err := o.cache.Write(ctx, resourcecache.Resource{
			URL:      req.URL,
			Content:  page.Content,
			MimeType: page.MimeType,
			Strategy: string(strategy),
			TookMs:   diag.Timing[strategy].Milliseconds(),
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to write cache version")
		} else {
			result.VersionID = id
		}
	}
	return result
}

func (o *Orchestrator) requestLogger(requestID, url string) zerolog.Logger {
	return o.log.With().Str("request_id", requestID).Str("url", url).Logger()
}

func normalizeRequest(req Request) Request {
	if req.Format == "" {
		req.Format = FormatMarkdown
	}
	if req.MaxChars < 0 {
		req.MaxChars = 0
	}
	req.URL = strings.TrimSpace(req.URL)
	return req
}

func composeFailure(diag Diagnostics) string {
	parts := make([]string, 0, len(diag.StrategiesAttempted))
	for _, strategy := range diag.StrategiesAttempted {
		if msg := diag.StrategyErrors[strategy]; msg != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", strategy, msg))
		}
	}
	if len(parts) == 0 {
		return "All strategies failed"
	}
	return "All strategies failed (" + strings.Join(parts, "; ") + ")"
}
