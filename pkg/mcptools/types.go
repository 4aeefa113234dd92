// Package mcptools exposes the retrieval engine as MCP tools: thin
// translations of tool-call arguments into engine calls, with results
// formatted as structured JSON payloads.
package mcptools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/scrapnel/scrapnel/pkg/resourcecache"
	"github.com/scrapnel/scrapnel/pkg/scrape"
	"github.com/scrapnel/scrapnel/pkg/strategystore"
)

// Tool wraps an MCP tool definition with its execution logic.
type Tool struct {
	mcp.Tool // Name, Description, InputSchema
	Execute  func(ctx context.Context, input map[string]any) (*Result, error)
}

// Scraper is the orchestrator surface the scrape tool needs.
type Scraper interface {
	ScrapeWithStrategy(ctx context.Context, req scrape.Request, explicit string) scrape.Result
}

// CacheReader is the read-only cache surface for the cache tools.
type CacheReader interface {
	FindLatest(ctx context.Context, url string) (*resourcecache.Resource, error)
	FindAll(ctx context.Context, url string) ([]resourcecache.Resource, error)
	Get(ctx context.Context, id string) (*resourcecache.Resource, error)
}

// ConfigAdmin is the strategy config surface for the admin tools.
type ConfigAdmin interface {
	Load() ([]strategystore.Entry, error)
	Delete(prefix string) error
}

// Deps carries the engine dependencies for tool construction.
type Deps struct {
	Scraper Scraper
	Cache   CacheReader
	Config  ConfigAdmin
}

// All returns every tool this server exposes. Tools whose dependency
// is absent are skipped.
func All(deps Deps) []*Tool {
	var tools []*Tool
	if deps.Scraper != nil {
		tools = append(tools, NewScrapeURL(deps.Scraper))
	}
	if deps.Cache != nil {
		tools = append(tools, NewReadCached(deps.Cache), NewListCachedVersions(deps.Cache))
	}
	if deps.Config != nil {
		tools = append(tools, NewListStrategyConfig(deps.Config), NewDeleteStrategyConfig(deps.Config))
	}
	return tools
}
