package mcptools

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/scrapnel/scrapnel/pkg/resourcecache"
	"github.com/scrapnel/scrapnel/pkg/scrape"
)

// NewScrapeURL builds the scrape_url tool.
func NewScrapeURL(scraper Scraper) *Tool {
	tool := &Tool{
		Tool: mcp.Tool{
			Name:        ScrapeURLName,
			Description: ScrapeURLDescription,
			InputSchema: ScrapeURLSchema(),
		},
		Execute: func(ctx context.Context, input map[string]any) (*Result, error) {
			rawURL, err := ReadString(input, "url", true)
			if err != nil {
				return ErrorResult(ScrapeURLName, err.Error()), nil
			}
			formatName, _ := ReadString(input, "format", false)
			format, err := scrape.ParseFormat(formatName)
			if err != nil {
				return ErrorResult(ScrapeURLName, err.Error()), nil
			}
			explicit, _ := ReadString(input, "strategy", false)

			req := scrape.Request{
				URL:          rawURL,
				Format:       format,
				TimeoutMs:    ReadInt(input, "timeout_ms", 0),
				ForceRefresh: ReadBool(input, "force_refresh", false),
			}
			res := scraper.ScrapeWithStrategy(ctx, req, explicit)
			if !res.Success {
				out := ErrorResult(ScrapeURLName, res.Error)
				out.Details["url"] = rawURL
				out.Details["source"] = res.Source
				out.Details["diagnostics"] = toMap(res.Diagnostics)
				return out, nil
			}

			startIndex := ReadInt(input, "start_index", 0)
			maxChars := ReadInt(input, "max_chars", 0)
			content, more := resourcecache.Slice(res.Content, startIndex, maxChars)
			return JSONResult(map[string]any{
				"url":         rawURL,
				"content":     content,
				"more":        more,
				"totalChars":  len(res.Content),
				"source":      res.Source,
				"cached":      res.Cached,
				"versionId":   res.VersionID,
				"mimeType":    res.MimeType,
				"diagnostics": toMap(res.Diagnostics),
			}), nil
		},
	}
	return tool
}

// NewReadCached builds the read_cached tool.
func NewReadCached(cache CacheReader) *Tool {
	tool := &Tool{
		Tool: mcp.Tool{
			Name:        ReadCachedName,
			Description: ReadCachedDescription,
			InputSchema: ReadCachedSchema(),
		},
		Execute: func(ctx context.Context, input map[string]any) (*Result, error) {
			rawURL, err := ReadString(input, "url", true)
			if err != nil {
				return ErrorResult(ReadCachedName, err.Error()), nil
			}
			version, _ := ReadString(input, "version", false)

			var res *resourcecache.Resource
			if version != "" {
				res, err = cache.Get(ctx, version)
			} else {
				res, err = cache.FindLatest(ctx, rawURL)
			}
			if err != nil {
				return ErrorResultf(ReadCachedName, "cache lookup failed: %v", err), nil
			}
			if res == nil {
				return ErrorResultf(ReadCachedName, "no cached content for %s", rawURL), nil
			}
			if version != "" && res.URL != rawURL {
				return ErrorResultf(ReadCachedName, "version %s does not belong to %s", version, rawURL), nil
			}

			startIndex := ReadInt(input, "start_index", 0)
			maxChars := ReadInt(input, "max_chars", 0)
			content, more := resourcecache.Slice(res.Content, startIndex, maxChars)
			return JSONResult(map[string]any{
				"url":        res.URL,
				"content":    content,
				"more":       more,
				"totalChars": len(res.Content),
				"versionId":  res.ID,
				"sequence":   res.Sequence,
				"mimeType":   res.MimeType,
				"strategy":   res.Strategy,
				"scrapedAt":  res.ScrapedAt.Format(time.RFC3339),
			}), nil
		},
	}
	return tool
}

// NewListCachedVersions builds the list_cached_versions tool.
func NewListCachedVersions(cache CacheReader) *Tool {
	tool := &Tool{
		Tool: mcp.Tool{
			Name:        ListCachedVersionsName,
			Description: ListCachedVersionsDescription,
			InputSchema: ListCachedVersionsSchema(),
		},
		Execute: func(ctx context.Context, input map[string]any) (*Result, error) {
			rawURL, err := ReadString(input, "url", true)
			if err != nil {
				return ErrorResult(ListCachedVersionsName, err.Error()), nil
			}
			resources, err := cache.FindAll(ctx, rawURL)
			if err != nil {
				return ErrorResultf(ListCachedVersionsName, "cache lookup failed: %v", err), nil
			}
			versions := make([]map[string]any, 0, len(resources))
			for _, r := range resources {
				versions = append(versions, map[string]any{
					"versionId": r.ID,
					"sequence":  r.Sequence,
					"mimeType":  r.MimeType,
					"strategy":  r.Strategy,
					"scrapedAt": r.ScrapedAt.Format(time.RFC3339),
					"chars":     len(r.Content),
					"tookMs":    r.TookMs,
				})
			}
			return JSONResult(map[string]any{
				"url":      rawURL,
				"count":    len(versions),
				"versions": versions,
			}), nil
		},
	}
	return tool
}

// NewListStrategyConfig builds the list_strategy_config tool.
func NewListStrategyConfig(config ConfigAdmin) *Tool {
	tool := &Tool{
		Tool: mcp.Tool{
			Name:        ListStrategyConfigName,
			Description: ListStrategyConfigDescription,
			InputSchema: ListStrategyConfigSchema(),
		},
		Execute: func(ctx context.Context, input map[string]any) (*Result, error) {
			entries, err := config.Load()
			if err != nil {
				return ErrorResultf(ListStrategyConfigName, "failed to load strategy config: %v", err), nil
			}
			items := make([]map[string]any, 0, len(entries))
			for _, e := range entries {
				items = append(items, map[string]any{
					"prefix":    e.Prefix,
					"strategy":  e.Strategy,
					"notes":     e.Notes,
					"createdAt": e.CreatedAt.Format(time.RFC3339),
				})
			}
			return JSONResult(map[string]any{
				"count":   len(items),
				"entries": items,
			}), nil
		},
	}
	return tool
}

// NewDeleteStrategyConfig builds the delete_strategy_config tool.
func NewDeleteStrategyConfig(config ConfigAdmin) *Tool {
	tool := &Tool{
		Tool: mcp.Tool{
			Name:        DeleteStrategyConfigName,
			Description: DeleteStrategyConfigDescription,
			InputSchema: DeleteStrategyConfigSchema(),
		},
		Execute: func(ctx context.Context, input map[string]any) (*Result, error) {
			prefix, err := ReadString(input, "prefix", true)
			if err != nil {
				return ErrorResult(DeleteStrategyConfigName, err.Error()), nil
			}
			if err := config.Delete(prefix); err != nil {
				return ErrorResultf(DeleteStrategyConfigName, "failed to delete entry: %v", err), nil
			}
			return JSONResult(map[string]any{
				"prefix":  prefix,
				"deleted": true,
			}), nil
		},
	}
	return tool
}
