package mcptools

// Tool names, descriptions and JSON schemas shared by registration and
// tests.

const (
	ScrapeURLName        = "scrape_url"
	ScrapeURLDescription = "Retrieve the content of a web page. Picks the best scraping backend automatically, falls back on failure, and serves cached content for repeat requests unless force_refresh is set."

	ReadCachedName        = "read_cached"
	ReadCachedDescription = "Read previously scraped content for a URL from the local cache without hitting the network. Supports windowed reads of large documents."

	ListCachedVersionsName        = "list_cached_versions"
	ListCachedVersionsDescription = "List the cached version history for a URL (newest first) with metadata only."

	ListStrategyConfigName        = "list_strategy_config"
	ListStrategyConfigDescription = "List the learned URL-prefix to scraping-strategy routing entries."

	DeleteStrategyConfigName        = "delete_strategy_config"
	DeleteStrategyConfigDescription = "Delete a learned routing entry by its exact prefix, forcing future requests for matching URLs back onto the fallback sequence."
)

// ScrapeURLSchema returns the JSON schema for the scrape_url tool.
func ScrapeURLSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "Absolute http(s) URL to retrieve",
			},
			"format": map[string]any{
				"type":        "string",
				"enum":        []string{"markdown", "html", "text"},
				"description": "Output format (default markdown)",
			},
			"strategy": map[string]any{
				"type":        "string",
				"enum":        []string{"native", "managed", "proxy"},
				"description": "Force a specific backend instead of automatic resolution",
			},
			"force_refresh": map[string]any{
				"type":        "boolean",
				"description": "Skip the cache and scrape fresh content",
			},
			"timeout_ms": map[string]any{
				"type":        "integer",
				"description": "Per-attempt timeout in milliseconds",
			},
			"start_index": map[string]any{
				"type":        "integer",
				"description": "Character offset into the content for windowed reads",
			},
			"max_chars": map[string]any{
				"type":        "integer",
				"description": "Maximum characters to return",
			},
		},
		"required": []string{"url"},
	}
}

// ReadCachedSchema returns the JSON schema for the read_cached tool.
func ReadCachedSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL whose cached content to read",
			},
			"version": map[string]any{
				"type":        "string",
				"description": "Specific version id (default: latest)",
			},
			"start_index": map[string]any{
				"type":        "integer",
				"description": "Character offset into the content",
			},
			"max_chars": map[string]any{
				"type":        "integer",
				"description": "Maximum characters to return",
			},
		},
		"required": []string{"url"},
	}
}

// ListCachedVersionsSchema returns the JSON schema for list_cached_versions.
func ListCachedVersionsSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "URL whose version history to list",
			},
		},
		"required": []string{"url"},
	}
}

// ListStrategyConfigSchema returns the JSON schema for list_strategy_config.
func ListStrategyConfigSchema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}

// DeleteStrategyConfigSchema returns the JSON schema for delete_strategy_config.
func DeleteStrategyConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prefix": map[string]any{
				"type":        "string",
				"description": "Exact prefix of the entry to delete",
			},
		},
		"required": []string{"prefix"},
	}
}
