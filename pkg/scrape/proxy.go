package scrape

import (
	"context"
	"strings"
)

// proxyBackend routes the request through a residential-proxy unlocker
// API. Most expensive option; the service returns the raw page body.
type proxyBackend struct {
	cfg ProxyConfig
}

func newProxyBackend(cfg *Config) Backend {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.Proxy.Enabled, true) {
		return nil
	}
	if strings.TrimSpace(cfg.Proxy.APIKey) == "" {
		return nil
	}
	return &proxyBackend{cfg: cfg.Proxy}
}

func (b *proxyBackend) Strategy() Strategy {
	return StrategyProxy
}

func (b *proxyBackend) Scrape(ctx context.Context, req Request) (*Page, error) {
	endpoint := strings.TrimRight(b.cfg.BaseURL, "/") + "/request"
	payload := map[string]any{
		"zone":   b.cfg.Zone,
		"url":    req.URL,
		"format": "raw",
	}

	body, contentType, err := postRaw(ctx, endpoint, map[string]string{
		"Authorization": "Bearer " + b.cfg.APIKey,
	}, payload, b.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "text/html"
	}

	maxChars := req.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	// The unlocker hands back the upstream body verbatim, so the same
	// local extraction as the native backend applies.
	return extractPage(body, contentType, req.Format, maxChars)
}
