package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func proxyTestBackend(baseURL string) *proxyBackend {
	cfg := (&Config{Proxy: ProxyConfig{BaseURL: baseURL, APIKey: "proxy-key", Zone: "unblock_zone"}}).WithDefaults()
	return &proxyBackend{cfg: cfg.Proxy}
}

func TestProxyScrapeExtractsRawBody(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/request" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer proxy-key" {
			t.Fatalf("missing auth header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Proxied</title></head><body><p>through the zone</p></body></html>`))
	}))
	defer server.Close()

	page, err := proxyTestBackend(server.URL).Scrape(context.Background(), Request{URL: "https://example.com", Format: FormatMarkdown})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody["zone"] != "unblock_zone" || gotBody["url"] != "https://example.com" || gotBody["format"] != "raw" {
		t.Fatalf("unexpected payload: %#v", gotBody)
	}
	if page.MimeType != "text/markdown" || !strings.Contains(page.Content, "through the zone") {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Title != "Proxied" {
		t.Fatalf("unexpected title: %q", page.Title)
	}
}

func TestProxyScrapeReportsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "zone suspended", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := proxyTestBackend(server.URL).Scrape(context.Background(), Request{URL: "https://example.com"})
	if err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected http 403 error, got %v", err)
	}
}

func TestProxyBackendAbsentWithoutAPIKey(t *testing.T) {
	cfg := (&Config{}).WithDefaults()
	if b := newProxyBackend(cfg); b != nil {
		t.Fatalf("proxy backend should be absent without an api key")
	}
}

func TestBuildBackendsRespectsConfiguration(t *testing.T) {
	disabled := false
	cfg := &Config{
		Native:  NativeConfig{Enabled: &disabled},
		Managed: ManagedConfig{APIKey: "mk"},
		Proxy:   ProxyConfig{APIKey: "pk"},
	}
	backends := BuildBackends(cfg)
	if backends.Get(StrategyNative) != nil {
		t.Fatalf("native should be absent when disabled")
	}
	if backends.Get(StrategyManaged) == nil || backends.Get(StrategyProxy) == nil {
		t.Fatalf("managed and proxy should be present with keys")
	}

	defaults := BuildBackends(&Config{})
	if defaults.Get(StrategyNative) == nil {
		t.Fatalf("native should be present by default")
	}
	if defaults.Get(StrategyManaged) != nil || defaults.Get(StrategyProxy) != nil {
		t.Fatalf("hosted backends need api keys")
	}
}
