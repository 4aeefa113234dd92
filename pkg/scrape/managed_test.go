package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func managedTestBackend(baseURL string) *managedBackend {
	cfg := (&Config{Managed: ManagedConfig{BaseURL: baseURL, APIKey: "test-key"}}).WithDefaults()
	return &managedBackend{cfg: cfg.Managed}
}

func TestManagedScrapePrefersMarkdown(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/scrape" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Fatalf("missing auth header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Hello","html":"<h1>Hello</h1>","metadata":{"title":"Hello","statusCode":200}}}`))
	}))
	defer server.Close()

	page, err := managedTestBackend(server.URL).Scrape(context.Background(), Request{URL: "https://example.com", Format: FormatMarkdown})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Content != "# Hello" || page.MimeType != "text/markdown" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Title != "Hello" {
		t.Fatalf("unexpected title: %q", page.Title)
	}
	if gotBody["url"] != "https://example.com" {
		t.Fatalf("unexpected payload: %#v", gotBody)
	}
}

func TestManagedScrapeHTMLFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"# Hello","html":"<h1>Hello</h1>","metadata":{"title":"Hello"}}}`))
	}))
	defer server.Close()

	page, err := managedTestBackend(server.URL).Scrape(context.Background(), Request{URL: "https://example.com", Format: FormatHTML})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Content != "<h1>Hello</h1>" || page.MimeType != "text/html" {
		t.Fatalf("expected html normalization, got %+v", page)
	}
}

func TestManagedScrapeFallsBackToHTMLWhenMarkdownEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"data":{"markdown":"","html":"<p>rendered</p>","metadata":{}}}`))
	}))
	defer server.Close()

	page, err := managedTestBackend(server.URL).Scrape(context.Background(), Request{URL: "https://example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Content != "<p>rendered</p>" || page.MimeType != "text/html" {
		t.Fatalf("expected html fallback, got %+v", page)
	}
}

func TestManagedScrapeReportsServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"This website is not supported"}`))
	}))
	defer server.Close()

	_, err := managedTestBackend(server.URL).Scrape(context.Background(), Request{URL: "https://example.com"})
	if err == nil || !strings.Contains(err.Error(), "not supported") {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestManagedScrapeReportsHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment required", http.StatusPaymentRequired)
	}))
	defer server.Close()

	_, err := managedTestBackend(server.URL).Scrape(context.Background(), Request{URL: "https://example.com"})
	if err == nil || !strings.Contains(err.Error(), "402") {
		t.Fatalf("expected http 402 error, got %v", err)
	}
}

func TestManagedBackendAbsentWithoutAPIKey(t *testing.T) {
	cfg := (&Config{}).WithDefaults()
	if b := newManagedBackend(cfg); b != nil {
		t.Fatalf("managed backend should be absent without an api key")
	}
	cfg.Managed.APIKey = "key"
	if b := newManagedBackend(cfg); b == nil {
		t.Fatalf("managed backend should exist with an api key")
	}
}
