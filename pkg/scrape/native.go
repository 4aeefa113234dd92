package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// nativeBackend fetches pages directly with a plain HTTP client and
// extracts content locally. Cheapest option, but easily blocked by
// bot-protected sites.
type nativeBackend struct {
	cfg NativeConfig
}

func newNativeBackend(cfg *Config) Backend {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.Native.Enabled, true) {
		return nil
	}
	return &nativeBackend{cfg: cfg.Native}
}

func (b *nativeBackend) Strategy() Strategy {
	return StrategyNative
}

func (b *nativeBackend) Scrape(ctx context.Context, req Request) (*Page, error) {
	if !isAllowedURL(req.URL) {
		return nil, ErrURLNotAllowed
	}

	timeout := time.Duration(b.cfg.TimeoutSecs) * time.Second
	if req.TimeoutMs > 0 {
		timeout = time.Duration(req.TimeoutMs) * time.Millisecond
	}
	client := &http.Client{
		Timeout: timeout,
		CheckRedirect: func(r *http.Request, via []*http.Request) error {
			if len(via) >= b.cfg.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", b.cfg.MaxRedirects)
			}
			return nil
		},
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("User-Agent", b.cfg.UserAgent)
	request.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, resp.Status)
	}

	maxChars := req.MaxChars
	if maxChars <= 0 {
		maxChars = b.cfg.MaxChars
	}
	// Read up to double the char budget so extraction has headroom to
	// drop markup before truncation applies.
	limit := int64(maxChars) * 2
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, err
	}

	return extractPage(body, resp.Header.Get("Content-Type"), req.Format, maxChars)
}
