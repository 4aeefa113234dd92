package scrape

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	valid := []string{
		"https://example.com",
		"http://example.com/path?q=1",
		"https://sub.example.com:8443/x",
	}
	for _, raw := range valid {
		if err := validateURL(raw); err != nil {
			t.Fatalf("validateURL(%q) = %v, want nil", raw, err)
		}
	}

	invalid := []string{
		"",
		"example.com/no-scheme",
		"ftp://example.com/file",
		"file:///etc/passwd",
		"/relative",
	}
	for _, raw := range invalid {
		err := validateURL(raw)
		if err == nil {
			t.Fatalf("validateURL(%q) = nil, want error", raw)
		}
		if !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("validateURL(%q) = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestIsAllowedURL(t *testing.T) {
	blocked := []string{
		"http://localhost/admin",
		"http://foo.localhost/",
		"http://127.0.0.1:8080/",
		"http://10.1.2.3/",
		"http://172.16.0.1/",
		"http://192.168.1.1/router",
		"http://169.254.169.254/latest/meta-data/",
		"http://[::1]/",
	}
	for _, raw := range blocked {
		if isAllowedURL(raw) {
			t.Fatalf("expected %q to be blocked", raw)
		}
	}

	allowed := []string{
		"https://example.com",
		"http://8.8.8.8/",
		"https://172.15.0.1/",
	}
	for _, raw := range allowed {
		if !isAllowedURL(raw) {
			t.Fatalf("expected %q to be allowed", raw)
		}
	}
}
