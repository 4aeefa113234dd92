package scrape

import (
	"os"
	"strings"
)

// ConfigFromEnv builds a scrape config from environment variables.
func ConfigFromEnv() *Config {
	cfg := (&Config{}).WithDefaults()

	if mode := strings.TrimSpace(os.Getenv("SCRAPNEL_MODE")); mode != "" {
		cfg.Mode = Mode(mode)
	}

	cfg.Native.UserAgent = envOr(cfg.Native.UserAgent, os.Getenv("SCRAPNEL_NATIVE_USER_AGENT"))

	cfg.Managed.BaseURL = envOr(cfg.Managed.BaseURL, os.Getenv("SCRAPNEL_MANAGED_BASE_URL"))
	cfg.Managed.APIKey = envOr(cfg.Managed.APIKey, os.Getenv("SCRAPNEL_MANAGED_API_KEY"))

	cfg.Proxy.BaseURL = envOr(cfg.Proxy.BaseURL, os.Getenv("SCRAPNEL_PROXY_BASE_URL"))
	cfg.Proxy.APIKey = envOr(cfg.Proxy.APIKey, os.Getenv("SCRAPNEL_PROXY_API_KEY"))
	cfg.Proxy.Zone = envOr(cfg.Proxy.Zone, os.Getenv("SCRAPNEL_PROXY_ZONE"))

	return cfg
}

// ApplyEnvDefaults fills empty config fields from environment variables.
func ApplyEnvDefaults(cfg *Config) *Config {
	if cfg == nil {
		return ConfigFromEnv()
	}
	current := cfg.WithDefaults()
	envCfg := ConfigFromEnv()

	if strings.TrimSpace(string(current.Mode)) == "" {
		current.Mode = envCfg.Mode
	}
	if current.Managed.APIKey == "" {
		current.Managed.APIKey = envCfg.Managed.APIKey
	}
	if current.Proxy.APIKey == "" {
		current.Proxy.APIKey = envCfg.Proxy.APIKey
	}
	return current
}

func envOr(existing, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return existing
	}
	return value
}
