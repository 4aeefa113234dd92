package scrape

import "strings"

const (
	DefaultTimeoutSecs = 30
	DefaultMaxChars    = 50_000
)

// Mode selects the universal fallback ordering.
type Mode string

const (
	// ModeCost tries the cheapest backend first: native, managed, proxy.
	ModeCost Mode = "cost"
	// ModeSpeed skips the native backend entirely and goes straight to
	// the hosted services: managed, proxy.
	ModeSpeed Mode = "speed"
)

// FallbackOrder returns the universal fallback sequence for a mode.
func FallbackOrder(mode Mode) []Strategy {
	if mode == ModeSpeed {
		return []Strategy{StrategyManaged, StrategyProxy}
	}
	return []Strategy{StrategyNative, StrategyManaged, StrategyProxy}
}

// Config controls backend construction and fallback ordering. The mode
// is fixed at construction time; it is never read ambiently per call.
type Config struct {
	Mode Mode `yaml:"mode"`

	Native  NativeConfig  `yaml:"native"`
	Managed ManagedConfig `yaml:"managed"`
	Proxy   ProxyConfig   `yaml:"proxy"`
}

type NativeConfig struct {
	Enabled      *bool  `yaml:"enabled"`
	TimeoutSecs  int    `yaml:"timeout_seconds"`
	UserAgent    string `yaml:"user_agent"`
	MaxChars     int    `yaml:"max_chars"`
	MaxRedirects int    `yaml:"max_redirects"`
}

type ManagedConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

type ProxyConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	Zone        string `yaml:"zone"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if strings.TrimSpace(string(c.Mode)) == "" {
		c.Mode = ModeCost
	}
	c.Native = c.Native.withDefaults()
	c.Managed = c.Managed.withDefaults()
	c.Proxy = c.Proxy.withDefaults()
	return c
}

func (c NativeConfig) withDefaults() NativeConfig {
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_7_2) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"
	}
	if c.MaxChars <= 0 {
		c.MaxChars = DefaultMaxChars
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 3
	}
	return c
}

func (c ManagedConfig) withDefaults() ManagedConfig {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.firescrape.dev"
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	return c
}

func (c ProxyConfig) withDefaults() ProxyConfig {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.resiproxy.io"
	}
	if c.Zone == "" {
		c.Zone = "web_unlocker"
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = 60
	}
	return c
}

func isEnabled(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}
