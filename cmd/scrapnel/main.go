package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"go.mau.fi/util/dbutil"
	"gopkg.in/yaml.v3"

	_ "github.com/mattn/go-sqlite3"

	"github.com/scrapnel/scrapnel/pkg/mcptools"
	"github.com/scrapnel/scrapnel/pkg/resourcecache"
	"github.com/scrapnel/scrapnel/pkg/scrape"
	"github.com/scrapnel/scrapnel/pkg/strategystore"
)

// Information to find out exactly which commit the server was built from.
// These are filled at build time with the -X linker flag.
var (
	Tag       = "unknown"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const serverVersion = "0.1.0"

type serverConfig struct {
	DataDir      string        `yaml:"data_dir"`
	Database     string        `yaml:"database"`
	StrategyFile string        `yaml:"strategy_file"`
	MaxVersions  int           `yaml:"max_versions"`
	LogLevel     string        `yaml:"log_level"`
	Scrape       scrape.Config `yaml:"scrape"`
}

func (c *serverConfig) withDefaults() *serverConfig {
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.Database == "" {
		c.Database = filepath.Join(c.DataDir, "scrapnel.db")
	}
	if c.StrategyFile == "" {
		c.StrategyFile = filepath.Join(c.DataDir, "strategy-config.json")
	}
	if c.MaxVersions == 0 {
		c.MaxVersions = resourcecache.DefaultMaxVersions
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}

func loadConfig(path string) (*serverConfig, error) {
	cfg := &serverConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	cfg.Scrape = *scrape.ApplyEnvDefaults(&cfg.Scrape)
	return cfg.withDefaults(), nil
}

func run() error {
	var configPath string
	var showVersion bool
	flag.StringVar(&configPath, "config", "", "path to YAML config file")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("scrapnel %s (%s, %s, built %s)\n", serverVersion, Tag, Commit, BuildTime)
		return nil
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// stdout carries the MCP stdio transport, so logs go to stderr.
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.StampMilli}).
		Level(level).
		With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	rawDB, err := sql.Open("sqlite3", cfg.Database+"?_txlock=immediate&_busy_timeout=5000")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db, err := dbutil.NewWithDB(rawDB, "sqlite3")
	if err != nil {
		return fmt.Errorf("failed to wrap database: %w", err)
	}
	defer db.Close()

	cache := resourcecache.NewStore(db, log.With().Str("component", "resourcecache").Logger()).
		WithMaxVersions(cfg.MaxVersions)
	if err := cache.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize cache schema: %w", err)
	}

	store := strategystore.NewStore(cfg.StrategyFile, log.With().Str("component", "strategystore").Logger())

	backends := scrape.BuildBackends(&cfg.Scrape)
	if len(backends) == 0 {
		log.Warn().Msg("No scraping backends configured, every scrape will fail")
	}
	orchestrator := scrape.NewOrchestrator(backends, store, cache, &cfg.Scrape,
		log.With().Str("component", "orchestrator").Logger())

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "scrapnel",
		Version: serverVersion,
	}, nil)
	tools := mcptools.All(mcptools.Deps{
		Scraper: orchestrator,
		Cache:   cache,
		Config:  store,
	})
	mcptools.Attach(server, tools, log.With().Str("component", "mcp").Logger())

	log.Info().
		Str("version", serverVersion).
		Str("commit", Commit).
		Str("mode", string(cfg.Scrape.Mode)).
		Int("backends", len(backends)).
		Int("tools", len(tools)).
		Msg("Starting MCP server on stdio")

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("server exited: %w", err)
	}
	log.Info().Msg("Server shut down")
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
