package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Catalog CatalogConfig
	Server  ServerConfig
	Logging LoggingConfig
}

// CatalogConfig for the upstream CKAN action API
type CatalogConfig struct {
	BaseURL      string        // action API root, no trailing slash
	PortalURL    string        // public portal root, for dataset page links
	Timeout      time.Duration // per-request HTTP timeout
	SearchRowCap int           // row cap for broad relevance/insight searches
}

// ServerConfig identifies the MCP server to connecting hosts
type ServerConfig struct {
	Name    string
	Version string
}

type LoggingConfig struct {
	Level      string
	FilePath   string
	DiscordURL string // optional webhook for error alerts
}

func Load() (*Config, error) {
	cfg := &Config{
		Catalog: CatalogConfig{
			BaseURL:      getEnv("CATALOG_BASE_URL", "https://ckan0.cf.opendata.inter.prod-toronto.ca/api/3/action"),
			PortalURL:    getEnv("CATALOG_PORTAL_URL", "https://open.toronto.ca"),
			Timeout:      getDurationEnv("CATALOG_TIMEOUT", 30*time.Second),
			SearchRowCap: getIntEnv("CATALOG_SEARCH_ROW_CAP", 100),
		},
		Server: ServerConfig{
			Name:    getEnv("MCP_SERVER_NAME", "opendata-mcp"),
			Version: getEnv("MCP_SERVER_VERSION", "1.0.0"),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			FilePath:   getEnv("LOG_FILE", "opendata-mcp.log"),
			DiscordURL: getEnv("LOG_DISCORD_WEBHOOK", ""),
		},
	}

	if err := cfg.Catalog.Validate(); err != nil {
		return nil, fmt.Errorf("catalog config: %w", err)
	}

	return cfg, nil
}

func (c *CatalogConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	if strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("base URL must not end with a slash: %s", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.SearchRowCap <= 0 {
		return fmt.Errorf("search row cap must be positive, got %d", c.SearchRowCap)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
