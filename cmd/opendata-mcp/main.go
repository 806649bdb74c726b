package main

import (
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opendata-mcp/internal/analysis"
	"github.com/opendata-mcp/internal/catalog"
	"github.com/opendata-mcp/internal/common/config"
	"github.com/opendata-mcp/internal/common/logger"
	"github.com/opendata-mcp/internal/mcptools"
)

func main() {
	// Load .env file if present; a deployed server runs on real env vars
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger. Console output goes to stderr; stdout belongs
	// to the MCP stream.
	loggerConfig := logger.LoggerConfig{
		Level:           logger.ParseLogLevel(cfg.Logging.Level),
		Console:         true,
		File:            true,
		FilePath:        cfg.Logging.FilePath,
		MaxSizeMB:       10,
		MaxBackups:      5,
		MaxAgeDays:      30,
		Compress:        true,
		TimeFieldFormat: "2006-01-02T15:04:05Z07:00",
		DiscordURL:      cfg.Logging.DiscordURL,
	}
	logger.InitLogger(loggerConfig)

	log := logger.NewFromConfig(loggerConfig)

	log.Info("Open Data MCP server starting",
		"version", cfg.Server.Version,
		"log_level", cfg.Logging.Level,
		"catalog_url", cfg.Catalog.BaseURL,
	)

	// Wire the catalog client and the analysis components
	client := catalog.New(cfg.Catalog, log)
	scorer := analysis.NewScorer(analysis.DefaultScoringConfig())
	classifier := analysis.NewClassifier(analysis.DefaultFrequencyConfig())

	handlers := mcptools.NewHandlers(client, scorer, classifier, cfg.Catalog, log)
	mcpServer := mcptools.NewServer(handlers, cfg.Server)

	// ServeStdio blocks until the host closes the stream or a signal
	// arrives; it handles SIGINT/SIGTERM itself.
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatal("MCP server stopped with error", "error", err)
	}

	log.Info("Open Data MCP server stopped")
}
