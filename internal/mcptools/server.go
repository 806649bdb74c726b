package mcptools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opendata-mcp/internal/analysis"
	"github.com/opendata-mcp/internal/catalog"
	"github.com/opendata-mcp/internal/common/config"
	"github.com/opendata-mcp/internal/common/logger"
)

// Handlers holds the shared collaborators every tool handler composes:
// the catalog API, the scorer/classifier pair, and the catalog config
// for row caps and portal links.
type Handlers struct {
	api        catalog.CatalogAPI
	scorer     *analysis.Scorer
	classifier *analysis.Classifier
	cfg        config.CatalogConfig
	logger     logger.Logger
}

func NewHandlers(
	api catalog.CatalogAPI,
	scorer *analysis.Scorer,
	classifier *analysis.Classifier,
	cfg config.CatalogConfig,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		api:        api,
		scorer:     scorer,
		classifier: classifier,
		cfg:        cfg,
		logger:     log,
	}
}

// NewServer builds the MCP server and registers every catalog tool on it
func NewServer(h *Handlers, cfg config.ServerConfig) *server.MCPServer {
	s := server.NewMCPServer(cfg.Name, cfg.Version, server.WithToolCapabilities(false))

	registerListDatasets(s, h)
	registerSearchDatasets(s, h)
	registerGetPackage(s, h)
	registerGetFirstDatastoreResourceRecords(s, h)
	registerGetResourceRecords(s, h)
	registerFindRelevantDatasets(s, h)
	registerAnalyzeDatasetUpdates(s, h)
	registerAnalyzeDatasetStructure(s, h)
	registerGetDataCategories(s, h)
	registerGetDatasetInsights(s, h)

	return s
}

// respond serializes a successful payload into a text result
func (h *Handlers) respond(payload interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return h.fail("", fmt.Errorf("encoding response: %w", err))
	}
	return mcp.NewToolResultText(string(data)), nil
}

// fail converts any error into a structured {error: message} payload.
// The transport layer never sees an uncaught fault from the handlers.
func (h *Handlers) fail(tool string, err error) (*mcp.CallToolResult, error) {
	if tool != "" {
		h.logger.Error("Tool invocation failed", "tool", tool, "error", err)
	}
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return mcp.NewToolResultText(string(data)), nil
}
