package mcptools

import (
	"context"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opendata-mcp/internal/analysis"
)

func registerListDatasets(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("list_datasets",
		mcp.WithDescription("List dataset identifiers from the open-data catalog, paginated."),
		mcp.WithNumber("limit", mcp.DefaultNumber(50), mcp.Description("Maximum identifiers to return")),
		mcp.WithNumber("offset", mcp.DefaultNumber(0), mcp.Description("Number of identifiers to skip")),
	)
	s.AddTool(tool, h.handleListDatasets)
}

func (h *Handlers) handleListDatasets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := getArgs(req)

	limit, err := a.intOr("limit", 50)
	if err != nil {
		return h.fail("list_datasets", err)
	}
	offset, err := a.intOr("offset", 0)
	if err != nil {
		return h.fail("list_datasets", err)
	}
	if err := positiveInt("limit", limit); err != nil {
		return h.fail("list_datasets", err)
	}
	if err := nonNegativeInt("offset", offset); err != nil {
		return h.fail("list_datasets", err)
	}

	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "list_datasets", "request_id", reqID, "limit", limit, "offset", offset)

	ids, err := h.api.ListPackages(ctx)
	if err != nil {
		return h.fail("list_datasets", err)
	}

	// Client-side pagination over the full id list
	page := []string{}
	if offset < len(ids) {
		end := offset + limit
		if end > len(ids) {
			end = len(ids)
		}
		page = ids[offset:end]
	}

	return h.respond(map[string]interface{}{
		"total":    len(ids),
		"limit":    limit,
		"offset":   offset,
		"datasets": page,
	})
}

func registerSearchDatasets(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("search_datasets",
		mcp.WithDescription("Search the catalog by free text and return dataset summaries."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text search query")),
		mcp.WithNumber("limit", mcp.DefaultNumber(20), mcp.Description("Maximum datasets to return")),
	)
	s.AddTool(tool, h.handleSearchDatasets)
}

func (h *Handlers) handleSearchDatasets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := getArgs(req)

	query, err := a.requireString("query")
	if err != nil {
		return h.fail("search_datasets", err)
	}
	limit, err := a.intOr("limit", 20)
	if err != nil {
		return h.fail("search_datasets", err)
	}
	if err := positiveInt("limit", limit); err != nil {
		return h.fail("search_datasets", err)
	}

	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "search_datasets", "request_id", reqID, "query", query, "limit", limit)

	result, err := h.api.SearchPackages(ctx, query, limit, nil)
	if err != nil {
		return h.fail("search_datasets", err)
	}

	summaries := make([]analysis.PackageSummary, 0, limit)
	for i := range result.Results {
		if len(summaries) == limit {
			break
		}
		summaries = append(summaries, analysis.BuildPackageSummary(&result.Results[i], h.cfg.PortalURL))
	}

	return h.respond(map[string]interface{}{
		"query":   query,
		"count":   result.Count,
		"results": summaries,
	})
}

func registerGetPackage(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("get_package",
		mcp.WithDescription("Fetch one dataset by id, either as a compact summary or the full record."),
		mcp.WithString("packageId", mcp.Required(), mcp.Description("Dataset id or name")),
		mcp.WithBoolean("summary", mcp.DefaultBool(true), mcp.Description("Return the compact summary instead of the full record")),
	)
	s.AddTool(tool, h.handleGetPackage)
}

func (h *Handlers) handleGetPackage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := getArgs(req)

	packageID, err := a.requireString("packageId")
	if err != nil {
		return h.fail("get_package", err)
	}
	summary, err := a.boolOr("summary", true)
	if err != nil {
		return h.fail("get_package", err)
	}

	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "get_package", "request_id", reqID, "package_id", packageID, "summary", summary)

	pkg, err := h.api.GetPackage(ctx, packageID)
	if err != nil {
		return h.fail("get_package", err)
	}

	if !summary {
		return h.respond(pkg)
	}

	resources := make([]analysis.ResourceSummary, 0, len(pkg.Resources))
	for i := range pkg.Resources {
		resources = append(resources, analysis.BuildResourceSummary(&pkg.Resources[i]))
	}

	return h.respond(map[string]interface{}{
		"package":   analysis.BuildPackageSummary(pkg, h.cfg.PortalURL),
		"resources": resources,
	})
}

// relevantDataset is the find_relevant_datasets output item; the score
// is dropped when the caller asked for it to be hidden
type relevantDataset struct {
	analysis.PackageSummary
	UpdateFrequency analysis.Frequency `json:"update_frequency"`
	RelevanceScore  *int               `json:"relevance_score,omitempty"`
}

func registerFindRelevantDatasets(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("find_relevant_datasets",
		mcp.WithDescription("Search the catalog broadly, rank results by relevance to the query, and classify each dataset's update cadence."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query to rank against")),
		mcp.WithNumber("maxResults", mcp.DefaultNumber(10), mcp.Description("Maximum datasets to return")),
		mcp.WithBoolean("includeRelevanceScore", mcp.DefaultBool(true), mcp.Description("Include the numeric relevance score on each result")),
	)
	s.AddTool(tool, h.handleFindRelevantDatasets)
}

func (h *Handlers) handleFindRelevantDatasets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := getArgs(req)

	query, err := a.requireString("query")
	if err != nil {
		return h.fail("find_relevant_datasets", err)
	}
	maxResults, err := a.intOr("maxResults", 10)
	if err != nil {
		return h.fail("find_relevant_datasets", err)
	}
	includeScore, err := a.boolOr("includeRelevanceScore", true)
	if err != nil {
		return h.fail("find_relevant_datasets", err)
	}
	if err := positiveInt("maxResults", maxResults); err != nil {
		return h.fail("find_relevant_datasets", err)
	}

	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "find_relevant_datasets", "request_id", reqID, "query", query, "max_results", maxResults)

	result, err := h.api.SearchPackages(ctx, query, h.cfg.SearchRowCap,
		[]string{"organization", "groups", "tags"})
	if err != nil {
		return h.fail("find_relevant_datasets", err)
	}

	ranked := h.scorer.Rank(result.Results, query)
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	datasets := make([]relevantDataset, 0, len(ranked))
	for i := range ranked {
		entry := relevantDataset{
			PackageSummary:  analysis.BuildPackageSummary(&ranked[i].Package, h.cfg.PortalURL),
			UpdateFrequency: h.classifier.Classify(&ranked[i].Package),
		}
		if includeScore {
			score := ranked[i].Score
			entry.RelevanceScore = &score
		}
		datasets = append(datasets, entry)
	}

	payload := map[string]interface{}{
		"query":   query,
		"count":   len(datasets),
		"results": datasets,
	}
	// Facet counts were requested from the catalog; pass them through
	if len(result.Facets) > 0 {
		payload["facets"] = result.Facets
	}

	return h.respond(payload)
}
