package mcptools

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/opendata-mcp/internal/analysis"
	"github.com/opendata-mcp/pkg/catalog/models"
)

func registerGetDataCategories(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("get_data_categories",
		mcp.WithDescription("List the catalog's publishing organizations and thematic groups."),
	)
	s.AddTool(tool, h.handleGetDataCategories)
}

func (h *Handlers) handleGetDataCategories(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "get_data_categories", "request_id", reqID)

	// Organizations and groups are independent lookups; fetch both at once
	var (
		wg        sync.WaitGroup
		orgs      []models.Organization
		groups    []models.Group
		orgsErr   error
		groupsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		orgs, orgsErr = h.api.ListOrganizations(ctx)
	}()
	go func() {
		defer wg.Done()
		groups, groupsErr = h.api.ListGroups(ctx)
	}()
	wg.Wait()

	if orgsErr != nil {
		return h.fail("get_data_categories", orgsErr)
	}
	if groupsErr != nil {
		return h.fail("get_data_categories", groupsErr)
	}

	return h.respond(map[string]interface{}{
		"organizations": orgs,
		"groups":        groups,
	})
}

// insightStructure summarizes the first datastore-active resource of a
// dataset; Available is false when the probe failed or no resource is
// datastore-active
type insightStructure struct {
	Available   bool                    `json:"available"`
	ResourceID  string                  `json:"resource_id,omitempty"`
	RecordCount *int                    `json:"record_count,omitempty"`
	Fields      []models.DatastoreField `json:"fields,omitempty"`
}

type insightDataset struct {
	analysis.PackageSummary
	RelevanceScore  int                 `json:"relevance_score"`
	UpdateFrequency *analysis.Frequency `json:"update_frequency,omitempty"`
	Structure       *insightStructure   `json:"structure,omitempty"`
}

func registerGetDatasetInsights(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("get_dataset_insights",
		mcp.WithDescription("Compose a ranked overview of the datasets matching a query: summaries, update cadence, structure of the primary resource, and follow-up query suggestions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text query to analyze")),
		mcp.WithBoolean("includeUpdateFrequency", mcp.DefaultBool(true), mcp.Description("Classify each dataset's update cadence")),
		mcp.WithBoolean("includeDataStructure", mcp.DefaultBool(true), mcp.Description("Probe the first datastore-active resource of each dataset")),
		mcp.WithNumber("maxDatasets", mcp.DefaultNumber(5), mcp.Description("Maximum datasets to analyze")),
	)
	s.AddTool(tool, h.handleGetDatasetInsights)
}

func (h *Handlers) handleGetDatasetInsights(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := getArgs(req)

	query, err := a.requireString("query")
	if err != nil {
		return h.fail("get_dataset_insights", err)
	}
	includeFrequency, err := a.boolOr("includeUpdateFrequency", true)
	if err != nil {
		return h.fail("get_dataset_insights", err)
	}
	includeStructure, err := a.boolOr("includeDataStructure", true)
	if err != nil {
		return h.fail("get_dataset_insights", err)
	}
	maxDatasets, err := a.intOr("maxDatasets", 5)
	if err != nil {
		return h.fail("get_dataset_insights", err)
	}
	if err := positiveInt("maxDatasets", maxDatasets); err != nil {
		return h.fail("get_dataset_insights", err)
	}

	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "get_dataset_insights", "request_id", reqID, "query", query, "max_datasets", maxDatasets)

	result, err := h.api.SearchPackages(ctx, query, h.cfg.SearchRowCap, nil)
	if err != nil {
		return h.fail("get_dataset_insights", err)
	}

	ranked := h.scorer.Rank(result.Results, query)
	if len(ranked) > maxDatasets {
		ranked = ranked[:maxDatasets]
	}

	// Per-dataset enrichment probes are independent; fan out
	datasets := make([]insightDataset, len(ranked))
	var wg sync.WaitGroup
	for i := range ranked {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pkg := &ranked[i].Package
			entry := insightDataset{
				PackageSummary: analysis.BuildPackageSummary(pkg, h.cfg.PortalURL),
				RelevanceScore: ranked[i].Score,
			}
			if includeFrequency {
				freq := h.classifier.Classify(pkg)
				entry.UpdateFrequency = &freq
			}
			if includeStructure {
				entry.Structure = h.probeFirstActiveResource(ctx, pkg)
			}
			datasets[i] = entry
		}(i)
	}
	wg.Wait()

	return h.respond(map[string]interface{}{
		"query":             query,
		"count":             len(datasets),
		"datasets":          datasets,
		"query_suggestions": buildQuerySuggestions(ranked),
	})
}

// probeFirstActiveResource probes the first datastore-active resource of
// a package. Probe failures degrade to available=false.
func (h *Handlers) probeFirstActiveResource(ctx context.Context, pkg *models.Package) *insightStructure {
	for i := range pkg.Resources {
		if !pkg.Resources[i].DatastoreActive {
			continue
		}
		resourceID := pkg.Resources[i].ID
		info, err := h.api.ProbeResource(ctx, resourceID)
		if err != nil {
			h.logger.Warn("Insight probe failed", "resource_id", resourceID, "error", err)
			return &insightStructure{Available: false, ResourceID: resourceID}
		}
		total := info.Total
		return &insightStructure{
			Available:   true,
			ResourceID:  resourceID,
			RecordCount: &total,
			Fields:      info.Fields,
		}
	}
	return &insightStructure{Available: false}
}

// buildQuerySuggestions derives follow-up search terms from the retained
// datasets: every distinct organization plus the ten most common tags.
func buildQuerySuggestions(ranked []analysis.ScoredPackage) map[string][]string {
	orgSet := make(map[string]struct{})
	orgs := []string{}
	tagCounts := make(map[string]int)

	for i := range ranked {
		pkg := &ranked[i].Package
		if pkg.Organization != nil && pkg.Organization.Title != "" {
			if _, seen := orgSet[pkg.Organization.Title]; !seen {
				orgSet[pkg.Organization.Title] = struct{}{}
				orgs = append(orgs, pkg.Organization.Title)
			}
		}
		for _, tag := range pkg.Tags {
			if tag.Name != "" {
				tagCounts[tag.Name]++
			}
		}
	}

	tags := make([]string, 0, len(tagCounts))
	for tag := range tagCounts {
		tags = append(tags, tag)
	}
	// Most common first; alphabetical between equals for determinism
	sort.Slice(tags, func(i, j int) bool {
		if tagCounts[tags[i]] != tagCounts[tags[j]] {
			return tagCounts[tags[i]] > tagCounts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > 10 {
		tags = tags[:10]
	}

	return map[string][]string{
		"organizations": orgs,
		"tags":          tags,
	}
}
