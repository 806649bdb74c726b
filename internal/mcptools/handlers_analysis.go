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

// datasetUpdate is one classified dataset in the updates analysis
type datasetUpdate struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	RefreshRate     string             `json:"refresh_rate,omitempty"`
	UpdateFrequency analysis.Frequency `json:"update_frequency"`
}

// failedFetch marks a package that could not be analyzed; it degrades
// the entry instead of failing the whole request
type failedFetch struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// frequencyBucket groups classified datasets under one cadence category
type frequencyBucket struct {
	Count    int                 `json:"count"`
	Datasets []map[string]string `json:"datasets"`
}

func registerAnalyzeDatasetUpdates(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("analyze_dataset_updates",
		mcp.WithDescription("Classify the update cadence of datasets, selected either by explicit ids or by a search query. Exactly one of the two must be given."),
		mcp.WithString("query", mcp.Description("Free-text query selecting datasets to analyze")),
		mcp.WithArray("packageIds", mcp.Description("Explicit dataset ids to analyze"),
			mcp.Items(map[string]interface{}{"type": "string"})),
		mcp.WithBoolean("groupByFrequency", mcp.DefaultBool(true), mcp.Description("Bucket results by cadence category")),
	)
	s.AddTool(tool, h.handleAnalyzeDatasetUpdates)
}

func (h *Handlers) handleAnalyzeDatasetUpdates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := getArgs(req)

	query, err := a.optionalString("query")
	if err != nil {
		return h.fail("analyze_dataset_updates", err)
	}
	packageIDs, err := a.stringSlice("packageIds")
	if err != nil {
		return h.fail("analyze_dataset_updates", err)
	}
	groupByFrequency, err := a.boolOr("groupByFrequency", true)
	if err != nil {
		return h.fail("analyze_dataset_updates", err)
	}

	if query == "" && len(packageIDs) == 0 {
		return h.fail("analyze_dataset_updates",
			validationErrorf("either 'query' or 'packageIds' must be provided"))
	}
	if query != "" && len(packageIDs) > 0 {
		return h.fail("analyze_dataset_updates",
			validationErrorf("'query' and 'packageIds' are mutually exclusive"))
	}

	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "analyze_dataset_updates", "request_id", reqID, "query", query, "package_count", len(packageIDs))

	var pkgs []models.Package
	var failed []failedFetch

	if query != "" {
		result, err := h.api.SearchPackages(ctx, query, h.cfg.SearchRowCap, nil)
		if err != nil {
			return h.fail("analyze_dataset_updates", err)
		}
		pkgs = result.Results
	} else {
		pkgs, failed = h.fetchPackages(ctx, packageIDs)
	}

	entries := make([]datasetUpdate, 0, len(pkgs))
	for i := range pkgs {
		entries = append(entries, datasetUpdate{
			ID:              pkgs[i].ID,
			Title:           pkgs[i].Title,
			RefreshRate:     pkgs[i].RefreshRate,
			UpdateFrequency: h.classifier.Classify(&pkgs[i]),
		})
	}

	payload := map[string]interface{}{
		"total": len(entries),
	}
	if len(failed) > 0 {
		payload["failed"] = failed
	}

	if !groupByFrequency {
		payload["datasets"] = entries
		return h.respond(payload)
	}

	groups := make(map[analysis.Frequency]*frequencyBucket)
	for _, entry := range entries {
		b, ok := groups[entry.UpdateFrequency]
		if !ok {
			b = &frequencyBucket{}
			groups[entry.UpdateFrequency] = b
		}
		b.Count++
		b.Datasets = append(b.Datasets, map[string]string{
			"id":    entry.ID,
			"title": entry.Title,
		})
	}
	payload["groups"] = groups

	return h.respond(payload)
}

// fetchPackages fans out one GetPackage call per id and collects the
// results in request order. A failed fetch degrades to a failed entry
// instead of aborting the analysis.
func (h *Handlers) fetchPackages(ctx context.Context, ids []string) ([]models.Package, []failedFetch) {
	results := make([]*models.Package, len(ids))
	errs := make([]error, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i], errs[i] = h.api.GetPackage(ctx, id)
		}(i, id)
	}
	wg.Wait()

	pkgs := make([]models.Package, 0, len(ids))
	var failed []failedFetch
	for i, id := range ids {
		if errs[i] != nil {
			h.logger.Warn("Package fetch failed during analysis", "package_id", id, "error", errs[i])
			failed = append(failed, failedFetch{ID: id, Error: errs[i].Error()})
			continue
		}
		pkgs = append(pkgs, *results[i])
	}
	return pkgs, failed
}

func registerAnalyzeDatasetStructure(s *server.MCPServer, h *Handlers) {
	tool := mcp.NewTool("analyze_dataset_structure",
		mcp.WithDescription("Inspect the structure of every resource in a dataset: formats, fields, record counts, and optionally a small data preview."),
		mcp.WithString("packageId", mcp.Required(), mcp.Description("Dataset id or name")),
		mcp.WithBoolean("includeDataPreview", mcp.DefaultBool(false), mcp.Description("Fetch a sample page of records for datastore-active resources")),
		mcp.WithNumber("previewLimit", mcp.DefaultNumber(5), mcp.Description("Maximum sample records per resource")),
	)
	s.AddTool(tool, h.handleAnalyzeDatasetStructure)
}

func (h *Handlers) handleAnalyzeDatasetStructure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := getArgs(req)

	packageID, err := a.requireString("packageId")
	if err != nil {
		return h.fail("analyze_dataset_structure", err)
	}
	includePreview, err := a.boolOr("includeDataPreview", false)
	if err != nil {
		return h.fail("analyze_dataset_structure", err)
	}
	previewLimit, err := a.intOr("previewLimit", 5)
	if err != nil {
		return h.fail("analyze_dataset_structure", err)
	}
	// previewLimit only matters when a preview was asked for
	if includePreview {
		if err := positiveInt("previewLimit", previewLimit); err != nil {
			return h.fail("analyze_dataset_structure", err)
		}
	}

	reqID := uuid.NewString()
	h.logger.Debug("Tool invoked", "tool", "analyze_dataset_structure", "request_id", reqID, "package_id", packageID, "preview", includePreview)

	pkg, err := h.api.GetPackage(ctx, packageID)
	if err != nil {
		return h.fail("analyze_dataset_structure", err)
	}

	// Independent per-resource probes run concurrently
	resources := make([]analysis.ResourceAnalysis, len(pkg.Resources))
	var wg sync.WaitGroup
	for i := range pkg.Resources {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resources[i] = h.analyzeResource(ctx, &pkg.Resources[i], includePreview, previewLimit)
		}(i)
	}
	wg.Wait()

	activeCount := 0
	totalRecords := 0
	formatSet := make(map[string]struct{})
	for i := range resources {
		if resources[i].DatastoreActive {
			activeCount++
		}
		if resources[i].RecordCount != nil {
			totalRecords += *resources[i].RecordCount
		}
		if resources[i].Format != "" {
			formatSet[resources[i].Format] = struct{}{}
		}
	}
	formats := make([]string, 0, len(formatSet))
	for format := range formatSet {
		formats = append(formats, format)
	}
	sort.Strings(formats)

	return h.respond(map[string]interface{}{
		"package": map[string]string{
			"id":    pkg.ID,
			"name":  pkg.Name,
			"title": pkg.Title,
		},
		"resources": resources,
		"resource_summary": map[string]interface{}{
			"total_resources":  len(resources),
			"datastore_active": activeCount,
			"formats":          formats,
			"total_records":    totalRecords,
		},
	})
}

// analyzeResource probes one resource. A failed probe degrades the
// resource to datastore-inactive rather than failing the caller.
func (h *Handlers) analyzeResource(ctx context.Context, res *models.Resource, includePreview bool, previewLimit int) analysis.ResourceAnalysis {
	ra := analysis.BuildResourceAnalysis(res)
	if !res.DatastoreActive {
		return ra
	}

	info, err := h.api.ProbeResource(ctx, res.ID)
	if err != nil {
		h.logger.Warn("Datastore probe failed, marking resource inactive", "resource_id", res.ID, "error", err)
		ra.DatastoreActive = false
		return ra
	}

	ra.Fields = info.Fields
	total := info.Total
	ra.RecordCount = &total

	if includePreview {
		sample, err := h.api.GetResourceRecords(ctx, res.ID, previewLimit, 0)
		if err != nil {
			h.logger.Warn("Data preview fetch failed", "resource_id", res.ID, "error", err)
		} else {
			ra.SampleRecords = sample.Records
		}
	}

	return ra
}
