package mcptools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-mcp/pkg/catalog/models"
)

func TestAnalyzeUpdatesRequiresSelector(t *testing.T) {
	api := newFakeAPI()
	h := newTestHandlers(api)

	res, err := h.handleAnalyzeDatasetUpdates(context.Background(), callReq(map[string]interface{}{}))
	require.NoError(t, err)

	requireErrorPayload(t, res, "either 'query' or 'packageIds'")
	assert.Zero(t, api.searchCalls, "catalog must not be contacted on validation failure")
}

func TestAnalyzeUpdatesRejectsBothSelectors(t *testing.T) {
	api := newFakeAPI()
	h := newTestHandlers(api)

	res, err := h.handleAnalyzeDatasetUpdates(context.Background(), callReq(map[string]interface{}{
		"query":      "parking",
		"packageIds": []interface{}{"p1"},
	}))
	require.NoError(t, err)

	requireErrorPayload(t, res, "mutually exclusive")
	assert.Zero(t, api.searchCalls)
}

func TestAnalyzeUpdatesGroupsByFrequency(t *testing.T) {
	api := newFakeAPI()
	api.search = &models.SearchResult{
		Count: 3,
		Results: []models.Package{
			{ID: "p1", Title: "Parking Tickets", RefreshRate: "Daily"},
			{ID: "p2", Title: "Green P Parking", RefreshRate: "daily"},
			{ID: "p3", Title: "Ward Profiles", RefreshRate: "Annually"},
		},
	}
	h := newTestHandlers(api)

	res, err := h.handleAnalyzeDatasetUpdates(context.Background(), callReq(map[string]interface{}{
		"query": "parking",
	}))
	require.NoError(t, err)

	payload := decodeResult(t, res)
	assert.Equal(t, float64(3), payload["total"])
	groups := payload["groups"].(map[string]interface{})

	daily := groups["daily"].(map[string]interface{})
	assert.Equal(t, float64(2), daily["count"])
	require.Len(t, daily["datasets"].([]interface{}), 2)

	annually := groups["annually"].(map[string]interface{})
	assert.Equal(t, float64(1), annually["count"])

	_, present := payload["failed"]
	assert.False(t, present, "no failed entries when every dataset resolves")
}

func TestAnalyzeUpdatesFlatList(t *testing.T) {
	api := newFakeAPI()
	api.search = &models.SearchResult{
		Count:   1,
		Results: []models.Package{{ID: "p1", Title: "Parking Tickets", RefreshRate: "Monthly"}},
	}
	h := newTestHandlers(api)

	res, err := h.handleAnalyzeDatasetUpdates(context.Background(), callReq(map[string]interface{}{
		"query":            "parking",
		"groupByFrequency": false,
	}))
	require.NoError(t, err)

	payload := decodeResult(t, res)
	datasets := payload["datasets"].([]interface{})
	require.Len(t, datasets, 1)
	entry := datasets[0].(map[string]interface{})
	assert.Equal(t, "monthly", entry["update_frequency"])
	assert.Equal(t, "Monthly", entry["refresh_rate"])
	_, present := payload["groups"]
	assert.False(t, present)
}

func TestAnalyzeUpdatesByIDsDegradesFailures(t *testing.T) {
	api := newFakeAPI()
	api.packages["p1"] = &models.Package{ID: "p1", Title: "Parking Tickets", RefreshRate: "Daily"}
	api.packages["p3"] = &models.Package{ID: "p3", Title: "Ward Profiles", RefreshRate: "Annually"}
	h := newTestHandlers(api)

	res, err := h.handleAnalyzeDatasetUpdates(context.Background(), callReq(map[string]interface{}{
		"packageIds":       []interface{}{"p1", "missing", "p3"},
		"groupByFrequency": false,
	}))
	require.NoError(t, err)

	payload := decodeResult(t, res)
	assert.Equal(t, float64(2), payload["total"])

	datasets := payload["datasets"].([]interface{})
	require.Len(t, datasets, 2)
	// Successful fetches keep request order around the gap
	assert.Equal(t, "p1", datasets[0].(map[string]interface{})["id"])
	assert.Equal(t, "p3", datasets[1].(map[string]interface{})["id"])

	failed := payload["failed"].([]interface{})
	require.Len(t, failed, 1)
	entry := failed[0].(map[string]interface{})
	assert.Equal(t, "missing", entry["id"])
	assert.Contains(t, entry["error"], "not found")
}

func TestAnalyzeStructureAggregates(t *testing.T) {
	api := newFakeAPI()
	api.packages["p1"] = &models.Package{
		ID:    "p1",
		Name:  "parking-tickets",
		Title: "Parking Tickets",
		Resources: []models.Resource{
			{ID: "r1", Name: "tickets", Format: "CSV", DatastoreActive: true},
			{ID: "r2", Name: "readme", Format: "PDF", DatastoreActive: false},
			{ID: "r3", Name: "archive", Format: "CSV", DatastoreActive: true},
		},
	}
	api.probes["r1"] = &models.DatastoreInfo{
		Total:  120,
		Fields: []models.DatastoreField{{ID: "ticket_id", Type: "int"}},
	}
	api.probes["r3"] = &models.DatastoreInfo{Total: 80}
	h := newTestHandlers(api)

	res, err := h.handleAnalyzeDatasetStructure(context.Background(), callReq(map[string]interface{}{
		"packageId": "p1",
	}))
	require.NoError(t, err)

	payload := decodeResult(t, res)
	summary := payload["resource_summary"].(map[string]interface{})
	assert.Equal(t, float64(3), summary["total_resources"])
	assert.Equal(t, float64(2), summary["datastore_active"])
	assert.Equal(t, float64(200), summary["total_records"])
	assert.Equal(t, []interface{}{"CSV", "PDF"}, summary["formats"])

	// Static resources are never probed
	assert.ElementsMatch(t, []string{"r1", "r3"}, api.probeCalls)
	assert.Empty(t, api.recordCalls, "no preview requested")
}

func TestAnalyzeStructureProbeFailureDegrades(t *testing.T) {
	api := newFakeAPI()
	api.packages["p1"] = &models.Package{
		ID: "p1",
		Resources: []models.Resource{
			{ID: "r1", Name: "tickets", Format: "CSV", DatastoreActive: true},
		},
	}
	api.probeErr["r1"] = assert.AnError
	h := newTestHandlers(api)

	res, err := h.handleAnalyzeDatasetStructure(context.Background(), callReq(map[string]interface{}{
		"packageId": "p1",
	}))
	require.NoError(t, err, "a failed probe must not fail the request")

	payload := decodeResult(t, res)
	resources := payload["resources"].([]interface{})
	require.Len(t, resources, 1)
	entry := resources[0].(map[string]interface{})
	assert.Equal(t, false, entry["datastore_active"])
	_, present := entry["record_count"]
	assert.False(t, present)

	summary := payload["resource_summary"].(map[string]interface{})
	assert.Equal(t, float64(0), summary["datastore_active"])
}

func TestAnalyzeStructurePreviewLimitOnlyCheckedWhenPreviewing(t *testing.T) {
	api := newFakeAPI()
	api.packages["p1"] = &models.Package{
		ID:        "p1",
		Resources: []models.Resource{{ID: "r1", Format: "CSV", DatastoreActive: false}},
	}
	h := newTestHandlers(api)

	// An unused previewLimit must not be rejected
	res, err := h.handleAnalyzeDatasetStructure(context.Background(), callReq(map[string]interface{}{
		"packageId":          "p1",
		"includeDataPreview": false,
		"previewLimit":       float64(0),
	}))
	require.NoError(t, err)
	payload := decodeResult(t, res)
	_, failed := payload["error"]
	assert.False(t, failed, "previewLimit is ignored without a preview")

	res, err = h.handleAnalyzeDatasetStructure(context.Background(), callReq(map[string]interface{}{
		"packageId":          "p1",
		"includeDataPreview": true,
		"previewLimit":       float64(0),
	}))
	require.NoError(t, err)
	requireErrorPayload(t, res, "'previewLimit'")
}

func TestAnalyzeStructureIncludesPreview(t *testing.T) {
	api := newFakeAPI()
	api.packages["p1"] = &models.Package{
		ID: "p1",
		Resources: []models.Resource{
			{ID: "r1", Name: "tickets", Format: "CSV", DatastoreActive: true},
		},
	}
	api.probes["r1"] = &models.DatastoreInfo{Total: 10}
	api.records["r1"] = &models.DatastoreInfo{
		Total:   10,
		Records: []map[string]interface{}{{"ticket_id": float64(1)}, {"ticket_id": float64(2)}},
	}
	h := newTestHandlers(api)

	res, err := h.handleAnalyzeDatasetStructure(context.Background(), callReq(map[string]interface{}{
		"packageId":          "p1",
		"includeDataPreview": true,
		"previewLimit":       float64(2),
	}))
	require.NoError(t, err)

	payload := decodeResult(t, res)
	entry := payload["resources"].([]interface{})[0].(map[string]interface{})
	sample := entry["sample_records"].([]interface{})
	require.Len(t, sample, 2)
	assert.Equal(t, []string{"r1"}, api.recordCalls)
}
