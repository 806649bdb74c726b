package catalog

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opendata-mcp/internal/common/config"
	"github.com/opendata-mcp/internal/common/logger"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.CatalogConfig{
		BaseURL:      srv.URL,
		Timeout:      2 * time.Second,
		SearchRowCap: 100,
	}
	return New(cfg, logger.New(io.Discard))
}

func TestGetPackageSuccess(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/package_show", r.URL.Path)
		assert.Equal(t, "parking-tickets", r.URL.Query().Get("id"))
		w.Write([]byte(`{
			"help": "",
			"success": true,
			"result": {
				"id": "abc-123",
				"name": "parking-tickets",
				"title": "Parking Tickets",
				"metadata_modified": "2025-06-01T08:30:00.123456",
				"resources": [
					{"id": "r1", "format": "CSV", "datastore_active": true}
				]
			}
		}`))
	})

	pkg, err := client.GetPackage(context.Background(), "parking-tickets")

	require.NoError(t, err)
	assert.Equal(t, "abc-123", pkg.ID)
	assert.Equal(t, "Parking Tickets", pkg.Title)
	require.Len(t, pkg.Resources, 1)
	assert.True(t, pkg.Resources[0].DatastoreActive)
	assert.Equal(t, time.Date(2025, 6, 1, 8, 30, 0, 123456000, time.UTC), pkg.MetadataModified.Time)
}

func TestUpstreamFailureIsCatalogError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"help": "",
			"success": false,
			"error": {"message": "Not found", "__type": "Not Found Error"}
		}`))
	})

	_, err := client.GetPackage(context.Background(), "missing")

	require.Error(t, err)
	var catErr *CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Contains(t, catErr.Message, "Not found")
	assert.Equal(t, "package_show", catErr.Action)
}

func TestHTTPErrorStatusIsCatalogError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := client.ListPackages(context.Background())

	var catErr *CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Equal(t, http.StatusBadGateway, catErr.StatusCode)
}

func TestUnreachableCatalogIsUnavailableError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	cfg := config.CatalogConfig{BaseURL: srv.URL, Timeout: time.Second, SearchRowCap: 100}
	client := New(cfg, logger.New(io.Discard))

	_, err := client.ListPackages(context.Background())

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Contains(t, unavailable.Error(), "may be retried")
}

func TestTimeoutIsUnavailableError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success": true, "result": []}`))
	})
	client.client.Timeout = 20 * time.Millisecond

	_, err := client.ListPackages(context.Background())

	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
}

func TestSearchPackagesSendsFacets(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/package_search", r.URL.Path)
		assert.Equal(t, "parking", r.URL.Query().Get("q"))
		assert.Equal(t, "100", r.URL.Query().Get("rows"))
		assert.Equal(t, "true", r.URL.Query().Get("facet"))
		assert.Equal(t, `["organization","groups","tags"]`, r.URL.Query().Get("facet.field"))
		w.Write([]byte(`{
			"success": true,
			"result": {"count": 1, "results": [{"id": "abc", "title": "Parking"}]}
		}`))
	})

	result, err := client.SearchPackages(context.Background(), "parking", 100,
		[]string{"organization", "groups", "tags"})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Count)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Parking", result.Results[0].Title)
}

func TestListPackages(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/package_list", r.URL.Path)
		w.Write([]byte(`{"success": true, "result": ["a", "b", "c"]}`))
	})

	ids, err := client.ListPackages(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)
}

func TestProbeResourceRequestsZeroRows(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/datastore_search", r.URL.Path)
		assert.Equal(t, "r1", r.URL.Query().Get("resource_id"))
		assert.Equal(t, "0", r.URL.Query().Get("limit"))
		w.Write([]byte(`{
			"success": true,
			"result": {
				"total": 5421,
				"fields": [{"id": "ticket_id", "type": "int"}],
				"records": []
			}
		}`))
	})

	info, err := client.ProbeResource(context.Background(), "r1")

	require.NoError(t, err)
	assert.Equal(t, 5421, info.Total)
	require.Len(t, info.Fields, 1)
	assert.Equal(t, "ticket_id", info.Fields[0].ID)
	assert.Empty(t, info.Records)
}

func TestGetResourceRecordsPassesPaging(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("limit"))
		assert.Equal(t, "14", r.URL.Query().Get("offset"))
		w.Write([]byte(`{
			"success": true,
			"result": {"total": 100, "fields": [], "records": [{"ticket_id": 1}]}
		}`))
	})

	info, err := client.GetResourceRecords(context.Background(), "r1", 7, 14)

	require.NoError(t, err)
	require.Len(t, info.Records, 1)
}

func TestListOrganizationsAndGroups(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "true", r.URL.Query().Get("all_fields"))
		switch r.URL.Path {
		case "/organization_list":
			w.Write([]byte(`{"success": true, "result": [
				{"id": "o1", "name": "transportation", "title": "Transportation", "package_count": 12}
			]}`))
		case "/group_list":
			w.Write([]byte(`{"success": true, "result": [
				{"id": "g1", "name": "mobility", "title": "Mobility", "package_count": 4}
			]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	orgs, err := client.ListOrganizations(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, 12, orgs[0].PackageCount)

	groups, err := client.ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Mobility", groups[0].Title)
}
