package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/opendata-mcp/internal/common/config"
	"github.com/opendata-mcp/internal/common/logger"
	"github.com/opendata-mcp/pkg/catalog/models"
)

// Client issues action API calls against a CKAN catalog and unwraps the
// {help, success, result, error} envelope.
type Client struct {
	baseURL string
	client  *http.Client
	logger  logger.Logger
}

func New(cfg config.CatalogConfig, log logger.Logger) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: log,
	}
}

// doAction performs <base>/<action>?<params> and decodes the envelope
// result into out. A transport failure maps to *UnavailableError; an
// upstream-reported failure maps to *CatalogError.
func (c *Client) doAction(ctx context.Context, action string, params url.Values, out interface{}) error {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, action)
	if len(params) > 0 {
		endpoint = fmt.Sprintf("%s?%s", endpoint, params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	c.logger.Debug("Calling catalog action", "action", action, "url", endpoint)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Catalog request failed", "action", action, "error", err)
		return &UnavailableError{Action: action, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Catalog returned error status",
			"action", action,
			"status_code", resp.StatusCode,
			"response_body", string(body))
		return &CatalogError{
			Action:     action,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	var envelope models.ActionResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", action, err)
	}

	if !envelope.Success {
		message := "unknown upstream error"
		if envelope.Error != nil && envelope.Error.Message != "" {
			message = envelope.Error.Message
		}
		c.logger.Error("Catalog returned success=false", "action", action, "message", message)
		return &CatalogError{Action: action, Message: message}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("decoding %s result: %w", action, err)
		}
	}

	return nil
}

// GetPackage fetches one dataset with its full resource list
func (c *Client) GetPackage(ctx context.Context, id string) (*models.Package, error) {
	params := url.Values{}
	params.Set("id", id)

	var pkg models.Package
	if err := c.doAction(ctx, "package_show", params, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// SearchPackages runs a free-text search. facetFields may be nil; when
// given, CKAN expects them JSON-encoded in a single facet.field param.
func (c *Client) SearchPackages(ctx context.Context, query string, rows int, facetFields []string) (*models.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("rows", strconv.Itoa(rows))
	if len(facetFields) > 0 {
		encoded, err := json.Marshal(facetFields)
		if err != nil {
			return nil, fmt.Errorf("encoding facet fields: %w", err)
		}
		params.Set("facet", "true")
		params.Set("facet.field", string(encoded))
	}

	var result models.SearchResult
	if err := c.doAction(ctx, "package_search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListPackages returns every dataset identifier in the catalog
func (c *Client) ListPackages(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.doAction(ctx, "package_list", nil, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// GetResourceRecords pages through a datastore-active resource
func (c *Client) GetResourceRecords(ctx context.Context, resourceID string, limit, offset int) (*models.DatastoreInfo, error) {
	params := url.Values{}
	params.Set("resource_id", resourceID)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	var info models.DatastoreInfo
	if err := c.doAction(ctx, "datastore_search", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ProbeResource fetches field metadata and the record count without any
// rows, for cheap structure inspection
func (c *Client) ProbeResource(ctx context.Context, resourceID string) (*models.DatastoreInfo, error) {
	params := url.Values{}
	params.Set("resource_id", resourceID)
	params.Set("limit", "0")

	var info models.DatastoreInfo
	if err := c.doAction(ctx, "datastore_search", params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ListOrganizations returns all publishing organizations with metadata
func (c *Client) ListOrganizations(ctx context.Context) ([]models.Organization, error) {
	params := url.Values{}
	params.Set("all_fields", "true")

	var orgs []models.Organization
	if err := c.doAction(ctx, "organization_list", params, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// ListGroups returns all thematic groups with metadata
func (c *Client) ListGroups(ctx context.Context) ([]models.Group, error) {
	params := url.Values{}
	params.Set("all_fields", "true")

	var groups []models.Group
	if err := c.doAction(ctx, "group_list", params, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
