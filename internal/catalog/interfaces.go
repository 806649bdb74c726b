package catalog

import (
	"context"

	"github.com/opendata-mcp/pkg/catalog/models"
)

// CatalogAPI is the surface the tool handlers consume. *Client satisfies
// it; tests substitute fakes.
type CatalogAPI interface {
	GetPackage(ctx context.Context, id string) (*models.Package, error)
	SearchPackages(ctx context.Context, query string, rows int, facetFields []string) (*models.SearchResult, error)
	ListPackages(ctx context.Context) ([]string, error)
	GetResourceRecords(ctx context.Context, resourceID string, limit, offset int) (*models.DatastoreInfo, error)
	ProbeResource(ctx context.Context, resourceID string) (*models.DatastoreInfo, error)
	ListOrganizations(ctx context.Context) ([]models.Organization, error)
	ListGroups(ctx context.Context) ([]models.Group, error)
}
