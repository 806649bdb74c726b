package analysis

import (
	"fmt"

	"github.com/opendata-mcp/pkg/catalog/models"
)

const (
	notesTruncateLen = 200
	maxSummaryTags   = 5
)

// PackageSummary is the compact dataset projection most tools return
type PackageSummary struct {
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	Title                string            `json:"title"`
	Notes                string            `json:"notes"`
	Organization         string            `json:"organization"`
	Tags                 []string          `json:"tags"`
	MetadataCreated      models.CustomTime `json:"metadata_created"`
	MetadataModified     models.CustomTime `json:"metadata_modified"`
	ResourceCount        int               `json:"resource_count"`
	DatastoreActiveCount int               `json:"datastore_active_count"`
	URL                  string            `json:"url"`
}

// ResourceSummary is the compact resource projection
type ResourceSummary struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Format          string            `json:"format"`
	Size            *int64            `json:"size"`
	DatastoreActive bool              `json:"datastore_active"`
	LastModified    models.CustomTime `json:"last_modified"`
}

// ResourceAnalysis extends ResourceSummary with source details and,
// when a datastore probe succeeded, structure information
type ResourceAnalysis struct {
	ResourceSummary
	Mimetype      string                   `json:"mimetype"`
	URL           string                   `json:"url"`
	Created       models.CustomTime        `json:"created"`
	Fields        []models.DatastoreField  `json:"fields,omitempty"`
	RecordCount   *int                     `json:"record_count,omitempty"`
	SampleRecords []map[string]interface{} `json:"sample_records,omitempty"`
}

// BuildPackageSummary projects a full package record. portalURL is the
// public portal root used to build the canonical dataset page link.
func BuildPackageSummary(pkg *models.Package, portalURL string) PackageSummary {
	orgTitle := "Unknown"
	if pkg.Organization != nil && pkg.Organization.Title != "" {
		orgTitle = pkg.Organization.Title
	}

	tags := make([]string, 0, maxSummaryTags)
	for _, tag := range pkg.Tags {
		if len(tags) == maxSummaryTags {
			break
		}
		tags = append(tags, tag.Name)
	}

	active := 0
	for _, res := range pkg.Resources {
		if res.DatastoreActive {
			active++
		}
	}

	return PackageSummary{
		ID:                   pkg.ID,
		Name:                 pkg.Name,
		Title:                pkg.Title,
		Notes:                truncate(pkg.Notes, notesTruncateLen),
		Organization:         orgTitle,
		Tags:                 tags,
		MetadataCreated:      pkg.MetadataCreated,
		MetadataModified:     pkg.MetadataModified,
		ResourceCount:        len(pkg.Resources),
		DatastoreActiveCount: active,
		URL:                  fmt.Sprintf("%s/dataset/%s/", portalURL, pkg.Name),
	}
}

// BuildResourceSummary projects one resource record
func BuildResourceSummary(res *models.Resource) ResourceSummary {
	name := res.Name
	if name == "" {
		name = "Unnamed"
	}

	return ResourceSummary{
		ID:              res.ID,
		Name:            name,
		Format:          res.Format,
		Size:            res.Size,
		DatastoreActive: res.DatastoreActive,
		LastModified:    res.LastModified,
	}
}

// BuildResourceAnalysis projects one resource for structure analysis.
// The caller attaches fields, record count and samples after probing.
func BuildResourceAnalysis(res *models.Resource) ResourceAnalysis {
	return ResourceAnalysis{
		ResourceSummary: BuildResourceSummary(res),
		Mimetype:        res.Mimetype,
		URL:             res.URL,
		Created:         res.Created,
	}
}

// truncate caps s at limit runes, appending an ellipsis when cut
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
