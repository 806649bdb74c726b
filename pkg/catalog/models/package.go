package models

// Package is a dataset record as returned by package_show / package_search
type Package struct {
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Title            string        `json:"title"`
	Notes            string        `json:"notes"`
	Tags             []Tag         `json:"tags"`
	Organization     *Organization `json:"organization"`
	Resources        []Resource    `json:"resources"`
	MetadataCreated  CustomTime    `json:"metadata_created"`
	MetadataModified CustomTime    `json:"metadata_modified"`
	RefreshRate      string        `json:"refresh_rate"`
	LastRefreshed    CustomTime    `json:"last_refreshed"`
	Maintainer       string        `json:"maintainer"`
	MaintainerEmail  string        `json:"maintainer_email"`
}

type Tag struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}

// SearchResult is the result of a package_search call. Facets are kept
// raw and forwarded as-is when a caller asked for them.
type SearchResult struct {
	Count   int                    `json:"count"`
	Results []Package              `json:"results"`
	Facets  map[string]interface{} `json:"search_facets"`
}
