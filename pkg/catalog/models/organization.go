package models

// Organization owns packages; Group is a thematic collection of them.
// Both come back from *_list calls with all_fields=true.
type Organization struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PackageCount int    `json:"package_count"`
}

type Group struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	PackageCount int    `json:"package_count"`
}
