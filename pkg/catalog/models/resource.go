package models

// Resource is one file or endpoint attached to a Package
type Resource struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Format          string     `json:"format"`
	Size            *int64     `json:"size"`
	Mimetype        string     `json:"mimetype"`
	URL             string     `json:"url"`
	Created         CustomTime `json:"created"`
	LastModified    CustomTime `json:"last_modified"`
	DatastoreActive bool       `json:"datastore_active"`
	PackageID       string     `json:"package_id"`
}
