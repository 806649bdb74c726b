package models

// DatastoreInfo is the result of a datastore_search call. A zero-limit
// probe returns fields and total only; Records stays empty.
type DatastoreInfo struct {
	Total   int                      `json:"total"`
	Fields  []DatastoreField         `json:"fields"`
	Records []map[string]interface{} `json:"records"`
}

// DatastoreField describes one column of a datastore-active resource
type DatastoreField struct {
	ID   string              `json:"id"`
	Type string              `json:"type"`
	Info *DatastoreFieldInfo `json:"info,omitempty"`
}

type DatastoreFieldInfo struct {
	Label string `json:"label"`
	Notes string `json:"notes"`
}
