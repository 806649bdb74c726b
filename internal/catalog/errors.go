package catalog

import "fmt"

// CatalogError means the catalog answered and reported a failure, either
// as a non-2xx status or as success=false in the action envelope.
type CatalogError struct {
	Action     string
	StatusCode int
	Message    string
}

func (e *CatalogError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("catalog action %s failed with status %d: %s", e.Action, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("catalog action %s failed: %s", e.Action, e.Message)
}

// UnavailableError means the catalog could not be reached at all: a
// transport failure or a timed-out request. The call may be retried by
// the caller; this layer never retries.
type UnavailableError struct {
	Action string
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("catalog unavailable during %s (the request may be retried): %v", e.Action, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
