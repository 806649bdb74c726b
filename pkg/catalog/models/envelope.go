package models

import "encoding/json"

// ActionResponse is the envelope every CKAN action API call returns
type ActionResponse struct {
	Help    string          `json:"help"`
	Success bool            `json:"success"`
	Result  json.RawMessage `json:"result"`
	Error   *ActionError    `json:"error"`
}

// ActionError carries the upstream failure details when success=false
type ActionError struct {
	Message string `json:"message"`
	Type    string `json:"__type"`
}
