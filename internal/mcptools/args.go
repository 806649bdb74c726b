package mcptools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ValidationError is a malformed or missing tool parameter. It is always
// raised before any catalog call is attempted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErrorf(format string, a ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, a...)}
}

// args wraps the raw tool-call arguments for typed extraction
type args map[string]interface{}

func getArgs(req mcp.CallToolRequest) args {
	return args(req.GetArguments())
}

// requireString returns a required, non-blank string parameter
func (a args) requireString(name string) (string, error) {
	raw, present := a[name]
	if !present {
		return "", validationErrorf("parameter '%s' is required", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", validationErrorf("parameter '%s' must be a string", name)
	}
	if strings.TrimSpace(s) == "" {
		return "", validationErrorf("parameter '%s' must not be empty", name)
	}
	return s, nil
}

// optionalString returns "" when the parameter is absent
func (a args) optionalString(name string) (string, error) {
	raw, present := a[name]
	if !present || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", validationErrorf("parameter '%s' must be a string", name)
	}
	return s, nil
}

// intOr returns an integer parameter or its default. JSON numbers arrive
// as float64; whole-valued floats are accepted, anything else rejected.
func (a args) intOr(name string, defaultValue int) (int, error) {
	raw, present := a[name]
	if !present || raw == nil {
		return defaultValue, nil
	}
	f, ok := raw.(float64)
	if !ok {
		return 0, validationErrorf("parameter '%s' must be a number", name)
	}
	n := int(f)
	if float64(n) != f {
		return 0, validationErrorf("parameter '%s' must be an integer", name)
	}
	return n, nil
}

// boolOr returns a boolean parameter or its default
func (a args) boolOr(name string, defaultValue bool) (bool, error) {
	raw, present := a[name]
	if !present || raw == nil {
		return defaultValue, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, validationErrorf("parameter '%s' must be a boolean", name)
	}
	return b, nil
}

// stringSlice returns an optional list-of-strings parameter; nil when
// absent
func (a args) stringSlice(name string) ([]string, error) {
	raw, present := a[name]
	if !present || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, validationErrorf("parameter '%s' must be a list of strings", name)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, validationErrorf("parameter '%s' must contain only strings", name)
		}
		out = append(out, s)
	}
	return out, nil
}

// positiveInt validates a limit-style parameter
func positiveInt(name string, value int) error {
	if value < 1 {
		return validationErrorf("parameter '%s' must be at least 1, got %d", name, value)
	}
	return nil
}

// nonNegativeInt validates an offset-style parameter
func nonNegativeInt(name string, value int) error {
	if value < 0 {
		return validationErrorf("parameter '%s' must not be negative, got %d", name, value)
	}
	return nil
}
