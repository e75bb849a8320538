package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// trimString removes leading and trailing whitespace from a string.
func trimString(s string) string {
	return strings.TrimSpace(s)
}

// optionalString reads a string argument, falling back to def when it is absent or null.
// A present value of any other JSON type is a parameter error.
func optionalString(req mcp.CallToolRequest, name, def string) (string, error) {
	raw, ok := req.GetArguments()[name]
	if !ok || raw == nil {
		return def, nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", name, raw)
	}
	return value, nil
}
