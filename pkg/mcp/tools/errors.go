package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/apperrors"
)

// ErrorResponse represents a structured error in tool results.
// This is used to return actionable error information to the model
// as a tool result, ensuring error details are visible
// rather than being swallowed by the MCP client.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for recoverable/actionable errors the caller can fix
// (e.g., invalid parameters, asset not found, missing configuration).
//
// Do NOT use this for system failures (network errors, internal failures);
// those should still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	return NewErrorResultWithDetails(code, message, nil)
}

// NewErrorResultWithDetails creates an error result with additional context.
//
// Example:
//
//	return NewErrorResultWithDetails(
//	    "jumpserver_api_error",
//	    "JumpServer API 403: {\"detail\":\"forbidden\"}",
//	    map[string]any{"status": 403},
//	), nil
func NewErrorResultWithDetails(code, message string, details any) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
		Details: details,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// ErrorResultFor converts a classified error into a tool error result.
// Returns false for errors outside the taxonomy (transport failures, cancellations),
// which callers should surface as Go errors.
func ErrorResultFor(err error) (*mcp.CallToolResult, bool) {
	code := apperrors.Code(err)
	if code == "" {
		return nil, false
	}

	message := err.Error()

	var apiErr *apperrors.APIError
	if errors.As(err, &apiErr) {
		return NewErrorResultWithDetails(code, message, map[string]any{
			"status": apiErr.StatusCode,
		}), true
	}
	return NewErrorResult(code, message), true
}
