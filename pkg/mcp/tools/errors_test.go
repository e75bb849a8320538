package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/apperrors"
)

// getTextContent extracts the text string from the first text content item
func getTextContent(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return ""
	}
	return text.Text
}

func parseErrorResponse(t *testing.T, result *mcp.CallToolResult) ErrorResponse {
	t.Helper()

	require.NotNil(t, result)
	require.True(t, result.IsError, "result should be flagged as an error")

	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal([]byte(getTextContent(result)), &errResp))
	return errResp
}

func TestNewErrorResult(t *testing.T) {
	errResp := parseErrorResponse(t, NewErrorResult("asset_not_found", "no database assets found by search: DB-x"))

	assert.True(t, errResp.Error, "error field should be true")
	assert.Equal(t, "asset_not_found", errResp.Code)
	assert.Equal(t, "no database assets found by search: DB-x", errResp.Message)
	assert.Nil(t, errResp.Details, "details should be nil when not provided")
}

func TestErrorResponse_JSONStructure(t *testing.T) {
	tests := []struct {
		name     string
		result   *mcp.CallToolResult
		wantJSON string
	}{
		{
			name:     "without details",
			result:   NewErrorResult("configuration_error", "JUMPSERVER_ORG_ID is required"),
			wantJSON: `{"error":true,"code":"configuration_error","message":"JUMPSERVER_ORG_ID is required"}`,
		},
		{
			name:     "with structured details",
			result:   NewErrorResultWithDetails("jumpserver_api_error", "JumpServer API 403: denied", map[string]any{"status": 403}),
			wantJSON: `{"error":true,"code":"jumpserver_api_error","message":"JumpServer API 403: denied","details":{"status":403}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.JSONEq(t, tt.wantJSON, getTextContent(tt.result))
			assert.True(t, tt.result.IsError)
		})
	}
}

func TestErrorResultFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"validation", fmt.Errorf("%w: asset_name cannot be empty", apperrors.ErrValidation), "invalid_parameters"},
		{"not found", fmt.Errorf("%w: no database assets found by search: x", apperrors.ErrNotFound), "asset_not_found"},
		{"configuration", fmt.Errorf("%w: JUMPSERVER_BASE_URL is required", apperrors.ErrConfiguration), "configuration_error"},
		{"incomplete", fmt.Errorf("%w (missing host)", apperrors.ErrIncomplete), "incomplete_connection_data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ErrorResultFor(tt.err)
			require.True(t, ok)

			errResp := parseErrorResponse(t, result)
			assert.Equal(t, tt.wantCode, errResp.Code)
			assert.Equal(t, tt.err.Error(), errResp.Message)
		})
	}
}

func TestErrorResultFor_APIErrorCarriesStatus(t *testing.T) {
	err := fmt.Errorf("failed to create connection token: %w",
		&apperrors.APIError{StatusCode: 401, Body: `{"detail":"Authentication failed"}`})

	result, ok := ErrorResultFor(err)
	require.True(t, ok)

	errResp := parseErrorResponse(t, result)
	assert.Equal(t, "jumpserver_api_error", errResp.Code)
	assert.Contains(t, errResp.Message, `JumpServer API 401: {"detail":"Authentication failed"}`)
	assert.Equal(t, map[string]any{"status": float64(401)}, errResp.Details)
}

func TestErrorResultFor_UnclassifiedErrors(t *testing.T) {
	for _, err := range []error{
		errors.New("dial tcp: connection refused"),
		context.Canceled,
		nil,
	} {
		result, ok := ErrorResultFor(err)
		assert.False(t, ok)
		assert.Nil(t, result)
	}
}
