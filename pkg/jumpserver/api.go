package jumpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	pathDatabaseSuggestions = "/assets/databases/suggestions/"
	pathConnectionToken     = "/authentication/connection-token/"
	pathSmartEndpoint       = "/terminal/endpoints/smart/"
)

// SearchDatabaseAssets returns the database assets matching search.
// JumpServer answers with either a bare list or a paginated {"results": [...]} object;
// anything else yields an empty list.
func (c *Client) SearchDatabaseAssets(ctx context.Context, search, orgID string) ([]DatabaseAsset, error) {
	resp, err := c.Do(ctx, Request{
		Method: http.MethodGet,
		Path:   pathDatabaseSuggestions,
		Query:  map[string]string{"search": search},
		OrgID:  orgID,
	})
	if err != nil {
		return nil, err
	}
	if !resp.IsJSON() {
		return nil, nil
	}

	assets, err := decodeAssetList(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse asset suggestions: %w", err)
	}
	return assets, nil
}

// CreateConnectionToken mints a connection token for an asset/account pair.
func (c *Client) CreateConnectionToken(ctx context.Context, body ConnectionTokenRequest, orgID string) (*ConnectionToken, error) {
	var token ConnectionToken
	if err := c.DoJSON(ctx, Request{
		Method: http.MethodPost,
		Path:   pathConnectionToken,
		Body:   body,
		OrgID:  orgID,
	}, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// GetSmartEndpoint resolves the terminal endpoint serving tokenID over protocol.
func (c *Client) GetSmartEndpoint(ctx context.Context, protocol, tokenID, orgID string) (*SmartEndpoint, error) {
	var endpoint SmartEndpoint
	if err := c.DoJSON(ctx, Request{
		Method: http.MethodGet,
		Path:   pathSmartEndpoint,
		Query: map[string]string{
			"protocol": protocol,
			"token":    tokenID,
		},
		OrgID: orgID,
	}, &endpoint); err != nil {
		return nil, err
	}
	return &endpoint, nil
}

// decodeAssetList accepts a JSON array or an object carrying a "results" array.
func decodeAssetList(body []byte) ([]DatabaseAsset, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var assets []DatabaseAsset
		if err := json.Unmarshal(trimmed, &assets); err != nil {
			return nil, err
		}
		return assets, nil
	case '{':
		var page struct {
			Results json.RawMessage `json:"results"`
		}
		if err := json.Unmarshal(trimmed, &page); err != nil {
			return nil, err
		}
		return decodeResults(page.Results)
	}
	return nil, nil
}

func decodeResults(raw json.RawMessage) ([]DatabaseAsset, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}
	var assets []DatabaseAsset
	if err := json.Unmarshal(trimmed, &assets); err != nil {
		return nil, err
	}
	return assets, nil
}
