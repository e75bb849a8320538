package services

import (
	"context"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/jumpserver"
)

// mockJumpServerAPI implements JumpServerAPI for testing and records every call.
type mockJumpServerAPI struct {
	assets    []jumpserver.DatabaseAsset
	searchErr error

	token    *jumpserver.ConnectionToken
	tokenErr error

	endpoint    *jumpserver.SmartEndpoint
	endpointErr error

	calls        []string
	searchTerm   string
	tokenRequest jumpserver.ConnectionTokenRequest
	endpointArgs [2]string
	orgIDs       []string
}

func (m *mockJumpServerAPI) SearchDatabaseAssets(ctx context.Context, search, orgID string) ([]jumpserver.DatabaseAsset, error) {
	m.calls = append(m.calls, "search")
	m.searchTerm = search
	m.orgIDs = append(m.orgIDs, orgID)
	return m.assets, m.searchErr
}

func (m *mockJumpServerAPI) CreateConnectionToken(ctx context.Context, body jumpserver.ConnectionTokenRequest, orgID string) (*jumpserver.ConnectionToken, error) {
	m.calls = append(m.calls, "token")
	m.tokenRequest = body
	m.orgIDs = append(m.orgIDs, orgID)
	if m.tokenErr != nil {
		return nil, m.tokenErr
	}
	if m.token == nil {
		return &jumpserver.ConnectionToken{}, nil
	}
	return m.token, nil
}

func (m *mockJumpServerAPI) GetSmartEndpoint(ctx context.Context, protocol, tokenID, orgID string) (*jumpserver.SmartEndpoint, error) {
	m.calls = append(m.calls, "endpoint")
	m.endpointArgs = [2]string{protocol, tokenID}
	m.orgIDs = append(m.orgIDs, orgID)
	if m.endpointErr != nil {
		return nil, m.endpointErr
	}
	if m.endpoint == nil {
		return &jumpserver.SmartEndpoint{}, nil
	}
	return m.endpoint, nil
}
