package tools

import (
	"context"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/services"
)

// mockDBCredentialsService implements services.DBCredentialsService for tool tests.
type mockDBCredentialsService struct {
	creds *services.ResolvedCredentials
	err   error

	calls      int
	lastParams services.ResolveParams
}

func (m *mockDBCredentialsService) Resolve(ctx context.Context, params services.ResolveParams) (*services.ResolvedCredentials, error) {
	m.calls++
	m.lastParams = params
	if m.err != nil {
		return nil, m.err
	}
	return m.creds, nil
}
