package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/apperrors"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/jumpserver"
)

const (
	// DefaultAssetName is the asset looked up when a tool call omits asset_name.
	DefaultAssetName = "DB-ltc-prod"
	// DefaultAccount is the JumpServer account used when none is given.
	DefaultAccount = "jumpserver_r"
)

// JumpServerAPI is the subset of the JumpServer client the resolution workflow needs.
type JumpServerAPI interface {
	SearchDatabaseAssets(ctx context.Context, search, orgID string) ([]jumpserver.DatabaseAsset, error)
	CreateConnectionToken(ctx context.Context, body jumpserver.ConnectionTokenRequest, orgID string) (*jumpserver.ConnectionToken, error)
	GetSmartEndpoint(ctx context.Context, protocol, tokenID, orgID string) (*jumpserver.SmartEndpoint, error)
}

// ResolveParams identifies the asset and account to mint credentials for.
type ResolveParams struct {
	AssetName string
	Account   string
	// OrgID overrides JUMPSERVER_ORG_ID for this call.
	OrgID string
}

// ResolvedCredentials is a complete, time-boxed set of MySQL connection details.
type ResolvedCredentials struct {
	Host         string          `json:"host"`
	Port         int             `json:"port"`
	Username     string          `json:"username"`
	Password     string          `json:"password"`
	Database     string          `json:"database"`
	ExpireTime   json.RawMessage `json:"expire_time,omitempty"`
	DateExpired  json.RawMessage `json:"date_expired,omitempty"`
	MySQLCommand string          `json:"mysql_command"`
	JDBCURL      string          `json:"jdbc_url"`
	DSN          string          `json:"dsn"`
	AssetID      string          `json:"asset_id"`
	AssetName    string          `json:"asset_name"`
	OrgID        string          `json:"org_id"`
}

// DBCredentialsService resolves JumpServer database assets into temporary credentials.
type DBCredentialsService interface {
	// Resolve searches the asset, mints a connection token and resolves its endpoint.
	// It either returns a complete record or an error; never a partial record.
	Resolve(ctx context.Context, params ResolveParams) (*ResolvedCredentials, error)
}

type dbCredentialsService struct {
	api    JumpServerAPI
	logger *zap.Logger
}

var _ DBCredentialsService = (*dbCredentialsService)(nil)

// NewDBCredentialsService creates a new credential resolution service.
func NewDBCredentialsService(api JumpServerAPI, logger *zap.Logger) DBCredentialsService {
	return &dbCredentialsService{
		api:    api,
		logger: logger.Named("services"),
	}
}

func (s *dbCredentialsService) Resolve(ctx context.Context, params ResolveParams) (*ResolvedCredentials, error) {
	search := strings.TrimSpace(params.AssetName)
	if search == "" {
		return nil, fmt.Errorf("%w: asset_name cannot be empty", apperrors.ErrValidation)
	}
	account := params.Account
	if account == "" {
		account = DefaultAccount
	}

	assets, err := s.api.SearchDatabaseAssets(ctx, search, params.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to search database assets: %w", err)
	}
	asset, err := s.pickDatabaseAsset(assets, search)
	if err != nil {
		return nil, err
	}

	token, err := s.api.CreateConnectionToken(ctx, jumpserver.ConnectionTokenRequest{
		Asset:          asset.ID.String(),
		Account:        account,
		Protocol:       jumpserver.ProtocolMySQL,
		InputUsername:  account,
		InputSecret:    "",
		ConnectMethod:  jumpserver.ConnectMethodDBGuide,
		ConnectOptions: jumpserver.DefaultConnectOptions(),
	}, params.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection token: %w", err)
	}

	endpoint, err := s.api.GetSmartEndpoint(ctx, jumpserver.ProtocolMySQL, token.ID.String(), params.OrgID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve terminal endpoint: %w", err)
	}

	creds, err := assembleCredentials(asset, token, endpoint)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Resolved JumpServer database credentials",
		zap.String("asset_id", creds.AssetID),
		zap.String("asset_name", creds.AssetName),
		zap.String("host", creds.Host),
		zap.Int("port", creds.Port),
		zap.String("database", creds.Database),
		zap.String("org_id", creds.OrgID))

	return creds, nil
}

// pickDatabaseAsset prefers an exact, case-sensitive name match and otherwise takes the first result.
func (s *dbCredentialsService) pickDatabaseAsset(assets []jumpserver.DatabaseAsset, search string) (jumpserver.DatabaseAsset, error) {
	if len(assets) == 0 {
		return jumpserver.DatabaseAsset{}, fmt.Errorf("%w: no database assets found by search: %s", apperrors.ErrNotFound, search)
	}
	for _, asset := range assets {
		if asset.Name.String() == search {
			return asset, nil
		}
	}

	// The first suggestion may be a different database; surface that in logs.
	s.logger.Warn("No exact asset name match, using first search result",
		zap.String("search", search),
		zap.String("selected_asset", assets[0].Name.String()),
		zap.Int("candidates", len(assets)))
	return assets[0], nil
}

// assembleCredentials builds the output record, rejecting any missing required field.
func assembleCredentials(asset jumpserver.DatabaseAsset, token *jumpserver.ConnectionToken, endpoint *jumpserver.SmartEndpoint) (*ResolvedCredentials, error) {
	host := endpoint.Host.String()
	port := parsePort(endpoint.MySQLPort.String())
	username := token.ID.String()
	password := token.Value.String()
	database := asset.DBName.String()

	if host == "" || port == 0 || username == "" || password == "" || database == "" {
		return nil, fmt.Errorf("%w from JumpServer API response (missing %s)", apperrors.ErrIncomplete,
			strings.Join(missingFields(host, port, username, password, database), ", "))
	}

	orgID := token.OrgID.String()
	if orgID == "" {
		orgID = asset.OrgID.String()
	}

	return &ResolvedCredentials{
		Host:         host,
		Port:         port,
		Username:     username,
		Password:     password,
		Database:     database,
		ExpireTime:   token.ExpireTime,
		DateExpired:  token.DateExpired,
		MySQLCommand: MySQLCommand(host, port, username, password, database),
		JDBCURL:      JDBCURL(host, port, username, password, database),
		DSN:          MySQLDSN(host, port, username, password, database),
		AssetID:      asset.ID.String(),
		AssetName:    asset.Name.String(),
		OrgID:        orgID,
	}, nil
}

// parsePort returns 0 for anything that is not a positive TCP port.
func parsePort(value string) int {
	port, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || port <= 0 || port > 65535 {
		return 0
	}
	return port
}

func missingFields(host string, port int, username, password, database string) []string {
	var missing []string
	if host == "" {
		missing = append(missing, "host")
	}
	if port == 0 {
		missing = append(missing, "port")
	}
	if username == "" {
		missing = append(missing, "username")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if database == "" {
		missing = append(missing, "database")
	}
	return missing
}
