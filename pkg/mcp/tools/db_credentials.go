// Package tools provides MCP tool implementations for jumpserver-mcp.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/apperrors"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/logging"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/metrics"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/services"
)

// DBCredentialsToolName is the MCP name of the credential resolution tool.
const DBCredentialsToolName = "get_jumpserver_db_credentials"

// DBCredentialsToolDeps contains dependencies for the credential tool.
type DBCredentialsToolDeps struct {
	Service services.DBCredentialsService
	Metrics *metrics.Metrics
	Logger  *zap.Logger
}

// RegisterDBCredentialsTool adds the get_jumpserver_db_credentials tool to the MCP server.
func RegisterDBCredentialsTool(s *server.MCPServer, deps *DBCredentialsToolDeps) {
	tool := mcp.NewTool(
		DBCredentialsToolName,
		mcp.WithTitleAnnotation("Get JumpServer DB Credentials"),
		mcp.WithDescription("Get temporary database connection credentials by JumpServer database asset name."),
		mcp.WithString(
			"asset_name",
			mcp.Description("JumpServer database asset name"),
			mcp.DefaultString(services.DefaultAssetName),
		),
		mcp.WithString(
			"account",
			mcp.Description("JumpServer account name"),
			mcp.DefaultString(services.DefaultAccount),
		),
		mcp.WithString(
			"org_id",
			mcp.Description("Optional JumpServer organization ID. Defaults to JUMPSERVER_ORG_ID"),
		),
		// Each call mints a new connection token on JumpServer.
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handleDBCredentials(ctx, deps, req)
	})
}

func handleDBCredentials(ctx context.Context, deps *DBCredentialsToolDeps, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := deps.Logger.With(
		zap.String("tool", DBCredentialsToolName),
		zap.String("invocation_id", uuid.NewString()),
	)

	params, err := parseResolveParams(req)
	if err != nil {
		deps.Metrics.RecordToolCall(DBCredentialsToolName, "invalid_parameters")
		return NewErrorResult("invalid_parameters", err.Error()), nil
	}

	logger.Debug("Resolving JumpServer DB credentials",
		zap.String("asset_name", params.AssetName),
		zap.String("account", params.Account),
		zap.String("org_id", params.OrgID))

	creds, err := deps.Service.Resolve(ctx, params)
	if err != nil {
		if result, ok := ErrorResultFor(err); ok {
			code := apperrors.Code(err)
			deps.Metrics.RecordToolCall(DBCredentialsToolName, code)
			logger.Warn("Credential resolution rejected",
				zap.String("code", code),
				zap.String("error", logging.SanitizeError(err)))
			return result, nil
		}

		deps.Metrics.RecordToolCall(DBCredentialsToolName, "error")
		logger.Error("Credential resolution failed", zap.String("error", logging.SanitizeError(err)))
		return nil, err
	}

	jsonResult, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		deps.Metrics.RecordToolCall(DBCredentialsToolName, "error")
		return nil, fmt.Errorf("failed to marshal credentials: %w", err)
	}

	deps.Metrics.RecordToolCall(DBCredentialsToolName, "success")
	logger.Info("Issued JumpServer DB credentials",
		zap.String("asset_id", creds.AssetID),
		zap.String("asset_name", creds.AssetName),
		zap.String("jdbc_url", logging.SanitizeConnectionString(creds.JDBCURL)))

	return mcp.NewToolResultText(string(jsonResult)), nil
}

func parseResolveParams(req mcp.CallToolRequest) (services.ResolveParams, error) {
	assetName, err := optionalString(req, "asset_name", services.DefaultAssetName)
	if err != nil {
		return services.ResolveParams{}, err
	}
	account, err := optionalString(req, "account", services.DefaultAccount)
	if err != nil {
		return services.ResolveParams{}, err
	}
	orgID, err := optionalString(req, "org_id", "")
	if err != nil {
		return services.ResolveParams{}, err
	}

	return services.ResolveParams{
		AssetName: assetName,
		Account:   account,
		OrgID:     trimString(orgID),
	}, nil
}
