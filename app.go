package main

import (
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/config"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/handlers"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/jumpserver"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/logging"
	mcpserver "github.com/ekaya-inc/jumpserver-mcp/pkg/mcp"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/mcp/tools"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/metrics"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/middleware"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/services"
)

// serverName is the MCP implementation name reported to clients.
const serverName = "mcp-jumpserver"

// app holds the wired components shared by all subcommands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	logCloser io.Closer
	metrics   *metrics.Metrics
	service   services.DBCredentialsService
}

func newApp(cfg *config.Config) (*app, error) {
	logger, logCloser, err := logging.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	m := metrics.New()
	client := jumpserver.NewClient(cfg.JumpServer, logger, jumpserver.WithMetrics(m))

	return &app{
		cfg:       cfg,
		logger:    logger,
		logCloser: logCloser,
		metrics:   m,
		service:   services.NewDBCredentialsService(client, logger),
	}, nil
}

func (a *app) Close() {
	_ = a.logger.Sync()
	_ = a.logCloser.Close()
}

// newMCPServer builds the MCP server with every tool registered.
func (a *app) newMCPServer() *mcpserver.Server {
	s := mcpserver.NewServer(serverName, a.cfg.Version, mcpserver.NewAuditLogger(a.logger), a.logger)

	tools.RegisterDBCredentialsTool(s.MCP(), &tools.DBCredentialsToolDeps{
		Service: a.service,
		Metrics: a.metrics,
		Logger:  a.logger.Named("tools"),
	})
	tools.RegisterHealthTool(s.MCP(), a.cfg)

	return s
}

// httpHandler routes /mcp, /health, /ping and /metrics for the HTTP transport.
func (a *app) httpHandler(s *mcpserver.Server) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/mcp", middleware.MCPRequestLogger(a.logger.Named("mcp-http"))(s.NewStreamableHTTPServer()))
	handlers.NewHealthHandler(a.cfg, a.logger.Named("handlers")).RegisterRoutes(mux)
	mux.Handle("/metrics", a.metrics.Handler())

	return middleware.RequestLogger(a.logger.Named("http"))(mux)
}
