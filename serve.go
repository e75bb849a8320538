package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/config"
	mcpserver "github.com/ekaya-inc/jumpserver-mcp/pkg/mcp"
)

const shutdownTimeout = 5 * time.Second

// serveOptions are command-line overrides; empty fields keep the loaded configuration.
type serveOptions struct {
	transport string
	bindAddr  string
	port      string
	logLevel  string
}

func (o serveOptions) apply(cfg *config.Config) {
	if o.transport != "" {
		cfg.Transport = o.transport
	}
	if o.bindAddr != "" {
		cfg.BindAddr = o.bindAddr
	}
	if o.port != "" {
		cfg.Port = o.port
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		Long:  "Run the MCP server over stdio (default) or streamable HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.transport, "transport", "", "Transport: stdio or http (default from MCP_TRANSPORT)")
	cmd.Flags().StringVar(&opts.bindAddr, "bind", "", "HTTP bind address (default from BIND_ADDR)")
	cmd.Flags().StringVar(&opts.port, "port", "", "HTTP port (default from PORT)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (default from LOG_LEVEL)")

	return cmd
}

func runServe(ctx context.Context, opts serveOptions) error {
	cfg, err := config.Load(Version)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Check(); err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	a.logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("transport", cfg.Transport),
		zap.String("jumpserver_base_url", cfg.JumpServer.BaseURL),
		zap.String("jumpserver_base_path", cfg.JumpServer.BasePath),
		zap.String("jumpserver_org_id", cfg.JumpServer.OrgID),
		zap.Duration("jumpserver_timeout", cfg.JumpServer.Timeout))

	// Tool calls report configuration errors individually; the server still starts
	if err := cfg.JumpServer.Validate(); err != nil {
		a.logger.Warn("JumpServer access is not fully configured", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := a.newMCPServer()

	switch cfg.Transport {
	case config.TransportHTTP:
		return a.serveHTTP(ctx, s)
	default:
		err := s.ServeStdio(ctx, os.Stdin, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server error: %w", err)
		}
		return nil
	}
}

func (a *app) serveHTTP(ctx context.Context, s *mcpserver.Server) error {
	httpServer := &http.Server{
		Addr:              a.cfg.ListenAddr(),
		Handler:           a.httpHandler(s),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("Starting MCP HTTP server",
			zap.String("addr", httpServer.Addr),
			zap.String("version", a.cfg.Version))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	}
}
