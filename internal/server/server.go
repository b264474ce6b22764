// Package server exposes declared routes as MCP tools.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/brizzai/specfetch/internal/catalog"
	"github.com/brizzai/specfetch/internal/config"
	"github.com/brizzai/specfetch/internal/logger"
	"github.com/brizzai/specfetch/internal/requester"
	"github.com/brizzai/specfetch/internal/server/handler"
	"github.com/brizzai/specfetch/internal/server/tool"
)

const (
	// shutdownTimeout is the maximum time to wait for server shutdown
	shutdownTimeout = 5 * time.Second
)

// Server is the MCP server. It supports SSE, streamable HTTP and STDIO.
type Server struct {
	config  *config.Config
	catalog *catalog.Catalog
	mcp     *mcpserver.MCPServer
	handler *handler.Handler
	tool    *tool.Handler
	tools   []string
}

// NewServer registers one tool per exposed route of the catalog.
func NewServer(cfg *config.Config, cat *catalog.Catalog, caller tool.Caller) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cat == nil || cat.API == nil {
		return nil, errors.New("catalog cannot be nil")
	}
	if caller == nil {
		return nil, errors.New("caller cannot be nil")
	}

	srv := &Server{
		config:  cfg,
		catalog: cat,
		mcp:     mcpserver.NewMCPServer(cfg.Server.Name, cfg.Server.Version),
		handler: handler.NewHandler(cfg.Metrics.Enabled),
		tool:    tool.NewHandler(caller),
	}
	srv.setupTools()
	return srv, nil
}

func (s *Server) setupTools() {
	for _, name := range s.catalog.ExposedRoutes() {
		route := s.catalog.API.Routes[name]
		t := tool.Build(name, route, s.catalog.Operations[name])
		s.mcp.AddTool(t, s.tool.CreateHandler(name, route))
		s.tools = append(s.tools, name)
	}
	logger.Info("Registered tools", zap.Int("count", len(s.tools)))
}

// Tools returns the names of the registered tools.
func (s *Server) Tools() []string {
	return s.tools
}

// MCP returns the underlying MCP server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

func (s *Server) ServeSSE(ctx context.Context) error {
	sseServer := mcpserver.NewSSEServer(
		s.mcp,
		mcpserver.WithBaseURL(fmt.Sprintf("http://%s:%d", s.config.Server.Host, s.config.Server.Port)),
	)
	return s.serveHTTP(ctx, sseServer, "SSE")
}

func (s *Server) ServeHTTP(ctx context.Context) error {
	httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
	return s.serveHTTP(ctx, httpServer, "HTTP")
}

func (s *Server) serveHTTP(ctx context.Context, mcpHandler http.Handler, mode string) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           s.handler.CreateHTTPHandler(mcpHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("mode", mode),
			zap.String("address", addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server",
			zap.String("mode", mode),
			zap.Duration("timeout", shutdownTimeout),
		)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	case err := <-errChan:
		return err
	}
}

func (s *Server) ServeSTDIO(ctx context.Context) error {
	logger.Info("Starting STDIO server")
	stdioServer := mcpserver.NewStdioServer(s.mcp)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// Start serves in the configured mode until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	logger.Info("Starting server",
		zap.String("mode", string(s.config.Server.Mode)),
		zap.String("version", s.config.Server.Version),
	)

	switch s.config.Server.Mode {
	case config.ServerModeSSE:
		return s.ServeSSE(ctx)
	case config.ServerModeHTTP:
		return s.ServeHTTP(ctx)
	case config.ServerModeSTDIO:
		return s.ServeSTDIO(ctx)
	default:
		return fmt.Errorf("unsupported server mode: %s", s.config.Server.Mode)
	}
}

// Module provides the MCP server dependencies
var Module = fx.Module("mcp_server",
	fx.Provide(
		NewServer,
		fx.Annotate(
			func(c *requester.Client) *requester.Client { return c },
			fx.As(new(tool.Caller)),
		),
	),
)
