// Package server hosts the MCP tools over stdio or HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/podseek/podseek/internal/profile"
	"github.com/podseek/podseek/server/metrics"
	"github.com/podseek/podseek/store"
)

type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer *echo.Echo
	mcpServer  *mcpserver.MCPServer
	searcher   Searcher
	metrics    *metrics.Exporter
	logger     *slog.Logger
}

// NewServer wires the MCP tools and, for the HTTP transport, the echo routes
// around them. The searcher is the only collaborator the tools call into.
func NewServer(profile *profile.Profile, storeInstance *store.Store, searcher Searcher, exporter *metrics.Exporter, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if exporter == nil {
		exporter = metrics.NewExporter(metrics.DefaultConfig())
	}

	s := &Server{
		Profile:  profile,
		Store:    storeInstance,
		searcher: searcher,
		metrics:  exporter,
		logger:   logger,
	}

	mcpServer := mcpserver.NewMCPServer(
		"podseek",
		profile.Version,
		mcpserver.WithToolCapabilities(true),
	)
	s.mcpServer = mcpServer
	s.registerTools()

	echoServer := echo.New()
	echoServer.Debug = profile.IsDev()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Use(middleware.Recover())

	echoServer.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": profile.Version,
		})
	})
	echoServer.GET("/metrics", echo.WrapHandler(exporter.Handler()))

	// MCP endpoint. No timeout middleware here: MCP uses streaming responses
	// and manages its own session state via response headers. Tool handlers
	// enforce their own deadlines.
	mcpGroup := echoServer.Group("", middleware.CORS())
	mcpGroup.Any("/mcp", echo.WrapHandler(mcpserver.NewStreamableHTTPServer(mcpServer)))

	s.echoServer = echoServer
	return s, nil
}

// MCPServer returns the underlying MCP server, used by tests to drive
// JSON-RPC messages without a transport.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcpServer
}

// Handler returns the HTTP handler for use with custom servers.
func (s *Server) Handler() http.Handler {
	return s.echoServer
}

// Start serves on the configured transport. It blocks until the server is
// shut down or, for stdio, the context is canceled or stdin closes.
func (s *Server) Start(ctx context.Context) error {
	if s.Profile.Transport == "stdio" {
		s.logger.Info("mcp server listening on stdio")
		stdioServer := mcpserver.NewStdioServer(s.mcpServer)
		return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
	}

	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	s.logger.Info("mcp server listening on http", "addr", addr)
	return s.echoServer.Start(addr)
}

// Shutdown stops the server and closes the store.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if s.Profile.Transport == "http" {
		if err := s.echoServer.Shutdown(ctx); err != nil {
			s.logger.Error("failed to shutdown echo server", "error", err)
		}
	}

	if err := s.Store.Close(); err != nil {
		s.logger.Error("failed to close store", "error", err)
	}

	s.logger.Info("podseek stopped properly")
}
