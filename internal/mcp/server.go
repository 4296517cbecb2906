package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/vthunder/chillmcp/internal/logging"
	"github.com/vthunder/chillmcp/internal/mcp/tools"
)

// ServerName is reported to clients during initialize
const ServerName = "ChillMCP"

// Server exposes the break tools over MCP
type Server struct {
	mcp *server.MCPServer
}

// NewServer creates a new MCP server with every tool registered
func NewServer(version string, deps *tools.Dependencies) *Server {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
	)
	tools.RegisterAll(s, deps)
	return &Server{mcp: s}
}

// MCPServer returns the underlying mcp-go server
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves JSON-RPC on stdin/stdout until EOF (blocking)
func (s *Server) ServeStdio() error {
	logging.Info("mcp", "Serving on stdio")
	return server.ServeStdio(s.mcp)
}

// ServeSSE serves the SSE transport on addr (blocking)
func (s *Server) ServeSSE(addr string) error {
	logging.Info("mcp", "Serving SSE on %s", addr)
	return server.NewSSEServer(s.mcp).Start(addr)
}
