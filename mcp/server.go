package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/umcp/umcp/bridge/client"
	"github.com/umcp/umcp/config"
	"github.com/umcp/umcp/log"
)

// Server represents the MCP server for the bridge
type Server struct {
	server *server.MCPServer
	bridge *client.Client
}

// NewServer creates a new MCP server instance talking to the bridge at the
// configured command address
func NewServer(settings config.Settings) *Server {
	s := server.NewMCPServer("umcp", "0.1.0")

	bridge := client.New(settings.CommandAddr(), settings.SocketTimeout())
	registerTools(s, bridge)

	return &Server{
		server: s,
		bridge: bridge,
	}
}

// Run starts the MCP server
func (s *Server) Run() error {
	defer s.bridge.Close()

	// Best effort: the bridge may not be up yet, and the tools reconnect
	// on demand anyway.
	if err := s.bridge.RegisterClient("mcp"); err != nil {
		log.Debug("Bridge registration skipped", "error", err)
	}

	return server.ServeStdio(s.server)
}

// registerTools registers all available tools with the MCP server
func registerTools(s *server.MCPServer, bridge *client.Client) {
	tools := InitTools(bridge)
	s.AddTools(tools...)
}

func newServerTool(tool mcp.Tool, handler server.ToolHandlerFunc) server.ServerTool {
	return server.ServerTool{
		Tool:    tool,
		Handler: handler,
	}
}
