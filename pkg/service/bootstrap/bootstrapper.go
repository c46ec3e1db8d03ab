// Package bootstrap provides server initialization and component registration.
package bootstrap

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/quantfeed/twelvedata-mcp/pkg/service/tools"
)

// Bootstrapper assembles the MCP server from its parts.
type Bootstrapper struct {
	logger *slog.Logger
	deps   tools.ToolDependencies
}

// NewBootstrapper creates a new bootstrapper instance.
func NewBootstrapper(logger *slog.Logger, deps tools.ToolDependencies) *Bootstrapper {
	return &Bootstrapper{logger: logger, deps: deps}
}

// CreateMCPServer creates a new mcp-go server with tool capabilities.
func (b *Bootstrapper) CreateMCPServer(name, version string) *server.MCPServer {
	return server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
		server.WithRecovery(),
	)
}

// RegisterComponents builds the immutable tool registry and registers it
// with the MCP server.
func (b *Bootstrapper) RegisterComponents(mcpServer *server.MCPServer) error {
	registry, err := tools.NewRegistry(b.deps)
	if err != nil {
		return errors.Wrap(err, "failed to register components")
	}
	registry.Apply(mcpServer)

	b.logger.Info("tools registered", "count", len(registry.Operations()))
	return nil
}
