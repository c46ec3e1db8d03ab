// Package transport exposes a built MCP server to clients: the stdio
// stream for local process-spawning clients, or the HTTP surface for
// networked ones.
package transport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
)

// TransportType selects how the server is exposed.
type TransportType string

const (
	TransportTypeStdio TransportType = "stdio"
	TransportTypeHTTP  TransportType = "http"
)

// Manager runs the selected transport and owns its lifetime.
type Manager struct {
	logger        *slog.Logger
	transportType TransportType
	httpPort      int
}

// NewManager creates a manager for the given transport selection.
func NewManager(logger *slog.Logger, transportType TransportType, httpPort int) *Manager {
	return &Manager{
		logger:        logger.With("component", "transport_manager"),
		transportType: transportType,
		httpPort:      httpPort,
	}
}

// Start serves the chosen transport and blocks until it stops or ctx is
// cancelled.
func (m *Manager) Start(ctx context.Context, mcpServer *server.MCPServer) error {
	switch m.transportType {
	case TransportTypeStdio:
		m.logger.Info("serving on stdio")
		return m.serveStdio(ctx, mcpServer)
	case TransportTypeHTTP:
		m.logger.Info("serving over http", "port", m.httpPort)
		return NewHTTPTransport(m.logger, m.httpPort).Serve(ctx, mcpServer)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or http)", m.transportType)
	}
}

// serveStdio runs the stdin/stdout stream. mcp-go owns the read loop; the
// goroutine hand-off lets cancellation win the select.
func (m *Manager) serveStdio(ctx context.Context, mcpServer *server.MCPServer) error {
	done := make(chan error, 1)
	go func() {
		done <- server.ServeStdio(mcpServer)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}
