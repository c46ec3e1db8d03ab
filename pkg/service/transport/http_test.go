package transport

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	mcpServer := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(true))
	httpTransport := NewHTTPTransport(slog.Default(), 0)
	return httpTransport.Router(mcpServer)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_MountsProtocolEndpoints(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t)

	// The MCP endpoints are owned by the protocol library; just verify
	// they are wired into the router.
	for _, path := range []string{"/mcp", "/sse", "/messages"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
		require.NotEqual(t, http.StatusNotFound, rec.Code, "path %s should be routed", path)
	}
}

func TestNewHTTPTransport_DefaultPort(t *testing.T) {
	t.Parallel()

	httpTransport := NewHTTPTransport(slog.Default(), 0)

	require.Equal(t, 3000, httpTransport.port)
}
