package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
)

// HTTPTransport serves the MCP server over HTTP: the Streamable HTTP
// endpoint at /mcp, the legacy SSE endpoint at /sse with its companion
// message-post endpoint at /messages, and a health check at /health.
type HTTPTransport struct {
	logger *slog.Logger
	port   int
}

// NewHTTPTransport creates a new HTTP transport.
func NewHTTPTransport(logger *slog.Logger, port int) *HTTPTransport {
	if port == 0 {
		port = 3000
	}
	return &HTTPTransport{
		logger: logger.With("component", "http_transport"),
		port:   port,
	}
}

// Router builds the HTTP handler tree for the given MCP server.
func (t *HTTPTransport) Router(mcpServer *server.MCPServer) http.Handler {
	streamable := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
	)
	sse := server.NewSSEServer(mcpServer,
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/messages"),
	)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/health", handleHealth)
	router.Handle("/mcp", streamable)
	router.Handle("/sse", sse.SSEHandler())
	router.Handle("/messages", sse.MessageHandler())

	return router
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Serve runs the HTTP transport until ctx is cancelled or the listener
// fails.
func (t *HTTPTransport) Serve(ctx context.Context, mcpServer *server.MCPServer) error {
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", t.port),
		Handler: t.Router(mcpServer),
	}

	done := make(chan error, 1)
	go func() {
		t.logger.Info("listening", "addr", httpServer.Addr)
		done <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		t.logger.Info("shutting down http transport")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-done:
		if err != nil && err != http.ErrServerClosed {
			t.logger.Error("http transport stopped with error", "error", err)
		}
		return err
	}
}
