package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"cmdbmcp/internal/capability"
	"cmdbmcp/internal/config"
	"cmdbmcp/pkg/logging"
)

const (
	shutdownTimeout    = 5 * time.Second
	streamableEndpoint = "/mcp"
)

// Server serves a capability registry over MCP.
type Server struct {
	cfg       config.ServerConfig
	registry  *capability.Registry
	mcpServer *server.MCPServer

	stdin  io.Reader
	stdout io.Writer

	mu                   sync.Mutex
	sseServer            *server.SSEServer
	streamableHTTPServer *server.StreamableHTTPServer
}

// Option configures a Server.
type Option func(*Server)

// WithStdio overrides the streams used by the stdio transport.
func WithStdio(in io.Reader, out io.Writer) Option {
	return func(s *Server) {
		s.stdin = in
		s.stdout = out
	}
}

// New creates the MCP server and binds every capability of reg.
// reg should be sealed; capabilities registered afterwards are not exposed.
func New(cfg config.ServerConfig, reg *capability.Registry, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		registry: reg,
		stdin:    os.Stdin,
		stdout:   os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}

	serverOpts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithLogging(),
		server.WithRecovery(),
	}
	if cfg.Instructions != "" {
		serverOpts = append(serverOpts, server.WithInstructions(cfg.Instructions))
	}
	s.mcpServer = server.NewMCPServer(cfg.Name, cfg.Version, serverOpts...)

	if err := s.bind(); err != nil {
		return nil, err
	}
	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Serve runs the configured transport until ctx is cancelled or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	switch s.cfg.Transport {
	case config.MCPTransportSSE:
		addr := s.cfg.Addr()
		logging.Info("Server", "Starting MCP server with SSE transport on %s", addr)
		httpServer := newHTTPServer(addr)
		sseServer := server.NewSSEServer(
			s.mcpServer,
			server.WithHTTPServer(httpServer),
			server.WithBaseURL(fmt.Sprintf("http://%s", addr)),
			server.WithSSEEndpoint("/sse"),
			server.WithMessageEndpoint("/message"),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)
		httpServer.Handler = sseServer
		s.mu.Lock()
		s.sseServer = sseServer
		s.mu.Unlock()
		return s.serveHTTP(ctx, "SSE", func() error { return sseServer.Start(addr) })

	case config.MCPTransportStreamableHTTP:
		addr := s.cfg.Addr()
		logging.Info("Server", "Starting MCP server with streamable-http transport on %s", addr)
		httpServer := newHTTPServer(addr)
		streamableServer := server.NewStreamableHTTPServer(s.mcpServer, server.WithStreamableHTTPServer(httpServer))
		mux := http.NewServeMux()
		mux.Handle(streamableEndpoint, streamableServer)
		httpServer.Handler = mux
		s.mu.Lock()
		s.streamableHTTPServer = streamableServer
		s.mu.Unlock()
		return s.serveHTTP(ctx, "streamable HTTP", func() error { return streamableServer.Start(addr) })

	case config.MCPTransportStdio, "":
		logging.Info("Server", "Starting MCP server with stdio transport")
		stdioServer := server.NewStdioServer(s.mcpServer)
		err := stdioServer.Listen(ctx, s.stdin, s.stdout)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
			return fmt.Errorf("stdio server: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("unsupported transport '%s'", s.cfg.Transport)
	}
}

// newHTTPServer pre-creates the listener's http.Server so that Stop can shut
// it down even if Start has not run yet.
func newHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) serveHTTP(ctx context.Context, name string, start func() error) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s server: %w", name, err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Stop(shutdownCtx)
	}
}

// Stop shuts down any running HTTP transport. The stdio transport stops
// when the context passed to Serve is cancelled.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	sseServer := s.sseServer
	streamableServer := s.streamableHTTPServer
	s.sseServer = nil
	s.streamableHTTPServer = nil
	s.mu.Unlock()

	logging.Info("Server", "Stopping MCP server")

	var errs []error
	if sseServer != nil {
		if err := sseServer.Shutdown(ctx); err != nil {
			logging.Error("Server", err, "Error shutting down SSE server")
			errs = append(errs, err)
		}
	}
	if streamableServer != nil {
		if err := streamableServer.Shutdown(ctx); err != nil {
			logging.Error("Server", err, "Error shutting down streamable HTTP server")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
