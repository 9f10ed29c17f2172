package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// defaultHTTPAddr keeps HTTP transport bound to localhost unless configured.
const defaultHTTPAddr = "localhost:8081"

// Run is the service entrypoint for MCP and blocks until context cancellation.
// It serves stdio for local tools and HTTP for remote integrations.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Transport == "" {
		cfg.Transport = TransportStdio
	}

	switch cfg.Transport {
	case TransportStdio:
		return runWithTransport(ctx, cfg, &mcp.StdioTransport{})
	case TransportHTTP:
		return runWithHTTPTransport(ctx, cfg)
	default:
		releaseCloser(cfg.Closer)
		return fmt.Errorf("transport %q is not supported", cfg.Transport)
	}
}

// runWithTransport creates a server and serves it over the provided transport.
func runWithTransport(ctx context.Context, cfg Config, transport mcp.Transport) error {
	server, err := New(cfg.Roller, cfg.Closer)
	if err != nil {
		releaseCloser(cfg.Closer)
		return err
	}
	return server.serveWithTransport(ctx, transport)
}

// runWithHTTPTransport creates a server and serves it over streamable HTTP.
func runWithHTTPTransport(ctx context.Context, cfg Config) error {
	httpAddr := cfg.HTTPAddr
	if httpAddr == "" {
		httpAddr = defaultHTTPAddr
	}

	server, err := New(cfg.Roller, cfg.Closer)
	if err != nil {
		releaseCloser(cfg.Closer)
		return err
	}
	defer server.Close()

	return NewHTTPTransport(httpAddr, server.mcpServer).Start(ctx)
}

// Serve starts the MCP server on stdio and blocks until it stops or the context ends.
func (s *Server) Serve(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

// Close releases the resources held by the server.
func (s *Server) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	if err := s.closer.Close(); err != nil {
		return err
	}
	s.closer = nil
	return nil
}

// serveWithTransport starts the MCP server using the provided transport and
// closes the server's resources on exit.
func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	if s == nil || s.mcpServer == nil {
		return fmt.Errorf("MCP server is not configured")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	err := s.mcpServer.Run(ctx, transport)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	closeErr := s.Close()
	if closeErr != nil {
		if err == nil {
			return fmt.Errorf("close server resources: %w", closeErr)
		}
		return fmt.Errorf("serve MCP: %v; close server resources: %w", err, closeErr)
	}
	if err != nil {
		return fmt.Errorf("serve MCP: %w", err)
	}
	return nil
}

// releaseCloser closes resources handed to a server that never started.
func releaseCloser(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		log.Printf("close server resources: %v", err)
	}
}
