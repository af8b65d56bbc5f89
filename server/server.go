/******************************************************************************
 * Copyright (c) 2025-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package server

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bytedreamer/DotNetFrameworkMCP/config"
	"github.com/bytedreamer/DotNetFrameworkMCP/executor"
	"github.com/bytedreamer/DotNetFrameworkMCP/global"
	"github.com/bytedreamer/DotNetFrameworkMCP/history"
	"github.com/bytedreamer/DotNetFrameworkMCP/logging"
)

// shutdownGracePeriod bounds how long shutdown waits for the transport
// and in-flight invocations to finish before giving up.
const shutdownGracePeriod = 10 * time.Second

// Server wraps the MCP server with the execution engine
type Server struct {
	config    *config.Config
	logger    *logging.Logger
	factory   *executor.Factory
	history   *history.Recorder
	mcpServer *server.MCPServer
	conns     sync.WaitGroup // active TCP connections
}

// New creates a new server instance
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	mcpServer := server.NewMCPServer(
		global.ProgramName,
		global.Version,
		server.WithToolCapabilities(true),
		server.WithLogging(),
	)

	srv := &Server{
		config:    cfg,
		logger:    logger,
		factory:   executor.NewFactory(cfg, logger),
		history:   history.New(cfg.HistoryPath(), logger),
		mcpServer: mcpServer,
	}

	if err := srv.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return srv, nil
}

// executionTool creates a tool with non-destructive execution annotations.
// Builds and test runs touch the local filesystem but never remove user
// data, and reach nothing beyond the local toolchain.
func (s *Server) executionTool(name string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append(opts, mcp.WithToolAnnotation(mcp.ToolAnnotation{
		ReadOnlyHint:    mcp.ToBoolPtr(false),
		DestructiveHint: mcp.ToBoolPtr(false),
		OpenWorldHint:   mcp.ToBoolPtr(false),
	}))
	return mcp.NewTool(name, opts...)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	s.mcpServer.AddTool(
		s.executionTool(global.ToolBuildProject,
			mcp.WithDescription("Build a .NET project or solution with MSBuild (or the dotnet CLI when configured). Returns success flag, parsed errors and warnings, elapsed time, and size-bounded raw output."),
			mcp.WithString("project_path",
				mcp.Description("Path to the .csproj or .sln file"),
				mcp.Required(),
			),
			mcp.WithString("configuration",
				mcp.Description("Build configuration, e.g. Debug or Release (default from server config)"),
			),
			mcp.WithString("platform",
				mcp.Description("Target platform, e.g. 'Any CPU' or x64 (default from server config)"),
			),
			mcp.WithBoolean("restore",
				mcp.Description("Restore NuGet packages before building (default from server config)"),
			),
		), s.handleBuildProject)

	s.mcpServer.AddTool(
		s.executionTool(global.ToolRunTests,
			mcp.WithDescription("Run the tests of a .NET test project with vstest.console (or the dotnet CLI when configured). Returns per-test outcomes, counts, elapsed time, and size-bounded raw output."),
			mcp.WithString("project_path",
				mcp.Description("Path to the test project file"),
				mcp.Required(),
			),
			mcp.WithString("filter",
				mcp.Description("Test case filter expression, e.g. 'FullyQualifiedName~MyTests'"),
			),
			mcp.WithBoolean("verbose",
				mcp.Description("Request detailed runner output (default: false)"),
			),
		), s.handleRunTests)

	return nil
}

// Run starts the MCP server with graceful shutdown. The transport is
// either the process's stdio or a TCP listener serving any number of
// concurrent connections, each handled independently.
func (s *Server) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	switch s.config.TransportMode() {
	case global.TransportTCP:
		go func() {
			errChan <- s.serveTCP(ctx, s.config.ListenAddress())
		}()
	default:
		go func() {
			// ServeStdio returns when stdin is closed (EOF) or on error
			errChan <- server.ServeStdio(s.mcpServer)
		}()
	}

	s.logger.Infof("MCP server started (%s transport)", s.config.TransportMode())

	select {
	case <-sigChan:
		s.logger.Info("Shutdown signal received")
		// Cancelling the root context stops the listener and propagates
		// into every in-flight invocation; drain so no child process
		// outlives the server.
		cancel()
		s.drain(errChan)
		if err := s.logger.Sync(); err != nil {
			s.logger.Warnf("Failed to flush logs on shutdown: %v", err)
		}
		s.logger.Info("Server stopped")
		return nil

	case err := <-errChan:
		cancel()
		s.drain(nil)
		if err != nil {
			s.logger.Errorf("Server error: %v", err)
			return fmt.Errorf("server error: %w", err)
		}
		// nil error means stdin was closed (EOF) - normal exit
		s.logger.Info("Connection closed, server exiting")
		return nil
	}
}

// drain waits for the transport goroutine and every tracked connection
// to finish so their child processes are reaped before the process
// exits. A nil errChan skips the transport wait. The wait is bounded by
// the shutdown grace period.
func (s *Server) drain(errChan <-chan error) {
	conns := make(chan struct{})
	go func() {
		s.conns.Wait()
		close(conns)
	}()

	deadline := time.After(shutdownGracePeriod)
	for errChan != nil || conns != nil {
		select {
		case <-errChan:
			errChan = nil
		case <-conns:
			conns = nil
		case <-deadline:
			s.logger.Warn("Shutdown grace period elapsed with work still in flight")
			return
		}
	}
}

// serveTCP listens on address and accepts connections until ctx is
// cancelled.
func (s *Server) serveTCP(ctx context.Context, address string) error {
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}
	s.logger.Infof("Listening on %s", address)
	return s.serveListener(ctx, listener)
}

// serveListener accepts connections until ctx is cancelled, serving
// each one on its own tracked goroutine with the newline-delimited
// JSON framing the stdio transport uses. Tracking lets shutdown wait
// for every connection's in-flight work.
func (s *Server) serveListener(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("accept failed: %w", err)
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.serveConnection(ctx, conn)
		}()
	}
}

// serveConnection drives one client connection to completion. Messages
// within a connection are processed in arrival order; a handler fault
// becomes an error response, never a disconnect.
func (s *Server) serveConnection(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	remote := conn.RemoteAddr()
	s.logger.Infof("Client connected: %s", remote)

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, conn, conn); err != nil && ctx.Err() == nil {
		s.logger.Warnf("Connection %s ended with error: %v", remote, err)
	}

	s.logger.Infof("Client disconnected: %s", remote)
}
