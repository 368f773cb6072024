package mcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"c4diagrammer/internal/config"
	"c4diagrammer/internal/logging"
	"c4diagrammer/internal/mermaid"
	"c4diagrammer/internal/prompts"
	"c4diagrammer/internal/sandbox"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	ServerName    = "C4Diagrammer"
	ServerVersion = "1.0.0"
)

const serverInstructions = "Tools for documenting a code base with README summaries and " +
	"Mermaid C4 diagrams. File access is limited to the allowed directories."

// Server represents an MCP server instance using mcp-go
type Server struct {
	config    *config.Config
	logger    *logging.AppLogger
	roots     *sandbox.Roots
	prompts   *prompts.Registry
	previewer *mermaid.Previewer
	mcpServer *server.MCPServer
}

// NewServer builds the server and registers every tool, prompt and resource. roots must
// already be verified.
func NewServer(cfg *config.Config, roots *sandbox.Roots, logger *logging.AppLogger) (*Server, error) {
	if roots == nil {
		return nil, sandbox.ErrNoRoots
	}

	registry, err := prompts.Load(cfg.Readme.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	s := &Server{
		config:  cfg,
		logger:  logger,
		roots:   roots,
		prompts: registry,
		previewer: mermaid.NewPreviewer(mermaid.PreviewOptions{
			TempDir:        cfg.Preview.TempDir,
			DeleteAfter:    cfg.Preview.DeleteAfter,
			BrowserCommand: cfg.Preview.BrowserCommand,
			OpenBrowser:    cfg.Preview.OpenBrowser,
		}, logger),
	}

	s.mcpServer = server.NewMCPServer(ServerName, ServerVersion,
		server.WithToolCapabilities(false),
		server.WithPromptCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions(serverInstructions),
		server.WithToolHandlerMiddleware(s.logToolCalls),
		server.WithRecovery(),
	)

	s.registerFileTools()
	s.registerReadmeTool()
	s.registerMermaidTools()
	s.registerPrompts()
	s.registerResources()

	logger.Info("MCP server initialized", "roots", roots.String(), "prompts", len(registry.List()))
	return s, nil
}

// MCPServer exposes the underlying mcp-go server, mainly for in-process clients.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Start serves JSON-RPC on the process's stdin and stdout until EOF or ctx is done.
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve serves JSON-RPC over the given streams.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	defer s.Stop()

	stdio := server.NewStdioServer(s.mcpServer)
	stdio.SetErrorLogger(s.logger.StandardLog())

	s.logger.Info("Secure MCP Filesystem Server running on stdio", "roots", s.roots.String())
	if err := stdio.Listen(ctx, in, out); err != nil && ctx.Err() == nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}
	return nil
}

// Stop removes preview pages that are still waiting to be deleted.
func (s *Server) Stop() {
	s.logger.Debug("Stopping MCP server", "pending_previews", s.previewer.Pending())
	s.previewer.Close()
}

func (s *Server) logToolCalls(next server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		start := time.Now()
		s.logger.LogToolCall(req.Params.Name, req.GetArguments())
		defer s.logger.LogPerformance(req.Params.Name, start)
		return next(ctx, req)
	}
}
