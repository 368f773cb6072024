package mcp

import (
	"context"
	"errors"

	"c4diagrammer/internal/mermaid"
	"c4diagrammer/pkg/fileops"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	detectMermaidTool          = "detect_mermaid_diagram_type"
	parseMermaidTool           = "parse_mermaid"
	previewMermaidTool         = "preview_mermaid"
	previewExistingMermaidTool = "preview_existing_mermaid_diagram"
)

const mermaidParamDesc = "The mermaid.js diagram markdown text to process to see if a valid mermaid diagram is present."

type mermaidArgs struct {
	Mermaid string
}

func parseMermaidArgs(tool string, req mcp.CallToolRequest) (mermaidArgs, error) {
	text, err := stringArg(tool, req.GetArguments(), "mermaid")
	if err != nil {
		return mermaidArgs{}, err
	}
	return mermaidArgs{Mermaid: text}, nil
}

type previewExistingArgs struct {
	FilePath string
}

func parsePreviewExistingArgs(req mcp.CallToolRequest) (previewExistingArgs, error) {
	path, err := pathArg(previewExistingMermaidTool, req.GetArguments(), "filePath")
	if err != nil {
		return previewExistingArgs{}, err
	}
	return previewExistingArgs{FilePath: path}, nil
}

func (s *Server) registerMermaidTools() {
	s.mcpServer.AddTool(mcp.NewTool(detectMermaidTool,
		mcp.WithDescription("Detect the mermaid diagram type represented in a text string. "+
			"Returns the detected diagram type if possible, otherwise an empty string."),
		mcp.WithString("mermaid", mcp.Required(), mcp.Description(mermaidParamDesc)),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleDetectMermaid)

	s.mcpServer.AddTool(mcp.NewTool(parseMermaidTool,
		mcp.WithDescription("Parse a mermaid diagram represented in a text string. "+
			"Returns 'No errors' if the mermaid is parsed correctly, else an error message."),
		mcp.WithString("mermaid", mcp.Required(), mcp.Description(mermaidParamDesc)),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleParseMermaid)

	s.mcpServer.AddTool(mcp.NewTool(previewMermaidTool,
		mcp.WithDescription("Preview a mermaid diagram represented in a text string using the default browser. "+
			"Returns the path of the preview page, or an empty string if the preview failed."),
		mcp.WithString("mermaid", mcp.Required(), mcp.Description(mermaidParamDesc)),
		mcp.WithOpenWorldHintAnnotation(true),
	), s.handlePreviewMermaid)

	s.mcpServer.AddTool(mcp.NewTool(previewExistingMermaidTool,
		mcp.WithDescription("Preview a mermaid diagram from an existing markdown file using the default browser. "+
			"Returns the path of the preview page, or an empty string if the preview failed."),
		mcp.WithString("filePath", mcp.Required(), mcp.Description("The path to the mermaid file to preview.")),
		mcp.WithOpenWorldHintAnnotation(true),
	), s.handlePreviewExistingMermaid)
}

func (s *Server) handleDetectMermaid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseMermaidArgs(detectMermaidTool, req)
	if err != nil {
		return toolResult("", err)
	}
	return toolResult(mermaid.Detect(args.Mermaid), nil)
}

func (s *Server) handleParseMermaid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseMermaidArgs(parseMermaidTool, req)
	if err != nil {
		return toolResult("", err)
	}
	return toolResult(describeParse(mermaid.Validate(args.Mermaid)), nil)
}

func describeParse(err error) string {
	switch {
	case err == nil:
		return "No errors"
	case errors.Is(err, mermaid.ErrEmptyDiagram):
		return "Empty diagram"
	default:
		return err.Error()
	}
}

func (s *Server) handlePreviewMermaid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseMermaidArgs(previewMermaidTool, req)
	if err != nil {
		return toolResult("", err)
	}

	path, err := s.previewer.Preview(ctx, args.Mermaid)
	if err != nil {
		s.logger.Warn("Preview failed", "tool", previewMermaidTool, "error", err)
		return toolResult("", nil)
	}
	return toolResult(path, nil)
}

func (s *Server) handlePreviewExistingMermaid(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.previewExisting(ctx, req))
}

func (s *Server) previewExisting(ctx context.Context, req mcp.CallToolRequest) (string, error) {
	args, err := parsePreviewExistingArgs(req)
	if err != nil {
		return "", err
	}
	path, err := s.checkPath(previewExistingMermaidTool, args.FilePath)
	if err != nil {
		return "", err
	}

	source, err := fileops.ReadTextFile(path, s.config.Limits.MaxReadBytes)
	if err != nil {
		s.logger.Error("Failed to read diagram file", "path", path, "error", err)
		return "", errReadFailed
	}

	page, err := s.previewer.PreviewMarkdown(ctx, []byte(source))
	if err != nil {
		s.logger.Warn("Preview failed", "tool", previewExistingMermaidTool, "path", path, "error", err)
		return "", nil
	}
	return page, nil
}
