package mcp

import (
	"context"

	"c4diagrammer/internal/readme"

	"github.com/mark3labs/mcp-go/mcp"
)

const shouldRegenerateReadmeTool = "should_regenerate_readme"

type shouldRegenerateArgs struct {
	Directory            string
	SourceFileExtensions []string
}

func parseShouldRegenerateArgs(req mcp.CallToolRequest) (shouldRegenerateArgs, error) {
	args := req.GetArguments()
	dir, err := pathArg(shouldRegenerateReadmeTool, args, "directory")
	if err != nil {
		return shouldRegenerateArgs{}, err
	}
	exts, err := stringSliceArg(shouldRegenerateReadmeTool, args, "sourceFileExtensions")
	if err != nil {
		return shouldRegenerateArgs{}, err
	}
	return shouldRegenerateArgs{Directory: dir, SourceFileExtensions: exts}, nil
}

func (s *Server) registerReadmeTool() {
	name := s.config.Readme.FileName
	s.mcpServer.AddTool(mcp.NewTool(shouldRegenerateReadmeTool,
		mcp.WithDescription("Determine if the "+name+" file should be regenerated for a given directory. "+
			"Returns 'True' if the "+name+" file should be regenerated, 'False' otherwise."),
		mcp.WithString("directory", mcp.Required(),
			mcp.Description("The directory to check for the timestamp of the "+name+" file.")),
		mcp.WithArray("sourceFileExtensions", mcp.Required(), mcp.MinItems(1), mcp.WithStringItems(),
			mcp.Description("The file extensions to use to check the timestamps of source files in the directory vs. the "+name+" file.")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleShouldRegenerateReadme)
}

func (s *Server) handleShouldRegenerateReadme(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.shouldRegenerateReadme(req))
}

func (s *Server) shouldRegenerateReadme(req mcp.CallToolRequest) (string, error) {
	args, err := parseShouldRegenerateArgs(req)
	if err != nil {
		return "", err
	}
	dir, err := s.checkPath(shouldRegenerateReadmeTool, args.Directory)
	if err != nil {
		return "", err
	}
	return readme.Answer(readme.ShouldRegenerate(dir, args.SourceFileExtensions, s.config.Readme.FileName)), nil
}
