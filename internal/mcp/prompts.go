package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	for _, p := range s.prompts.List() {
		opts := []mcp.PromptOption{mcp.WithPromptDescription(p.Description)}
		for _, arg := range p.Arguments {
			argOpts := []mcp.ArgumentOption{mcp.ArgumentDescription(arg.Description)}
			if arg.Required {
				argOpts = append(argOpts, mcp.RequiredArgument())
			}
			opts = append(opts, mcp.WithArgument(arg.Name, argOpts...))
		}
		s.mcpServer.AddPrompt(mcp.NewPrompt(p.Name, opts...), s.handleGetPrompt)
	}
}

func (s *Server) handleGetPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	text, err := s.prompts.Expand(req.Params.Name, req.Params.Arguments)
	if err != nil {
		s.logger.Warn("Prompt rejected", "prompt", req.Params.Name, "error", err)
		return nil, err
	}

	p, _ := s.prompts.Get(req.Params.Name)
	return mcp.NewGetPromptResult(p.Description, []mcp.PromptMessage{
		mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(text)),
	}), nil
}
