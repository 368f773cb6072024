package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

const resourceMIMEType = "text/plain"

// PromptResourceURI is where a prompt's template is published for clients without prompt support.
func PromptResourceURI(name string) string {
	return "file://" + ServerName + "/" + name
}

func (s *Server) registerResources() {
	for _, p := range s.prompts.List() {
		name := p.Name
		uri := PromptResourceURI(name)
		resource := mcp.NewResource(uri, p.Description,
			mcp.WithResourceDescription(p.Description),
			mcp.WithMIMEType(resourceMIMEType),
		)

		s.mcpServer.AddResource(resource, func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			text, err := s.prompts.Placeholder(name)
			if err != nil {
				return nil, err
			}
			return []mcp.ResourceContents{
				mcp.TextResourceContents{URI: uri, MIMEType: resourceMIMEType, Text: text},
			}, nil
		})
	}
}
