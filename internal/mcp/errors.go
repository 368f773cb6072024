package mcp

import (
	"errors"
	"fmt"

	"c4diagrammer/internal/sandbox"

	"github.com/mark3labs/mcp-go/mcp"
)

// ArgumentError reports a tool argument that is missing or has the wrong shape.
type ArgumentError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("Argument '%s' %s", e.Field, e.Reason)
}

// Generic messages for filesystem failures. Details go to the log only.
var (
	errReadFailed  = errors.New("Error reading file")
	errWriteFailed = errors.New("Error writing file")
	errListFailed  = errors.New("Error listing directory")
)

func stringArg(tool string, args map[string]any, field string) (string, error) {
	v, ok := args[field]
	if !ok {
		return "", &ArgumentError{Tool: tool, Field: field, Reason: "must be a string"}
	}
	s, ok := v.(string)
	if !ok {
		return "", &ArgumentError{Tool: tool, Field: field, Reason: "must be a string"}
	}
	return s, nil
}

func pathArg(tool string, args map[string]any, field string) (string, error) {
	s, err := stringArg(tool, args, field)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", &ArgumentError{Tool: tool, Field: field, Reason: "must be a non-empty string"}
	}
	return s, nil
}

func stringSliceArg(tool string, args map[string]any, field string) ([]string, error) {
	invalid := &ArgumentError{Tool: tool, Field: field, Reason: "must be an array of string with at least one member"}

	var out []string
	switch v := args[field].(type) {
	case []string:
		out = v
	case []any:
		out = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, invalid
			}
			out = append(out, s)
		}
	default:
		return nil, invalid
	}
	if len(out) == 0 {
		return nil, invalid
	}
	return out, nil
}

// toolResult maps a handler outcome onto the MCP reply. Argument errors stay in band so
// the model can correct its call; everything else becomes a JSON-RPC error.
func toolResult(text string, err error) (*mcp.CallToolResult, error) {
	if err == nil {
		return mcp.NewToolResultText(text), nil
	}
	var argErr *ArgumentError
	if errors.As(err, &argErr) {
		return mcp.NewToolResultError(argErr.Error()), nil
	}
	return nil, err
}

// checkPath runs the sandbox and logs rejections.
func (s *Server) checkPath(tool, requested string) (string, error) {
	validated, err := s.roots.Validate(requested)
	if err != nil {
		if sandbox.IsViolation(err) {
			s.logger.LogAccessDenied(tool, requested, err)
		}
		return "", err
	}
	return validated, nil
}
