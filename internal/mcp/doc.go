// Package mcp implements the C4Diagrammer Model Context Protocol server using mcp-go.
//
// The server lets an AI assistant read, write and list files below a fixed set of allowed
// directories, check whether a directory's generated README is stale, and detect, check
// and preview Mermaid diagrams. It also publishes the documentation prompts from the
// prompts package, both as MCP prompts and as resources for clients without prompt
// support.
//
// # Security
//
// Every path argument passes through sandbox.Roots.Validate before any filesystem
// access:
//   - paths are expanded, made absolute and cleaned before comparison
//   - symlinks are resolved and the target must stay inside an allowed directory
//   - new files are accepted only when their parent directory resolves inside the sandbox
//
// # Errors
//
// Malformed arguments come back as tool results flagged IsError, naming the field.
// Sandbox violations come back as JSON-RPC errors naming the offending path. Filesystem
// failures are logged and reported with a generic message.
//
// # Usage
//
// The server is started by the assistant as a subprocess and speaks JSON-RPC on
// stdin/stdout until EOF:
//
//	c4diagrammer /path/to/project [/other/dir ...]
//
// # References
//
// - Model Context Protocol: https://modelcontextprotocol.io
// - mcp-go Library: https://github.com/mark3labs/mcp-go
package mcp
