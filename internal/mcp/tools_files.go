package mcp

import (
	"context"
	"fmt"
	"strings"

	"c4diagrammer/pkg/fileops"

	"github.com/mark3labs/mcp-go/mcp"
)

const (
	readFileTool      = "read_file"
	writeFileTool     = "write_file"
	listDirectoryTool = "list_directory"
)

type readFileArgs struct {
	FilePath string
}

func parseReadFileArgs(req mcp.CallToolRequest) (readFileArgs, error) {
	path, err := pathArg(readFileTool, req.GetArguments(), "filePath")
	if err != nil {
		return readFileArgs{}, err
	}
	return readFileArgs{FilePath: path}, nil
}

type writeFileArgs struct {
	FilePath string
	Content  string
}

func parseWriteFileArgs(req mcp.CallToolRequest) (writeFileArgs, error) {
	args := req.GetArguments()
	path, err := pathArg(writeFileTool, args, "filePath")
	if err != nil {
		return writeFileArgs{}, err
	}
	content, err := stringArg(writeFileTool, args, "content")
	if err != nil {
		return writeFileArgs{}, err
	}
	return writeFileArgs{FilePath: path, Content: content}, nil
}

type listDirectoryArgs struct {
	DirectoryPath string
}

func parseListDirectoryArgs(req mcp.CallToolRequest) (listDirectoryArgs, error) {
	path, err := pathArg(listDirectoryTool, req.GetArguments(), "directoryPath")
	if err != nil {
		return listDirectoryArgs{}, err
	}
	return listDirectoryArgs{DirectoryPath: path}, nil
}

func (s *Server) registerFileTools() {
	s.mcpServer.AddTool(mcp.NewTool(readFileTool,
		mcp.WithDescription("Read the complete contents of a file from the file system. "+
			"Handles various text encodings and provides detailed error messages "+
			"if the file cannot be read. Use this tool when you need to examine "+
			"the contents of a single file. Only works within allowed directories."),
		mcp.WithString("filePath", mcp.Required(), mcp.Description("The path to the file to read.")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleReadFile)

	s.mcpServer.AddTool(mcp.NewTool(writeFileTool,
		mcp.WithDescription("Create a new file or completely overwrite an existing file with new content. "+
			"Use with caution as it will overwrite existing files without warning. "+
			"Handles text content with proper encoding. Only works within allowed directories."),
		mcp.WithString("filePath", mcp.Required(), mcp.Description("The path to the file to write.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("The text to write to the file.")),
		mcp.WithDestructiveHintAnnotation(true),
	), s.handleWriteFile)

	s.mcpServer.AddTool(mcp.NewTool(listDirectoryTool,
		mcp.WithDescription("Get a detailed listing of all files and directories in a specified path. "+
			"Results clearly distinguish between files and directories with [FILE] and [DIR] "+
			"prefixes. This tool is essential for understanding directory structure and "+
			"finding specific files within a directory. Only works within allowed directories."),
		mcp.WithString("directoryPath", mcp.Required(), mcp.Description("The path to the directory to list.")),
		mcp.WithReadOnlyHintAnnotation(true),
	), s.handleListDirectory)
}

func (s *Server) handleReadFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.readFile(req))
}

func (s *Server) readFile(req mcp.CallToolRequest) (string, error) {
	args, err := parseReadFileArgs(req)
	if err != nil {
		return "", err
	}
	path, err := s.checkPath(readFileTool, args.FilePath)
	if err != nil {
		return "", err
	}

	text, err := fileops.ReadTextFile(path, s.config.Limits.MaxReadBytes)
	if err != nil {
		s.logger.Error("Failed to read file", "path", path, "error", err)
		return "", errReadFailed
	}
	return text, nil
}

func (s *Server) handleWriteFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.writeFile(req))
}

func (s *Server) writeFile(req mcp.CallToolRequest) (string, error) {
	args, err := parseWriteFileArgs(req)
	if err != nil {
		return "", err
	}
	path, err := s.checkPath(writeFileTool, args.FilePath)
	if err != nil {
		return "", err
	}

	if err := fileops.AtomicWriteFile(path, []byte(args.Content)); err != nil {
		s.logger.Error("Failed to write file", "path", path, "error", err)
		return "", errWriteFailed
	}
	s.logger.Info("File written", "path", path, "bytes", len(args.Content))
	return fmt.Sprintf("Successfully wrote to %s", args.FilePath), nil
}

func (s *Server) handleListDirectory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return toolResult(s.listDirectory(req))
}

func (s *Server) listDirectory(req mcp.CallToolRequest) (string, error) {
	args, err := parseListDirectoryArgs(req)
	if err != nil {
		return "", err
	}
	path, err := s.checkPath(listDirectoryTool, args.DirectoryPath)
	if err != nil {
		return "", err
	}

	entries, err := fileops.ListEntries(path)
	if err != nil {
		s.logger.Error("Failed to list directory", "path", path, "error", err)
		return "", errListFailed
	}
	return formatEntries(entries), nil
}

func formatEntries(entries []fileops.Entry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir {
			lines = append(lines, "[DIR] "+e.Name)
		} else {
			lines = append(lines, "[FILE] "+e.Name)
		}
	}
	return strings.Join(lines, "\n")
}
