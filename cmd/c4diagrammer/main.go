// Package main is the entry point for the c4diagrammer MCP server.
//
// Started without a subcommand it serves MCP over stdin/stdout, confined to the
// directories given as arguments (or allowed_directories from the config file):
//
//  1. Initialize logging (stderr, or the XDG state log file when DEBUG is set)
//  2. Load configuration and apply environment overrides
//  3. Verify every allowed directory, exiting non-zero naming the first bad one
//  4. Serve until the client closes stdin or the process is interrupted
//
// The check, prompts and config subcommands help set up and inspect the server from a
// terminal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"c4diagrammer/internal/logging"
)

func main() {
	appLogger := logging.NewAppLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(appLogger).ExecuteContext(ctx); err != nil {
		appLogger.Error("c4diagrammer failed", "error", err)
		stop()
		os.Exit(1)
	}
}
