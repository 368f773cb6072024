package main

import (
	"errors"
	"fmt"

	"c4diagrammer/internal/config"
	"c4diagrammer/internal/logging"
	c4mcp "c4diagrammer/internal/mcp"
	"c4diagrammer/internal/sandbox"

	"github.com/spf13/cobra"
)

func newRootCmd(logger *logging.AppLogger) *cobra.Command {
	root := &cobra.Command{
		Use:   "c4diagrammer <allowed-directory> [additional-directories...]",
		Short: "MCP server that documents code bases with README summaries and C4 diagrams",
		Long: `c4diagrammer serves the Model Context Protocol on stdin/stdout.

File tools only touch paths inside the allowed directories. Directories given on the
command line replace allowed_directories from the config file.`,
		Example: `  # Serve a project to an MCP client
  c4diagrammer ~/src/project

  # Verify directories before adding the server to a client
  c4diagrammer check ~/src/project ~/src/shared`,
		Args:          cobra.ArbitraryArgs,
		Version:       c4mcp.ServerVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd, args, logger)
		},
	}

	root.AddCommand(
		newCheckCmd(logger),
		newPromptsCmd(),
		newConfigCmd(),
	)
	return root
}

// loadConfig loads the effective configuration with dirs replacing the configured roots.
func loadConfig(dirs []string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.OverrideAllowedDirectories(dirs)
	return cfg, nil
}

func serve(cmd *cobra.Command, args []string, logger *logging.AppLogger) error {
	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	roots, err := sandbox.NewRoots(cmd.Context(), cfg.AllowedDirectories)
	if err != nil {
		if errors.Is(err, sandbox.ErrNoRoots) {
			return fmt.Errorf("usage: %s: %w", cmd.Use, err)
		}
		return err
	}

	srv, err := c4mcp.NewServer(cfg, roots, logger)
	if err != nil {
		return err
	}
	return srv.Start(cmd.Context())
}
