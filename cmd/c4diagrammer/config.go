package main

import (
	"fmt"
	"os"

	"c4diagrammer/internal/config"
	"c4diagrammer/internal/ui"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigPathCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		path  string
		force bool
	)

	cmd := &cobra.Command{
		Use:   "init [allowed-directory...]",
		Short: "Write a config file with default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.ConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
			}

			cfg := config.DefaultConfig()
			cfg.OverrideAllowedDirectories(args)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Check(true, path, "written"))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Write to this file instead of the default location")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.ConfigPath())
		},
	}
}
