package main

import (
	"errors"
	"fmt"
	"strings"

	"c4diagrammer/internal/config"
	"c4diagrammer/internal/logging"
	"c4diagrammer/internal/sandbox"
	"c4diagrammer/internal/ui"

	"github.com/spf13/cobra"
)

var errCheckFailed = errors.New("one or more allowed directories failed verification")

func newCheckCmd(logger *logging.AppLogger) *cobra.Command {
	return &cobra.Command{
		Use:   "check [allowed-directory...]",
		Short: "Verify the allowed directories and show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args)
			if err != nil {
				return err
			}
			return runCheck(cmd, cfg, logger)
		},
	}
}

func runCheck(cmd *cobra.Command, cfg *config.Config, logger *logging.AppLogger) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.TitleStyle.Render("Allowed directories"))

	if len(cfg.AllowedDirectories) == 0 {
		fmt.Fprintln(out, ui.Check(false, "(none)", sandbox.ErrNoRoots.Error()))
		return sandbox.ErrNoRoots
	}

	failed := false
	for _, dir := range cfg.AllowedDirectories {
		roots, err := sandbox.NewRoots(cmd.Context(), []string{dir})
		if err != nil {
			failed = true
			logger.Debug("Directory failed verification", "dir", dir, "error", err)
			fmt.Fprintln(out, ui.Check(false, dir, err.Error()))
			continue
		}
		fmt.Fprintln(out, ui.Check(true, dir, "→ "+strings.Join(roots.Dirs(), ", ")))
	}

	fmt.Fprintln(out, ui.HelpStyle.Render(fmt.Sprintf(
		"config: %s\nreadme: %s  preview lifetime: %s  read limit: %d bytes",
		config.ConfigPath(), cfg.Readme.FileName, cfg.Preview.DeleteAfter, cfg.Limits.MaxReadBytes,
	)))

	if failed {
		return errCheckFailed
	}
	return nil
}
