package main

import (
	"fmt"
	"strings"
	"time"

	"c4diagrammer/internal/prompts"
	"c4diagrammer/internal/ui"

	"github.com/spf13/cobra"
)

const outputWidth = 80

func newPromptsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompts",
		Short: "Inspect the documentation prompts the server offers",
	}
	cmd.AddCommand(newPromptsListCmd(), newPromptsShowCmd())
	return cmd
}

func loadPrompts() (*prompts.Registry, error) {
	cfg, err := loadConfig(nil)
	if err != nil {
		return nil, err
	}
	return prompts.Load(cfg.Readme.FileName)
}

func newPromptsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List prompts and their arguments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadPrompts()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range registry.List() {
				fmt.Fprintln(out, ui.TitleStyle.Render(p.Name))
				fmt.Fprintln(out, ui.WrapIndented(p.Description, outputWidth, 2))
				if len(p.Arguments) > 0 {
					fmt.Fprintln(out, ui.PanelStyle.Render(describeArguments(p.Arguments)))
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func describeArguments(args []prompts.Argument) string {
	lines := make([]string, 0, len(args))
	for _, arg := range args {
		var tags []string
		if arg.Required {
			tags = append(tags, "required")
		}
		if arg.Default != "" {
			tags = append(tags, "default "+arg.Default)
		}
		if arg.Numeric {
			tags = append(tags, "number")
		}
		if len(arg.Enum) > 0 {
			tags = append(tags, "one of "+strings.Join(arg.Enum, "|"))
		}

		head := ui.PathStyle.Render(arg.Name)
		if len(tags) > 0 {
			head += " " + ui.SubtitleStyle.Render("("+strings.Join(tags, ", ")+")")
		}
		lines = append(lines, head, ui.WrapIndented(arg.Description, outputWidth-4, 2))
	}
	return strings.Join(lines, "\n")
}

func newPromptsShowCmd() *cobra.Command {
	var (
		rawArgs []string
		raw     bool
	)

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a prompt expanded with the given arguments",
		Example: `  c4diagrammer prompts show generate_rollup_c4_diagram \
    --arg RootDirectory=/src/project --arg C4Type=C4Container`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseArgFlags(rawArgs)
			if err != nil {
				return err
			}
			registry, err := loadPrompts()
			if err != nil {
				return err
			}
			text, err := registry.Expand(args[0], values)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintln(out, text)
				return nil
			}
			style := ui.DetectGlamourStyle(out, 100*time.Millisecond)
			rendered, err := ui.RenderMarkdown(text, style, outputWidth)
			if err != nil {
				return err
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&rawArgs, "arg", nil, "Prompt argument as NAME=VALUE (repeatable)")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the prompt text without markdown rendering")
	return cmd
}

func parseArgFlags(raw []string) (map[string]string, error) {
	values := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --arg %q, expected NAME=VALUE", kv)
		}
		values[name] = value
	}
	return values, nil
}
