package main

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "config",
		GroupID: GroupConfig,
		Short:   "Print the effective configuration",
		Long: `Prints the configuration after merging defaults, the config file and
TODO_SCAN_* environment variables, as TOML (or JSON with --json).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Path != "" {
				debug.PrintNormal("# loaded from %s\n", cfg.Path)
			} else {
				debug.PrintNormal("# no config file found, showing defaults\n")
			}

			effective := cfg.Effective()
			if a.format == output.FormatJSON {
				return output.JSON(a.stdout, effective)
			}
			var buf bytes.Buffer
			if err := toml.NewEncoder(&buf).Encode(effective); err != nil {
				return err
			}
			_, err = a.stdout.Write(buf.Bytes())
			return err
		},
	}
}
