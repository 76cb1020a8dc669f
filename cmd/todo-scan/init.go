package main

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/configfile"
	"github.com/todoscan/todo-scan/internal/debug"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		useYAML bool
		yes     bool
	)
	cmd := &cobra.Command{
		Use:     "init",
		GroupID: GroupConfig,
		Short:   "Create a .todo-scan.toml for this project",
		Long: `Writes a starter config to the scan root with the default tags and
exclude_dirs for the detected project types (Rust, JavaScript, Go, Python).

An existing config is only replaced after confirmation on an interactive
terminal. --yes never prompts, so it refuses to overwrite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format := configfile.TOML
			if useYAML {
				format = configfile.YAML
			}
			return a.runInit(format, yes)
		},
	}
	cmd.Flags().BoolVar(&useYAML, "yaml", false, "Write .todo-scan.yaml instead of TOML")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Accept defaults without prompting")
	return cmd
}

func (a *app) runInit(format configfile.Format, yes bool) error {
	root, err := filepath.Abs(a.root)
	if err != nil {
		return usageErrorf("invalid root %q: %v", a.root, err)
	}

	projects := configfile.Detect(root)
	if len(projects) > 0 {
		names := make([]string, len(projects))
		for i, p := range projects {
			names[i] = p.Name
		}
		debug.PrintNormal("Detected: %s\n", strings.Join(names, ", "))
	}

	overwrite := false
	if configfile.Exists(root, format) {
		if yes || !a.interactive() {
			return usageErrorf("%s already exists", format.FileName())
		}
		var confirmed bool
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(format.FileName() + " already exists. Overwrite it?").
				Affirmative("Overwrite").
				Negative("Cancel").
				Value(&confirmed),
		)).Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirmed {
			return usageErrorf("%s already exists", format.FileName())
		}
		overwrite = true
	}

	if _, err := configfile.Write(root, configfile.Starter(projects), format, overwrite); err != nil {
		return err
	}
	debug.PrintlnNormal("Created", format.FileName())
	return nil
}
