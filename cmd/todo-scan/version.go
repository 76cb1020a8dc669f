package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/output"
)

var (
	// Version is the current version of todo-scan (overridden by ldflags at build time)
	Version = "0.4.0"
	// Build can be set via ldflags at compile time
	Build = "dev"
	// Commit is the git revision the binary was built from (optional ldflag)
	Commit = ""
)

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			commit := resolveCommitHash()
			if a.format == output.FormatJSON {
				result := map[string]string{
					"version": Version,
					"build":   Build,
				}
				if commit != "" {
					result["commit"] = commit
				}
				return output.JSON(a.stdout, result)
			}
			_, err := fmt.Fprintln(a.stdout, FullVersionString())
			return err
		},
	}
}

func resolveCommitHash() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" && setting.Value != "" {
				return setting.Value
			}
		}
	}
	return ""
}

func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

// FullVersionString returns e.g. "todo-scan version 0.4.0 (dev: 280fbcf9a253)".
func FullVersionString() string {
	if commit := resolveCommitHash(); commit != "" {
		return fmt.Sprintf("todo-scan version %s (%s: %s)", Version, Build, shortCommit(commit))
	}
	return fmt.Sprintf("todo-scan version %s (%s)", Version, Build)
}
