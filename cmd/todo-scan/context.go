package main

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/output"
	"github.com/todoscan/todo-scan/internal/search"
	"github.com/todoscan/todo-scan/internal/snapshot"
)

func newContextCmd(a *app) *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:     "context <file:line>",
		GroupID: GroupScan,
		Short:   "Show the code around a location and the other comments in its file",
		Long: `Prints the source lines around file:line, followed by the other tagged
comments in the same file. The path is relative to --root. Every format
other than text prints JSON.`,
		Example: `  todo-scan context src/parser.go:120
  todo-scan context src/parser.go:120 -C 10 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runContext(cmd, args[0], lines)
		},
	}
	cmd.Flags().IntVarP(&lines, "context", "C", 3, "Source lines to show before and after")
	return cmd
}

// parseLocation splits "file:line". The file keeps any colons of its own.
func parseLocation(loc string) (file string, line int, err error) {
	i := strings.LastIndex(loc, ":")
	if i <= 0 {
		return "", 0, usageErrorf("invalid location %q (expected file:line)", loc)
	}
	line, convErr := strconv.Atoi(loc[i+1:])
	if convErr != nil || line < 1 {
		return "", 0, usageErrorf("invalid line in %q (expected a positive number)", loc)
	}
	file = path.Clean(filepath.ToSlash(loc[:i]))
	if path.IsAbs(file) || file == ".." || strings.HasPrefix(file, "../") {
		return "", 0, usageErrorf("location %q must be inside the scan root", loc)
	}
	return file, line, nil
}

func (a *app) runContext(cmd *cobra.Command, loc string, lines int) error {
	if lines < 0 {
		return usageErrorf("--context must not be negative")
	}
	file, line, err := parseLocation(loc)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	env, err := a.newScanEnv(ctx, cfg)
	if err != nil {
		return err
	}
	data, err := snapshot.NewWorkingTree(env.root, env.filter).ReadFile(ctx, file)
	if err != nil {
		return err
	}
	items, err := env.scanner.Scan(file, data)
	if err != nil {
		return err
	}

	src := search.SplitLines(data)
	rich, ok := search.NewRich(file, line, lines, src, items)
	if !ok {
		return usageErrorf("%s has %d lines, no line %d", file, len(src), line)
	}
	return output.Context(a.stdout, a.format, rich)
}
