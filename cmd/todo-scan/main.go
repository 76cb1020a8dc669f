// Command todo-scan finds TODO/FIXME/HACK/XXX/BUG/NOTE comments in a source
// tree, diffs them across git revisions and enforces limits in CI.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/output"
	"github.com/todoscan/todo-scan/internal/telemetry"
	"github.com/todoscan/todo-scan/internal/ui"
)

// Command groups for help output.
const (
	GroupScan   = "scan"
	GroupCI     = "ci"
	GroupConfig = "config"
)

// app carries per-invocation state. Nothing here outlives one run, so
// tests can execute many commands in one process.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	root       string
	configPath string
	formatFlag string
	jsonOutput bool
	verbose    bool
	quiet      bool
	noColor    bool
	jobs       int
	strict     bool

	format output.Format
	now    func() time.Time
	// interactive reports whether prompts may be shown.
	interactive func() bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	return &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		format: output.FormatText,
		now:    time.Now,
		interactive: func() bool {
			return ui.IsTerminalWriter(stdout) && ui.IsTerminalWriter(os.Stdin)
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "todo-scan",
		Short: "todo-scan - track TODO comments across your codebase",
		Long: `Finds tagged comments (TODO, FIXME, HACK, XXX, BUG, NOTE) in a source tree,
compares them between git revisions, and enforces limits in CI.`,
		Version:       Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.SetVersionTemplate("todo-scan version {{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupScan, Title: "Scanning:"},
		&cobra.Group{ID: GroupCI, Title: "CI Gates:"},
		&cobra.Group{ID: GroupConfig, Title: "Setup & Configuration:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.root, "root", ".", "Directory to scan")
	pf.StringVar(&a.configPath, "config", "", "Config file (default: .todo-scan.toml in the scan root)")
	pf.StringVar(&a.formatFlag, "format", "text", "Output format: text, json, markdown, github-actions")
	pf.BoolVar(&a.jsonOutput, "json", false, "Output in JSON format (alias for --format json)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose/debug output")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "Suppress non-essential output (errors only)")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.IntVarP(&a.jobs, "jobs", "j", -1, "Concurrent file scans (default: config jobs, then number of CPUs)")
	pf.BoolVar(&a.strict, "strict", false, "Fail on the first unreadable file instead of skipping it")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		names := make([]string, len(output.Formats))
		for i, f := range output.Formats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newListCmd(a),
		newSearchCmd(a),
		newContextCmd(a),
		newBlameCmd(a),
		newDiffCmd(a),
		newBriefCmd(a),
		newStatsCmd(a),
		newWatchCmd(a),
		newCheckCmd(a),
		newLintCmd(a),
		newCleanCmd(a),
		newInitCmd(a),
		newConfigCmd(a),
		newCompletionsCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// setup applies global flags before any command runs.
func (a *app) setup(cmd *cobra.Command) error {
	debug.SetVerbose(a.verbose)
	debug.SetQuiet(a.quiet)

	if a.jsonOutput {
		a.format = output.FormatJSON
	} else {
		f, err := output.ParseFormat(a.formatFlag)
		if err != nil {
			return usageErrorf("%v", err)
		}
		a.format = f
	}

	// Structured formats never carry ANSI codes.
	ui.ApplyColorPolicy(a.noColor || a.format != output.FormatText)

	if err := telemetry.Init(cmd.Context(), "todo-scan", Version); err != nil {
		debug.Logf("telemetry disabled: %v\n", err)
	}
	return nil
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := newApp(stdin, stdout, stderr)
	restore := debug.SetOutput(stderr)
	defer restore()

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	telemetry.Shutdown(shutdownCtx)

	return a.exit(err)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
