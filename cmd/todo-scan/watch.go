package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/output"
	"github.com/todoscan/todo-scan/internal/ui"
	"github.com/todoscan/todo-scan/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var maxItems int
	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: GroupScan,
		Short:   "Re-scan files as they change and report added or removed comments",
		Long: `Scans the working tree once, then watches it and prints an event whenever
a file's tagged comments change. With --format json each event is one JSON
object per line. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if maxItems < 0 {
				return usageErrorf("--max must not be negative")
			}
			return a.runWatch(cmd, maxItems)
		},
	}
	cmd.Flags().IntVar(&maxItems, "max", 0, "Warn when the total number of items reaches N (0 = never)")
	return cmd
}

func (a *app) runWatch(cmd *cobra.Command, maxItems int) error {
	ctx := cmd.Context()
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	env, err := a.newScanEnv(ctx, cfg)
	if err != nil {
		return err
	}
	snap, err := env.head(ctx)
	if err != nil {
		return err
	}

	index := watch.NewIndex(snap)
	debug.PrintNormal("Watching %s: %d items in %d files (Ctrl+C to stop)\n", env.root, len(snap.Items), snap.Files())

	var mu sync.Mutex
	onEvent := func(ev watch.Event) {
		mu.Lock()
		defer mu.Unlock()
		a.printWatchEvent(ev)
		if maxItems > 0 && ev.Total >= maxItems && ev.TotalDelta > 0 {
			fmt.Fprint(a.stderr, limitWarning(ev.Total, maxItems))
		}
	}
	w := watch.New(env.root, env.filter, env.scanner, index, onEvent)
	return w.Run(ctx)
}

func (a *app) printWatchEvent(ev watch.Event) {
	if a.format == output.FormatJSON {
		// One object per line so the stream can be piped into jq.
		if err := output.JSONLine(a.stdout, ev); err != nil {
			debug.Logf("watch: %v\n", err)
		}
		return
	}
	stamp := ui.RenderMuted(ev.Timestamp.Local().Format("15:04:05"))
	for i := range ev.Added {
		it := &ev.Added[i]
		fmt.Fprintf(a.stdout, "%s %s %s [%s] %s\n", stamp, ui.RenderPass("+"), it.Location(), it.Tag, it.Message)
	}
	for i := range ev.Removed {
		it := &ev.Removed[i]
		fmt.Fprintf(a.stdout, "%s %s %s [%s] %s\n", stamp, ui.RenderFail("-"), it.Location(), it.Tag, it.Message)
	}
	fmt.Fprintf(a.stdout, "%s %s (%+d)\n", stamp, ui.RenderAccent(fmt.Sprintf("total %d", ev.Total)), ev.TotalDelta)
}

// limitWarning is the --max warning line, empty under --quiet.
func limitWarning(total, limit int) string {
	if debug.IsQuiet() {
		return ""
	}
	label := "warning:"
	if ui.ShouldUseEmoji() {
		label = ui.IconWarn + " " + label
	}
	return fmt.Sprintf("%s %d items reaches the limit of %d\n", ui.RenderWarn(label), total, limit)
}
