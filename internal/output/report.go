package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/todoscan/todo-scan/internal/report"
	"github.com/todoscan/todo-scan/internal/ui"
)

// Brief writes a brief summary. budget > 0 caps text output lines.
func Brief(w io.Writer, f Format, b *report.Brief, budget int) error {
	if f == FormatJSON {
		return JSON(w, b)
	}

	var s strings.Builder
	fmt.Fprintf(&s, "%d items in %d files\n", b.TotalItems, b.TotalFiles)
	fmt.Fprintf(&s, "priority: %d urgent, %d high, %d normal\n",
		b.PriorityCounts.Urgent, b.PriorityCounts.High, b.PriorityCounts.Normal)
	if b.TopUrgent != nil {
		fmt.Fprintf(&s, "top: %s %s\n", ui.RenderMuted(b.TopUrgent.Location()), itemText(b.TopUrgent))
	}
	if b.Trend != nil {
		fmt.Fprintf(&s, "trend: %s %s (base: %s)\n",
			addedColor.Sprintf("+%d", b.Trend.Added), removedColor.Sprintf("-%d", b.Trend.Removed), b.Trend.BaseRef)
	}
	_, err := io.WriteString(w, ui.TruncateLines(s.String(), budget))
	return err
}

// Stats writes a statistics breakdown.
func Stats(w io.Writer, f Format, st *report.Stats) error {
	if f == FormatJSON {
		return JSON(w, st)
	}

	var s strings.Builder
	fmt.Fprintf(&s, "%d items in %d files (%d files scanned)\n\n", st.TotalItems, st.TotalFiles, st.FilesScanned)

	s.WriteString(ui.RenderCategory("Tags") + "\n")
	for _, tc := range st.TagCounts {
		fmt.Fprintf(&s, "  %-8s %d\n", tc.Tag, tc.Count)
	}

	s.WriteString("\n" + ui.RenderCategory("Priority") + "\n")
	fmt.Fprintf(&s, "  %-8s %d\n", "urgent", st.PriorityCounts.Urgent)
	fmt.Fprintf(&s, "  %-8s %d\n", "high", st.PriorityCounts.High)
	fmt.Fprintf(&s, "  %-8s %d\n", "normal", st.PriorityCounts.Normal)

	if len(st.AuthorCounts) > 0 {
		s.WriteString("\n" + ui.RenderCategory("Authors") + "\n")
		for _, ac := range st.AuthorCounts {
			fmt.Fprintf(&s, "  %-16s %d\n", ac.Author, ac.Count)
		}
	}

	if len(st.HotspotFiles) > 0 {
		s.WriteString("\n" + ui.RenderCategory("Hotspots") + "\n")
		for _, fc := range st.HotspotFiles {
			fmt.Fprintf(&s, "  %4d  %s\n", fc.Count, fc.File)
		}
	}

	if st.Trend != nil {
		fmt.Fprintf(&s, "\ntrend: %s %s (base: %s)\n",
			addedColor.Sprintf("+%d", st.Trend.Added), removedColor.Sprintf("-%d", st.Trend.Removed), st.Trend.BaseRef)
	}
	_, err := io.WriteString(w, s.String())
	return err
}
