package ui

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// PagerOptions controls pager behavior
type PagerOptions struct {
	// NoPager disables pager for this command (--no-pager flag)
	NoPager bool
}

// shouldUsePager determines if output should be piped to a pager.
// Returns false if:
// - NoPager option is set
// - TODO_SCAN_NO_PAGER environment variable is set
// - w is not a TTY (e.g., piped to another command)
func shouldUsePager(w io.Writer, opts PagerOptions) bool {
	if opts.NoPager {
		return false
	}
	if os.Getenv("TODO_SCAN_NO_PAGER") != "" {
		return false
	}
	return IsTerminalWriter(w)
}

// getPagerCommand returns the pager command to use.
// Checks TODO_SCAN_PAGER, then PAGER, defaults to "less".
func getPagerCommand() string {
	if pager := os.Getenv("TODO_SCAN_PAGER"); pager != "" {
		return pager
	}
	if pager := os.Getenv("PAGER"); pager != "" {
		return pager
	}
	return "less"
}

// terminalHeight returns the height of w in lines, or 0 when unknown.
func terminalHeight(w io.Writer) int {
	f, ok := w.(fder)
	if !ok {
		return 0
	}
	_, height, err := term.GetSize(int(f.Fd())) // #nosec G115 - fd fits in int
	if err != nil {
		return 0
	}
	return height
}

// contentHeight counts the number of lines in the content.
func contentHeight(content string) int {
	if content == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(content, "\n"), "\n") + 1
}

// ToPager writes content to w, through a pager when w is a terminal and
// the content does not fit on one screen.
func ToPager(w io.Writer, content string, opts PagerOptions) error {
	if !shouldUsePager(w, opts) {
		_, err := fmt.Fprint(w, content)
		return err
	}

	termHeight := terminalHeight(w)
	if termHeight > 0 && contentHeight(content) <= termHeight-1 {
		_, err := fmt.Fprint(w, content)
		return err
	}

	// May include arguments like "less -R".
	parts := strings.Fields(getPagerCommand())
	if len(parts) == 0 {
		_, err := fmt.Fprint(w, content)
		return err
	}

	cmd := exec.Command(parts[0], parts[1:]...) // #nosec G204 - pager command is user-configurable
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = w
	cmd.Stderr = os.Stderr

	// -R: Allow ANSI color codes
	// -F: Quit if content fits on one screen
	// -X: Don't clear screen on exit
	if os.Getenv("LESS") == "" {
		cmd.Env = append(os.Environ(), "LESS=-RFX")
	} else {
		cmd.Env = os.Environ()
	}

	return cmd.Run()
}
