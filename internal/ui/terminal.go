package ui

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// fder is satisfied by *os.File.
type fder interface {
	Fd() uintptr
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return IsTerminalWriter(os.Stdout)
}

// IsTerminalWriter reports whether w is backed by a terminal.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(fder)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) // #nosec G115 - fd fits in int
}

// Width returns the terminal width of w, or fallback when unknown.
func Width(w io.Writer, fallback int) int {
	f, ok := w.(fder)
	if !ok {
		return fallback
	}
	width, _, err := term.GetSize(int(f.Fd())) // #nosec G115 - fd fits in int
	if err != nil || width <= 0 {
		return fallback
	}
	return width
}

// ShouldUseColor follows the NO_COLOR and CLICOLOR conventions:
//   - NO_COLOR set (any value): no color
//   - CLICOLOR=0: no color
//   - CLICOLOR_FORCE set and not "0": color even when not a TTY
//   - otherwise color only on a terminal
func ShouldUseColor() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if v := os.Getenv("CLICOLOR_FORCE"); v != "" && v != "0" {
		return true
	}
	return IsTerminal()
}

// ShouldUseEmoji reports whether status icons should be printed.
// TODO_SCAN_NO_EMOJI disables them.
func ShouldUseEmoji() bool {
	if os.Getenv("TODO_SCAN_NO_EMOJI") != "" {
		return false
	}
	return IsTerminal()
}

// ApplyColorPolicy configures lipgloss and fatih/color for this process.
// noColor forces plain output regardless of the environment.
func ApplyColorPolicy(noColor bool) {
	if noColor || !ShouldUseColor() {
		lipgloss.SetColorProfile(termenv.Ascii)
		color.NoColor = true
		return
	}
	if !IsTerminal() {
		// CLICOLOR_FORCE into a pipe: termenv would detect Ascii.
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
	color.NoColor = false
}
