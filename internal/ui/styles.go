// Package ui provides terminal styling for todo-scan CLI output.
// Uses the Ayu color theme with adaptive light/dark mode support.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/todoscan/todo-scan/internal/types"
)

// Ayu theme color palette
// Dark: https://terminalcolors.com/themes/ayu/dark/
// Light: https://terminalcolors.com/themes/ayu/light/
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
	ColorInfo = lipgloss.AdaptiveColor{
		Light: "#4cbf99",
		Dark:  "#95e6cb",
	}
)

// Status styles - consistent across all commands
var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	InfoStyle   = lipgloss.NewStyle().Foreground(ColorInfo)
)

// CategoryStyle for group headers - bold with accent color
var CategoryStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// Status icons
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
)

// RenderPass renders text with pass (green) styling
func RenderPass(s string) string {
	return PassStyle.Render(s)
}

// RenderWarn renders text with warning (yellow) styling
func RenderWarn(s string) string {
	return WarnStyle.Render(s)
}

// RenderFail renders text with fail (red) styling
func RenderFail(s string) string {
	return FailStyle.Render(s)
}

// RenderMuted renders text with muted (gray) styling
func RenderMuted(s string) string {
	return MutedStyle.Render(s)
}

// RenderAccent renders text with accent (blue) styling
func RenderAccent(s string) string {
	return AccentStyle.Render(s)
}

// RenderCategory renders a group header with accent color
func RenderCategory(s string) string {
	return CategoryStyle.Render(s)
}

// tagStyle picks a color by how severe the tag is.
func tagStyle(t types.Tag) lipgloss.Style {
	switch sev := t.Severity(); {
	case sev >= types.TagFixme.Severity():
		return FailStyle.Bold(true)
	case sev >= types.TagHack.Severity():
		return WarnStyle
	case t == types.TagNote:
		return InfoStyle
	default:
		return AccentStyle
	}
}

// RenderTag renders "[TAG]" colored by severity.
func RenderTag(t types.Tag) string {
	return tagStyle(t).Render("[" + string(t) + "]")
}

// RenderPriority renders the priority marker ("", "!" or "!!").
func RenderPriority(p types.Priority) string {
	m := p.Marker()
	switch p {
	case types.PriorityUrgent:
		return FailStyle.Bold(true).Render(m)
	case types.PriorityHigh:
		return WarnStyle.Render(m)
	default:
		return m
	}
}

// RenderCheck renders the PASS / FAIL verdict line prefix.
func RenderCheck(passed bool) string {
	if passed {
		return PassStyle.Bold(true).Render("PASS")
	}
	return FailStyle.Bold(true).Render("FAIL")
}
