package clean

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNoGH is returned when the gh CLI is not installed.
var ErrNoGH = errors.New("gh executable not found (https://cli.github.com)")

// GitHubIssues resolves "#123" references with the gh CLI, against the
// GitHub repository of the checkout at Dir. Tracker keys such as PROJ-42
// are never reported closed.
type GitHubIssues struct {
	Dir string
	// command builds the gh invocation; tests replace it.
	command func(ctx context.Context, args ...string) *exec.Cmd
}

// NewGitHubIssues fails when gh is not on PATH.
func NewGitHubIssues(dir string) (*GitHubIssues, error) {
	if _, err := exec.LookPath("gh"); err != nil {
		return nil, ErrNoGH
	}
	return &GitHubIssues{Dir: dir}, nil
}

func (g *GitHubIssues) Closed(ctx context.Context, ref string) (bool, error) {
	num, ok := strings.CutPrefix(ref, "#")
	if !ok {
		return false, nil
	}
	if _, err := strconv.Atoi(num); err != nil {
		return false, nil
	}

	command := g.command
	if command == nil {
		command = func(ctx context.Context, args ...string) *exec.Cmd {
			return exec.CommandContext(ctx, "gh", args...)
		}
	}
	cmd := command(ctx, "issue", "view", num, "--json", "state", "--jq", ".state")
	cmd.Dir = g.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return false, fmt.Errorf("gh issue view %s: %w: %s", num, err, msg)
		}
		return false, fmt.Errorf("gh issue view %s: %w", num, err)
	}
	return strings.EqualFold(strings.TrimSpace(string(out)), "CLOSED"), nil
}
