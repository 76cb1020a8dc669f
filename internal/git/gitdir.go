// Package git reads historical trees through the git command line.
//
// It is the only place todo-scan talks to git. Every call runs with an
// explicit working directory so scans of other roots never depend on the
// process working directory.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// ProviderError reports a git operation that failed. Commands that need a
// historical tree treat it as fatal.
type ProviderError struct {
	Op  string
	Ref string
	Err error
}

func (e *ProviderError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("git %s %q: %v", e.Op, e.Ref, e.Err)
	}
	return fmt.Sprintf("git %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrNotRepository is returned when the directory is not inside a work tree.
var ErrNotRepository = errors.New("not a git repository")

// Repo runs git commands against one work tree.
type Repo struct {
	// Dir is the directory commands run in.
	Dir string
	// Top is the work tree root.
	Top string
	// Prefix is Dir relative to Top, slash separated, "" at the root.
	Prefix string
}

// Available reports whether a git binary is on PATH.
func Available() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Open returns the Repo containing dir.
func Open(ctx context.Context, dir string) (*Repo, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, &ProviderError{Op: "open", Err: err}
	}
	out, err := run(ctx, abs, "rev-parse", "--show-toplevel", "--show-prefix")
	if err != nil {
		return nil, &ProviderError{Op: "open", Err: fmt.Errorf("%s: %w", abs, ErrNotRepository)}
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	r := &Repo{Dir: abs, Top: strings.TrimSpace(lines[0])}
	if len(lines) > 1 {
		r.Prefix = strings.Trim(strings.TrimSpace(lines[1]), "/")
	}
	return r, nil
}

// GitDir returns the repository's .git directory. In a worktree .git is a
// file, so the path comes from git rather than filepath.Join(top, ".git").
func (r *Repo) GitDir(ctx context.Context) (string, error) {
	out, err := run(ctx, r.Dir, "rev-parse", "--absolute-git-dir")
	if err != nil {
		return "", &ProviderError{Op: "rev-parse", Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

// IsWorktree reports whether r is a linked worktree rather than the main
// checkout, by comparing the git dir with --git-common-dir.
func (r *Repo) IsWorktree(ctx context.Context) bool {
	gitDir, err := r.GitDir(ctx)
	if err != nil {
		return false
	}
	out, err := run(ctx, r.Dir, "rev-parse", "--git-common-dir")
	if err != nil {
		return false
	}
	common := strings.TrimSpace(string(out))
	if !filepath.IsAbs(common) {
		common = filepath.Join(r.Dir, common)
	}
	return filepath.Clean(gitDir) != filepath.Clean(common)
}

// run executes git in dir and returns stdout. On failure the error carries
// git's stderr.
func run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return out, nil
}
