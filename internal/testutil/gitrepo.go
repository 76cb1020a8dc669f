// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// WriteFile writes content to rel below root, creating parent directories.
func WriteFile(t testing.TB, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", rel, err)
	}
}

// RequireGit skips the test when no git binary is installed.
func RequireGit(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// GitRepo is a throwaway repository for tests.
type GitRepo struct {
	t   testing.TB
	Dir string
}

// NewGitRepo initialises an empty repository in a temp directory with a
// fixed identity. The test is skipped when git is unavailable.
func NewGitRepo(t testing.TB) *GitRepo {
	t.Helper()
	RequireGit(t)
	r := &GitRepo{t: t, Dir: t.TempDir()}
	r.Git("init", "-q")
	r.Git("config", "user.email", "test@example.com")
	r.Git("config", "user.name", "Test User")
	r.Git("config", "commit.gpgsign", "false")
	return r
}

// Git runs a git command in the repository and returns trimmed stdout.
func (r *GitRepo) Git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1")
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s failed: %v\nOutput: %s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// Write writes a file in the work tree.
func (r *GitRepo) Write(rel, content string) {
	r.t.Helper()
	WriteFile(r.t, r.Dir, rel, content)
}

// Remove deletes a file from the work tree.
func (r *GitRepo) Remove(rel string) {
	r.t.Helper()
	if err := os.Remove(filepath.Join(r.Dir, filepath.FromSlash(rel))); err != nil {
		r.t.Fatalf("Failed to remove %s: %v", rel, err)
	}
}

// Commit stages everything and commits, returning the new commit id.
// date, when non-empty, sets both author and committer dates.
func (r *GitRepo) Commit(msg, date string) string {
	r.t.Helper()
	r.Git("add", "-A")
	args := []string{"commit", "-q", "--allow-empty", "-m", msg}
	if date != "" {
		cmd := exec.Command("git", args...)
		cmd.Dir = r.Dir
		cmd.Env = append(os.Environ(), "GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date)
		if out, err := cmd.CombinedOutput(); err != nil {
			r.t.Fatalf("git commit failed: %v\nOutput: %s", err, out)
		}
	} else {
		r.Git(args...)
	}
	return r.Git("rev-parse", "HEAD")
}
