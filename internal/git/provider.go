package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/timeparsing"
)

// ValidateRef rejects refs that git could mistake for an option.
func ValidateRef(ref string) error {
	switch {
	case strings.TrimSpace(ref) == "":
		return &ProviderError{Op: "resolve", Ref: ref, Err: errors.New("empty ref")}
	case strings.HasPrefix(ref, "-"):
		return &ProviderError{Op: "resolve", Ref: ref, Err: errors.New("must not start with '-'")}
	}
	return nil
}

// ResolveRef returns the commit id ref points to.
func (r *Repo) ResolveRef(ctx context.Context, ref string) (string, error) {
	if err := ValidateRef(ref); err != nil {
		return "", err
	}
	out, err := run(ctx, r.Dir, "rev-parse", "--verify", "--quiet", ref+"^{commit}")
	if err != nil {
		return "", &ProviderError{Op: "resolve", Ref: ref, Err: errors.New("unknown revision")}
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitBefore returns the newest commit on HEAD's history made before t.
func (r *Repo) CommitBefore(ctx context.Context, t time.Time) (string, error) {
	stamp := t.Format(time.RFC3339)
	out, err := run(ctx, r.Dir, "rev-list", "-1", "--before="+stamp, "HEAD")
	if err != nil {
		return "", &ProviderError{Op: "rev-list", Ref: stamp, Err: err}
	}
	id := strings.TrimSpace(string(out))
	if id == "" {
		return "", &ProviderError{Op: "rev-list", Ref: stamp, Err: errors.New("no commit before this time")}
	}
	return id, nil
}

// ResolveSince resolves a --since value. Revisions win; anything that does
// not resolve is parsed as a date and mapped to the last commit before it.
func (r *Repo) ResolveSince(ctx context.Context, since string, now time.Time) (string, error) {
	if err := ValidateRef(since); err != nil {
		return "", err
	}
	id, refErr := r.ResolveRef(ctx, since)
	if refErr == nil {
		return id, nil
	}
	t, err := timeparsing.ParseSince(since, now)
	if err != nil {
		return "", refErr
	}
	debug.Logf("git: %q is not a revision, using last commit before %s\n", since, t.Format(time.RFC3339))
	return r.CommitBefore(ctx, t)
}

// TrackedFiles lists the regular files tracked at ref below Dir, relative
// to Dir. Symlinks and submodule entries are left out.
func (r *Repo) TrackedFiles(ctx context.Context, ref string) ([]string, error) {
	if err := ValidateRef(ref); err != nil {
		return nil, err
	}
	out, err := run(ctx, r.Dir, "ls-tree", "-r", "-z", ref)
	if err != nil {
		return nil, &ProviderError{Op: "ls-tree", Ref: ref, Err: fmt.Errorf("failed to list files: %w", err)}
	}
	var files []string
	for _, entry := range splitNUL(out) {
		// <mode> SP <type> SP <object> TAB <path>
		meta, path, ok := strings.Cut(entry, "\t")
		if !ok {
			continue
		}
		fields := strings.Fields(meta)
		if len(fields) != 3 || fields[1] != "blob" || fields[0] == "120000" {
			continue
		}
		files = append(files, path)
	}
	return files, nil
}

// ReadBlob returns the content of path (relative to Dir) at ref.
func (r *Repo) ReadBlob(ctx context.Context, ref, path string) ([]byte, error) {
	if err := ValidateRef(ref); err != nil {
		return nil, err
	}
	out, err := run(ctx, r.Dir, "cat-file", "blob", ref+":./"+path)
	if err != nil {
		return nil, &ProviderError{Op: "cat-file", Ref: ref, Err: fmt.Errorf("%s: %w", path, err)}
	}
	return out, nil
}

// IgnoredPaths lists untracked paths below Dir that .gitignore rules
// exclude. Wholly ignored directories are reported once with a trailing
// slash.
func (r *Repo) IgnoredPaths(ctx context.Context) ([]string, error) {
	out, err := run(ctx, r.Dir, "ls-files", "-z", "--others", "--ignored", "--exclude-standard", "--directory")
	if err != nil {
		return nil, &ProviderError{Op: "ls-files", Err: err}
	}
	return splitNUL(out), nil
}

func splitNUL(out []byte) []string {
	out = bytes.TrimRight(out, "\x00")
	if len(out) == 0 {
		return nil
	}
	parts := bytes.Split(out, []byte{0})
	paths := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) > 0 {
			paths = append(paths, string(p))
		}
	}
	return paths
}
