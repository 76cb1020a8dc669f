package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/todoscan/todo-scan/internal/config"
	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/git"
	"github.com/todoscan/todo-scan/internal/grammar"
	"github.com/todoscan/todo-scan/internal/scanner"
	"github.com/todoscan/todo-scan/internal/snapshot"
	"github.com/todoscan/todo-scan/internal/types"
	"github.com/todoscan/todo-scan/internal/walker"
)

// loadConfig reads the config for the scan root and applies --jobs.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.root, a.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		debug.Logf("config: loaded %s\n", cfg.Path)
	}
	return cfg.WithJobs(a.jobs)
}

// scanEnv is everything needed to build snapshots of one root.
type scanEnv struct {
	root    string
	cfg     *config.Config
	scanner *scanner.Scanner
	filter  *walker.Filter
	builder *snapshot.Builder
	// repo is nil outside a git work tree.
	repo *git.Repo
}

func (a *app) newScanEnv(ctx context.Context, cfg *config.Config) (*scanEnv, error) {
	root, err := filepath.Abs(a.root)
	if err != nil {
		return nil, usageErrorf("invalid root %q: %v", a.root, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, usageErrorf("cannot scan %s: %v", a.root, err)
	}
	if !info.IsDir() {
		return nil, usageErrorf("cannot scan %s: not a directory", a.root)
	}

	g, err := grammar.New(cfg.Tags)
	if err != nil {
		return nil, &config.Error{Key: "tags", Err: err}
	}
	s := scanner.New(g)

	var repo *git.Repo
	if git.Available() {
		if repo, err = git.Open(ctx, root); err != nil {
			debug.Logf("git: %v\n", err)
			repo = nil
		} else if repo.IsWorktree(ctx) {
			debug.Logf("git: %s is a linked worktree\n", root)
		}
	}

	var ignored []string
	if cfg.RespectGitignore && repo != nil {
		if ignored, err = repo.IgnoredPaths(ctx); err != nil {
			debug.Logf("git: cannot list ignored paths: %v\n", err)
			ignored = nil
		}
	}

	return &scanEnv{
		root:    root,
		cfg:     cfg,
		scanner: s,
		filter:  walker.NewFilter(cfg.ExcludeDirs, cfg.Patterns(), ignored),
		builder: snapshot.NewBuilder(s, cfg.Jobs, a.strict),
		repo:    repo,
	}, nil
}

// requireRepo fails when the root is not inside a git work tree.
func (e *scanEnv) requireRepo() (*git.Repo, error) {
	if e.repo == nil {
		if !git.Available() {
			return nil, &git.ProviderError{Op: "open", Err: fmt.Errorf("git executable not found")}
		}
		return nil, &git.ProviderError{Op: "open", Err: fmt.Errorf("%s: %w", e.root, git.ErrNotRepository)}
	}
	return e.repo, nil
}

// resolveRef validates and resolves a revision before any scanning starts.
func (e *scanEnv) resolveRef(ctx context.Context, ref string) (string, error) {
	if err := git.ValidateRef(ref); err != nil {
		return "", err
	}
	repo, err := e.requireRepo()
	if err != nil {
		return "", err
	}
	return repo.ResolveRef(ctx, ref)
}

// resolveSince is resolveRef that also accepts dates.
func (a *app) resolveSince(ctx context.Context, e *scanEnv, since string) (string, error) {
	if err := git.ValidateRef(since); err != nil {
		return "", err
	}
	repo, err := e.requireRepo()
	if err != nil {
		return "", err
	}
	return repo.ResolveSince(ctx, since, a.now())
}

// head scans the working tree.
func (e *scanEnv) head(ctx context.Context) (*types.Snapshot, error) {
	snap, err := e.builder.Build(ctx, snapshot.NewWorkingTree(e.root, e.filter))
	if err != nil {
		return nil, err
	}
	reportSkipped(snap)
	return snap, nil
}

// base scans the tree at commit. label is what the user typed.
func (e *scanEnv) base(ctx context.Context, commit, label string) (*types.Snapshot, error) {
	snap, err := e.builder.Build(ctx, snapshot.NewGitTree(e.repo, commit, label, e.filter))
	if err != nil {
		return nil, err
	}
	reportSkipped(snap)
	return snap, nil
}

// headAndBase scans the working tree and commit concurrently. The two
// builds share no mutable state.
func (e *scanEnv) headAndBase(ctx context.Context, commit, label string) (head, base *types.Snapshot, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		head, err = e.head(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		base, err = e.base(gctx, commit, label)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return head, base, nil
}

func reportSkipped(snap *types.Snapshot) {
	if n := len(snap.Skipped); n > 0 {
		debug.PrintNormal("Skipped %d unreadable file(s) in %s (use --verbose for details)\n", n, snap.Ref)
	}
}
