// Package snapshot builds Snapshots by scanning every file of a tree, either
// the live working tree or a tree recorded in git.
package snapshot

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sort"

	"github.com/todoscan/todo-scan/internal/git"
	"github.com/todoscan/todo-scan/internal/scanner"
	"github.com/todoscan/todo-scan/internal/types"
	"github.com/todoscan/todo-scan/internal/walker"
)

// Source enumerates a tree's files and reads their content.
type Source interface {
	// Name identifies the tree: a ref, or types.WorkingTree.
	Name() string
	// Files yields slash separated paths in a stable order.
	Files(ctx context.Context) iter.Seq2[string, error]
	// ReadFile returns the content of a path yielded by Files.
	ReadFile(ctx context.Context, rel string) ([]byte, error)
}

// WorkingTree reads files from disk below Root.
type WorkingTree struct {
	Root   string
	Walker *walker.Walker
}

// NewWorkingTree returns a Source over the directory root.
func NewWorkingTree(root string, filter *walker.Filter) *WorkingTree {
	return &WorkingTree{Root: root, Walker: walker.New(root, filter)}
}

func (w *WorkingTree) Name() string { return types.WorkingTree }

func (w *WorkingTree) Files(ctx context.Context) iter.Seq2[string, error] {
	return w.Walker.Files(ctx)
}

func (w *WorkingTree) ReadFile(_ context.Context, rel string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(w.Root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, &scanner.FileReadError{Path: rel, Err: err}
	}
	return data, nil
}

// TreeReader is the part of git.Repo a GitTree needs.
type TreeReader interface {
	TrackedFiles(ctx context.Context, ref string) ([]string, error)
	ReadBlob(ctx context.Context, ref, path string) ([]byte, error)
}

var _ TreeReader = (*git.Repo)(nil)

// GitTree reads files from a git revision.
type GitTree struct {
	Repo   TreeReader
	Ref    string
	Label  string
	Filter *walker.Filter
}

// NewGitTree returns a Source over the tree at ref. label is reported as the
// snapshot name (the text the user supplied); it defaults to ref.
func NewGitTree(repo TreeReader, ref, label string, filter *walker.Filter) *GitTree {
	if label == "" {
		label = ref
	}
	return &GitTree{Repo: repo, Ref: ref, Label: label, Filter: filter}
}

func (g *GitTree) Name() string { return g.Label }

// Files lists tracked files in the same order the walker would visit them
// on disk. Listing failures are provider errors and end the sequence.
func (g *GitTree) Files(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		files, err := g.Repo.TrackedFiles(ctx, g.Ref)
		if err != nil {
			yield("", err)
			return
		}
		sort.Slice(files, func(i, j int) bool { return walker.ComparePaths(files[i], files[j]) < 0 })
		for _, rel := range files {
			if g.Filter.Excluded(rel) {
				continue
			}
			if !yield(rel, nil) {
				return
			}
		}
	}
}

func (g *GitTree) ReadFile(ctx context.Context, rel string) ([]byte, error) {
	data, err := g.Repo.ReadBlob(ctx, g.Ref, rel)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &scanner.FileReadError{Path: rel, Err: err}
	}
	return data, nil
}
