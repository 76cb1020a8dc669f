// Package walker enumerates candidate source files under a root directory.
package walker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/todoscan/todo-scan/internal/debug"
)

// SniffLen is how many leading bytes are inspected for a NUL byte.
const SniffLen = 8000

// vcsDirs are never descended into.
var vcsDirs = map[string]bool{".git": true, ".hg": true, ".svn": true}

// Filter decides which relative paths are excluded from a scan. A path is
// excluded when any rule matches.
type Filter struct {
	dirs     map[string]bool
	patterns []*regexp.Regexp
	ignored  map[string]bool
}

// NewFilter builds a Filter. dirs are matched against every path component,
// patterns against the slash separated relative path, and ignored holds
// relative paths (files or directories) to drop along with their contents.
func NewFilter(dirs []string, patterns []*regexp.Regexp, ignored []string) *Filter {
	f := &Filter{
		dirs:     make(map[string]bool, len(dirs)),
		patterns: patterns,
		ignored:  make(map[string]bool, len(ignored)),
	}
	for _, d := range dirs {
		d = strings.Trim(filepath.ToSlash(d), "/")
		if d != "" {
			f.dirs[d] = true
		}
	}
	for _, p := range ignored {
		p = strings.Trim(filepath.ToSlash(p), "/")
		if p != "" {
			f.ignored[p] = true
		}
	}
	return f
}

// SkipDir reports whether the directory at rel should not be entered.
func (f *Filter) SkipDir(rel string) bool {
	name := rel
	if i := strings.LastIndexByte(rel, '/'); i >= 0 {
		name = rel[i+1:]
	}
	if vcsDirs[name] {
		return true
	}
	if f == nil {
		return false
	}
	return f.dirs[name] || f.ignored[rel]
}

// Excluded reports whether the file at rel is excluded.
func (f *Filter) Excluded(rel string) bool {
	parts := strings.Split(rel, "/")
	for i, part := range parts[:len(parts)-1] {
		if vcsDirs[part] {
			return true
		}
		if f != nil && (f.dirs[part] || f.ignored[strings.Join(parts[:i+1], "/")]) {
			return true
		}
	}
	if f == nil {
		return false
	}
	if f.ignored[rel] {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}

// IsBinary reports whether data looks like a binary file.
func IsBinary(data []byte) bool {
	if len(data) > SniffLen {
		data = data[:SniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// Walker yields candidate files under Root in lexical order.
type Walker struct {
	Root   string
	Filter *Filter
}

// New returns a Walker for root.
func New(root string, filter *Filter) *Walker {
	return &Walker{Root: root, Filter: filter}
}

// Files returns a lazy sequence of slash separated paths relative to Root.
// Regular files that are excluded or look binary are skipped. An error is
// yielded only when the walk cannot continue; the sequence ends after it.
func (w *Walker) Files(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(w.Root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				if path == w.Root {
					return err
				}
				debug.Logf("walker: skipping %s: %v\n", path, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if path == w.Root {
				return nil
			}
			rel, relErr := filepath.Rel(w.Root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if w.Filter.SkipDir(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if w.Filter.Excluded(rel) {
				return nil
			}
			if binary, sniffErr := sniffBinary(path); sniffErr == nil && binary {
				debug.Logf("walker: skipping binary file %s\n", rel)
				return nil
			}
			if !yield(rel, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStop) {
			yield("", err)
		}
	}
}

var errStop = errors.New("walk stopped")

// sniffBinary reads the head of the file at path. Read errors are returned
// so the caller can leave the failure to the scanner.
func sniffBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	buf := make([]byte, SniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return false, err
	}
	return IsBinary(buf[:n]), nil
}

// ComparePaths orders slash separated paths component by component, the
// order in which WalkDir visits them. It returns -1, 0 or +1.
func ComparePaths(a, b string) int {
	for {
		ai := strings.IndexByte(a, '/')
		bi := strings.IndexByte(b, '/')
		ah, bh := a, b
		if ai >= 0 {
			ah = a[:ai]
		}
		if bi >= 0 {
			bh = b[:bi]
		}
		if c := strings.Compare(ah, bh); c != 0 {
			return c
		}
		switch {
		case ai < 0 && bi < 0:
			return 0
		case ai < 0:
			return -1
		case bi < 0:
			return 1
		}
		a, b = a[ai+1:], b[bi+1:]
	}
}
