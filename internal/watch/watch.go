package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/scanner"
	"github.com/todoscan/todo-scan/internal/walker"
)

// DefaultDebounce coalesces bursts of writes such as editor saves.
const DefaultDebounce = 300 * time.Millisecond

// Watcher re-scans changed files below Root and reports index changes.
type Watcher struct {
	Root     string
	Filter   *walker.Filter
	Scanner  *scanner.Scanner
	Index    *Index
	Debounce time.Duration

	// OnEvent receives each change, in path order per debounce window.
	OnEvent func(Event)
	// Ready, when set, is closed once the initial directories are watched.
	Ready chan struct{}

	now func() time.Time
}

// New returns a Watcher with the default debounce.
func New(root string, filter *walker.Filter, s *scanner.Scanner, index *Index, onEvent func(Event)) *Watcher {
	return &Watcher{
		Root:     root,
		Filter:   filter,
		Scanner:  s,
		Index:    index,
		Debounce: DefaultDebounce,
		OnEvent:  onEvent,
		now:      time.Now,
	}
}

// Run watches until ctx is cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer func() { _ = fw.Close() }() // Best effort cleanup

	if _, err := w.addTree(fw, w.Root); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	if w.Ready != nil {
		close(w.Ready)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = map[string]bool{}
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.note(fw, ev, pending) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.flush(pending)
			pending = map[string]bool{}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			debug.Logf("watch error: %v\n", err)
		}
	}
}

// note records the paths affected by ev and reports whether any were.
func (w *Watcher) note(fw *fsnotify.Watcher, ev fsnotify.Event, pending map[string]bool) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	rel, ok := w.rel(ev.Name)
	if !ok {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if w.Filter.SkipDir(rel) {
				return false
			}
			files, err := w.addTree(fw, ev.Name)
			if err != nil {
				debug.Logf("watch: cannot add %s: %v\n", rel, err)
			}
			for _, f := range files {
				pending[f] = true
			}
			return len(files) > 0
		}
	}

	// A removed or renamed directory shows up as a single event for the
	// directory itself; flush expands it through the index.
	if w.Filter.Excluded(rel) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	pending[rel] = true
	return true
}

func (w *Watcher) rel(abs string) (string, bool) {
	rel, err := filepath.Rel(w.Root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// addTree watches dir and every non-excluded directory below it, returning
// the files found so newly created trees can be scanned.
func (w *Watcher) addTree(fw *fsnotify.Watcher, dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			debug.Logf("watch: skipping %s: %v\n", path, err)
			return nil
		}
		rel, ok := w.rel(path)
		if d.IsDir() {
			if ok && w.Filter.SkipDir(rel) {
				return filepath.SkipDir
			}
			return fw.Add(path)
		}
		if ok && d.Type().IsRegular() && !w.Filter.Excluded(rel) {
			files = append(files, rel)
		}
		return nil
	})
	return files, err
}

// flush re-scans pending paths in walker order.
func (w *Watcher) flush(pending map[string]bool) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return walker.ComparePaths(paths[i], paths[j]) < 0 })

	now := w.now()
	for _, rel := range paths {
		for _, ev := range w.refresh(rel, now) {
			if w.OnEvent != nil {
				w.OnEvent(ev)
			}
		}
	}
}

func (w *Watcher) refresh(rel string, now time.Time) []Event {
	abs := filepath.Join(w.Root, filepath.FromSlash(rel))
	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) || (err == nil && w.Filter.Excluded(rel)) {
		// Gone, or a directory that was renamed away: drop whatever the
		// index still holds for it.
		var out []Event
		for _, f := range w.Index.FilesUnder(rel) {
			if info != nil && info.IsDir() {
				if _, statErr := os.Stat(filepath.Join(w.Root, filepath.FromSlash(f))); statErr == nil {
					continue
				}
			}
			if ev := w.Index.Remove(f, now); ev != nil {
				out = append(out, *ev)
			}
		}
		return out
	}
	if err != nil {
		debug.Logf("watch: skipping %s: %v\n", rel, err)
		return nil
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	data, err := os.ReadFile(abs) // #nosec G304 - path is below the watched root
	if err != nil {
		debug.Logf("watch: skipping %s: %v\n", rel, err)
		return nil
	}
	items, err := w.Scanner.Scan(rel, data)
	if err != nil && !errors.Is(err, scanner.ErrBinary) {
		debug.Logf("watch: skipping %s: %v\n", rel, err)
		return nil
	}
	if ev := w.Index.Update(rel, items, now); ev != nil {
		return []Event{*ev}
	}
	return nil
}
