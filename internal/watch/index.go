// Package watch keeps a live per-file index of tagged items and re-scans
// files as they change on disk.
package watch

import (
	"strings"
	"sync"
	"time"

	"github.com/todoscan/todo-scan/internal/diff"
	"github.com/todoscan/todo-scan/internal/types"
)

// EventUpdate is the only event type emitted today.
const EventUpdate = "update"

// Event reports how one file's items changed.
type Event struct {
	Type       string       `json:"type"`
	Timestamp  time.Time    `json:"timestamp"`
	File       string       `json:"file"`
	Added      []types.Item `json:"added"`
	Removed    []types.Item `json:"removed"`
	Total      int          `json:"total"`
	TotalDelta int          `json:"total_delta"`
}

// Index maps files to their current items. It is safe for concurrent use.
type Index struct {
	mu    sync.Mutex
	files map[string][]types.Item
	total int
}

// NewIndex seeds an index from a full snapshot.
func NewIndex(snap *types.Snapshot) *Index {
	x := &Index{files: make(map[string][]types.Item)}
	for _, it := range snap.Items {
		x.files[it.File] = append(x.files[it.File], it)
	}
	x.total = len(snap.Items)
	return x
}

// Update replaces file's items and returns the resulting event, or nil
// when the set of items is unchanged. Moved lines are not a change.
func (x *Index) Update(file string, items []types.Item, now time.Time) *Event {
	x.mu.Lock()
	defer x.mu.Unlock()

	before := x.files[file]
	added, removed := diff.Items(before, items)
	if len(items) == 0 {
		delete(x.files, file)
	} else {
		x.files[file] = append([]types.Item(nil), items...)
	}
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	delta := len(items) - len(before)
	x.total += delta
	return &Event{
		Type:       EventUpdate,
		Timestamp:  now.UTC(),
		File:       file,
		Added:      nonNil(added),
		Removed:    nonNil(removed),
		Total:      x.total,
		TotalDelta: delta,
	}
}

// Remove drops file, e.g. after it was deleted.
func (x *Index) Remove(file string, now time.Time) *Event {
	return x.Update(file, nil, now)
}

// FilesUnder returns indexed files equal to dir or below it.
func (x *Index) FilesUnder(dir string) []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	var out []string
	for f := range x.files {
		if dir == "." || f == dir || strings.HasPrefix(f, dir+"/") {
			out = append(out, f)
		}
	}
	return out
}

// Total returns the number of indexed items.
func (x *Index) Total() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.total
}

// Items returns file's current items.
func (x *Index) Items(file string) []types.Item {
	x.mu.Lock()
	defer x.mu.Unlock()
	return append([]types.Item(nil), x.files[file]...)
}

func nonNil(items []types.Item) []types.Item {
	if items == nil {
		return []types.Item{}
	}
	return items
}
