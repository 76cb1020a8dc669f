package blame

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoscan/todo-scan/internal/git"
	"github.com/todoscan/todo-scan/internal/types"
)

type fakeSource struct {
	mu    sync.Mutex
	files map[string]map[int]git.BlameLine
	calls map[string]int
}

func (f *fakeSource) Blame(_ context.Context, path string) (map[int]git.BlameLine, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[path]++
	lines, ok := f.files[path]
	if !ok {
		return nil, errors.New("no such path in HEAD")
	}
	return lines, nil
}

var now = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func item(file string, line int, msg string) types.Item {
	return types.Item{File: file, Line: line, Tag: types.TagTodo, Message: msg, Priority: types.PriorityNormal}
}

func committed(daysAgo int, author string) git.BlameLine {
	return git.BlameLine{
		Commit: "abc123",
		Author: author,
		Email:  author + "@example.com",
		Time:   now.AddDate(0, 0, -daysAgo),
	}
}

func TestRun(t *testing.T) {
	src := &fakeSource{files: map[string]map[int]git.BlameLine{
		"a.go": {1: committed(400, "alice"), 5: committed(10, "bob")},
	}}
	items := []types.Item{
		item("a.go", 1, "old"),
		item("a.go", 5, "recent"),
		item("new.go", 2, "untracked"),
	}

	res, err := Run(context.Background(), src, items, Options{Now: now, Jobs: 2})
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	assert.Equal(t, 1, src.calls["a.go"], "one blame call per file")

	old := res.Entries[0]
	assert.Equal(t, "old", old.Message)
	assert.Equal(t, items[0].ID(), old.ItemID)
	assert.Equal(t, Info{Author: "alice", Email: "alice@example.com", Date: "2023-12-07", AgeDays: 400, Commit: "abc123"}, old.Blame)
	assert.True(t, old.Stale)

	assert.False(t, res.Entries[1].Stale)
	assert.Equal(t, 10, res.Entries[1].Blame.AgeDays)

	untracked := res.Entries[2].Blame
	assert.Equal(t, Info{Author: "Not Committed Yet", Date: "2025-01-10"}, untracked)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, (400+10+0)/3, res.AvgAgeDays)
	assert.Equal(t, 1, res.StaleCount)
	assert.Equal(t, DefaultStaleDays, res.StaleThresholdDays)
}

func TestRunThresholdAndStaleOnly(t *testing.T) {
	src := &fakeSource{files: map[string]map[int]git.BlameLine{
		"a.go": {1: committed(30, "alice"), 2: committed(29, "alice"), 3: committed(200, "bob")},
	}}
	items := []types.Item{item("a.go", 1, "x"), item("a.go", 2, "y"), item("a.go", 3, "z")}

	res, err := Run(context.Background(), src, items, Options{Now: now, StaleDays: 30})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, true}, []bool{res.Entries[0].Stale, res.Entries[1].Stale, res.Entries[2].Stale})
	assert.Equal(t, 2, res.StaleCount)

	res, err = Run(context.Background(), src, items, Options{Now: now, StaleDays: 30, StaleOnly: true})
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, (30+200)/2, res.AvgAgeDays)
	assert.Equal(t, 30, res.StaleThresholdDays)
}

func TestRunEmpty(t *testing.T) {
	res, err := Run(context.Background(), &fakeSource{}, nil, Options{Now: now})
	require.NoError(t, err)
	assert.Equal(t, []Entry{}, res.Entries)
	assert.Zero(t, res.AvgAgeDays)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, &fakeSource{}, []types.Item{item("a.go", 1, "x")}, Options{Now: now})
	assert.ErrorIs(t, err, context.Canceled)
}
