package diff

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todoscan/todo-scan/internal/types"
)

func item(file string, line int, tag types.Tag, msg string) types.Item {
	return types.Item{File: file, Line: line, Tag: tag, Message: msg, Priority: types.PriorityNormal}
}

func snap(ref string, items ...types.Item) *types.Snapshot {
	if items == nil {
		items = []types.Item{}
	}
	return &types.Snapshot{Items: items, Ref: ref}
}

func TestComputeAddedRemoved(t *testing.T) {
	base := snap("HEAD~1",
		item("a.go", 1, types.TagTodo, "keep"),
		item("a.go", 5, types.TagFixme, "old message"),
		item("b.go", 2, types.TagBug, "gone"),
	)
	head := snap(types.WorkingTree,
		item("a.go", 9, types.TagTodo, "keep"),
		item("a.go", 5, types.TagFixme, "new message"),
		item("c.go", 1, types.TagHack, "fresh"),
	)

	res := Compute(base, head, Options{})
	assert.Equal(t, 2, res.AddedCount)
	assert.Equal(t, 2, res.RemovedCount)
	assert.Equal(t, "HEAD~1", res.BaseRef)

	require.Len(t, res.Entries, 4)
	assert.Equal(t, types.DiffAdded, res.Entries[0].Status)
	assert.Equal(t, "new message", res.Entries[0].Item.Message)
	assert.Equal(t, types.DiffAdded, res.Entries[1].Status)
	assert.Equal(t, "fresh", res.Entries[1].Item.Message)
	assert.Equal(t, types.DiffRemoved, res.Entries[2].Status)
	assert.Equal(t, "old message", res.Entries[2].Item.Message)
	assert.Equal(t, types.DiffRemoved, res.Entries[3].Status)
	assert.Equal(t, "gone", res.Entries[3].Item.Message)
}

func TestComputeMovedItemIsUnchanged(t *testing.T) {
	base := snap("base", item("a.go", 3, types.TagTodo, "fix race"))
	head := snap("head", item("a.go", 40, types.TagTodo, "  Fix Race "))

	res := Compute(base, head, Options{})
	assert.Zero(t, res.AddedCount)
	assert.Zero(t, res.RemovedCount)
	assert.Empty(t, res.Entries)
	assert.NotNil(t, res.Entries)
}

func TestComputeMultiset(t *testing.T) {
	dup := func(line int) types.Item { return item("a.go", line, types.TagTodo, "same") }

	res := Compute(snap("b", dup(1), dup(2)), snap("h", dup(1), dup(2), dup(3)), Options{})
	assert.Equal(t, 1, res.AddedCount)
	assert.Zero(t, res.RemovedCount)
	assert.Equal(t, 3, res.Entries[0].Item.Line, "surplus comes from the end")

	res = Compute(snap("b", dup(1), dup(2), dup(3)), snap("h", dup(7)), Options{})
	assert.Zero(t, res.AddedCount)
	assert.Equal(t, 2, res.RemovedCount)
}

func TestComputeTagFilterBeforeDiff(t *testing.T) {
	base := snap("b", item("a.go", 1, types.TagTodo, "t"), item("a.go", 2, types.TagNote, "n"))
	head := snap("h", item("a.go", 1, types.TagTodo, "t"), item("a.go", 3, types.TagBug, "b"))

	res := Compute(base, head, Options{Tags: []types.Tag{types.TagBug}})
	assert.Equal(t, 1, res.AddedCount)
	assert.Zero(t, res.RemovedCount)

	res = Compute(base, head, Options{Tags: []types.Tag{types.TagNote}, BaseRef: "v1.0"})
	assert.Zero(t, res.AddedCount)
	assert.Equal(t, 1, res.RemovedCount)
	assert.Equal(t, "v1.0", res.BaseRef)
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	base := snap("b", item("a.go", 1, types.TagTodo, "x"), item("a.go", 2, types.TagBug, "y"))
	head := snap("h", item("a.go", 1, types.TagTodo, "z"))
	before := append([]types.Item(nil), base.Items...)

	Compute(base, head, Options{Tags: []types.Tag{types.TagTodo}})
	assert.Equal(t, before, base.Items)
	assert.Len(t, head.Items, 1)
}

func randomSnapshot(r *rand.Rand, ref string) *types.Snapshot {
	tags := types.DefaultTags()
	s := snap(ref)
	n := r.Intn(12)
	for i := 0; i < n; i++ {
		s.Items = append(s.Items, item(
			fmt.Sprintf("f%d.go", r.Intn(3)),
			i+1,
			tags[r.Intn(2)],
			fmt.Sprintf("msg %d", r.Intn(3)),
		))
	}
	return s
}

func TestComputeProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		a := randomSnapshot(r, "a")
		b := randomSnapshot(r, "b")

		ab := Compute(a, b, Options{})
		ba := Compute(b, a, Options{})
		assert.ElementsMatch(t, ab.Added(), ba.Removed(), "anti-symmetric added")
		assert.ElementsMatch(t, ab.Removed(), ba.Added(), "anti-symmetric removed")

		aa := Compute(a, a, Options{})
		assert.Zero(t, aa.AddedCount)
		assert.Zero(t, aa.RemovedCount)

		assert.Equal(t, len(b.Items)-len(a.Items), ab.AddedCount-ab.RemovedCount)
	}
}

func TestItems(t *testing.T) {
	before := []types.Item{item("a.go", 1, types.TagTodo, "x"), item("a.go", 2, types.TagTodo, "y")}
	after := []types.Item{item("a.go", 1, types.TagTodo, "y"), item("a.go", 2, types.TagTodo, "z")}

	added, removed := Items(before, after)
	require.Len(t, added, 1)
	require.Len(t, removed, 1)
	assert.Equal(t, "z", added[0].Message)
	assert.Equal(t, "x", removed[0].Message)
}
