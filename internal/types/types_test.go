package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemKeyIgnoresLineAndCase(t *testing.T) {
	a := Item{File: "a.go", Line: 3, Tag: TagTodo, Message: "Fix This"}
	b := Item{File: "a.go", Line: 40, Tag: TagTodo, Message: "  fix this "}
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, a.ID(), b.ID())

	c := Item{File: "b.go", Line: 3, Tag: TagTodo, Message: "Fix This"}
	d := Item{File: "a.go", Line: 3, Tag: TagFixme, Message: "Fix This"}
	assert.NotEqual(t, a.Key(), c.Key())
	assert.NotEqual(t, a.Key(), d.Key())

	assert.Equal(t, a.ContentKey(), c.ContentKey(), "content key ignores the file")
	assert.NotEqual(t, a.ContentKey(), d.ContentKey())
}

func TestPriority(t *testing.T) {
	tests := []struct {
		bangs  int
		want   Priority
		marker string
	}{
		{0, PriorityNormal, ""},
		{1, PriorityHigh, "!"},
		{2, PriorityUrgent, "!!"},
		{5, PriorityUrgent, "!!"},
	}
	for _, tt := range tests {
		p := PriorityFromBangs(tt.bangs)
		assert.Equal(t, tt.want, p)
		assert.Equal(t, tt.marker, p.Marker())
	}

	p, err := ParsePriority(" URGENT ")
	require.NoError(t, err)
	assert.Equal(t, PriorityUrgent, p)
	_, err = ParsePriority("critical")
	assert.Error(t, err)
}

func TestTagSeverityOrder(t *testing.T) {
	order := []Tag{TagNote, TagTodo, TagHack, TagXXX, TagFixme, TagBug}
	for i := 1; i < len(order); i++ {
		assert.Greater(t, order[i].Severity(), order[i-1].Severity(), order[i])
	}
	assert.Equal(t, TagTodo.Severity(), Tag("SAFETY").Severity())
	assert.Equal(t, TagFixme, NormalizeTag(" fixme "))
}

func TestSnapshotFilters(t *testing.T) {
	snap := &Snapshot{
		Items: []Item{
			{File: "a.go", Line: 1, Tag: TagTodo},
			{File: "a.go", Line: 2, Tag: TagBug},
			{File: "b.go", Line: 1, Tag: TagTodo},
		},
		FilesScanned: 4,
		Ref:          WorkingTree,
	}
	assert.Equal(t, 2, snap.Files())
	assert.Same(t, snap, snap.FilterTags(nil))

	todos := snap.FilterTags([]Tag{TagTodo})
	assert.Len(t, todos.Items, 2)
	assert.Equal(t, 4, todos.FilesScanned)
	assert.Equal(t, WorkingTree, todos.Ref)
	assert.Len(t, snap.Items, 3, "original is unchanged")
}

func TestDiffResultPartitions(t *testing.T) {
	d := &DiffResult{Entries: []DiffEntry{
		{Status: DiffAdded, Item: Item{Message: "a"}},
		{Status: DiffRemoved, Item: Item{Message: "b"}},
		{Status: DiffAdded, Item: Item{Message: "c"}},
	}}
	require.Len(t, d.Added(), 2)
	assert.Equal(t, "c", d.Added()[1].Message)
	require.Len(t, d.Removed(), 1)
}
