// Package diff compares two snapshots by item identity.
package diff

import (
	"github.com/todoscan/todo-scan/internal/types"
)

// Options narrows a comparison.
type Options struct {
	// Tags, when non-empty, restricts both snapshots before comparing.
	Tags []types.Tag
	// BaseRef overrides the base label reported in the result.
	BaseRef string
}

// Compute partitions base and head into added and removed items.
//
// Identities are compared as multisets: an identity seen n times in base
// and m times in head yields max(0, m-n) added and max(0, n-m) removed
// entries. When counts differ, the surplus is reported from the end of the
// snapshot order, so the earliest occurrences are the ones matched.
// Added entries come first in head order, then removed entries in base
// order. Neither snapshot is modified.
func Compute(base, head *types.Snapshot, opts Options) *types.DiffResult {
	base = base.FilterTags(opts.Tags)
	head = head.FilterTags(opts.Tags)

	baseRef := opts.BaseRef
	if baseRef == "" {
		baseRef = base.Ref
	}
	res := &types.DiffResult{Entries: []types.DiffEntry{}, BaseRef: baseRef}

	for _, it := range unmatched(head.Items, counts(base.Items)) {
		res.Entries = append(res.Entries, types.DiffEntry{Status: types.DiffAdded, Item: it})
		res.AddedCount++
	}
	for _, it := range unmatched(base.Items, counts(head.Items)) {
		res.Entries = append(res.Entries, types.DiffEntry{Status: types.DiffRemoved, Item: it})
		res.RemovedCount++
	}
	return res
}

// Items compares two plain item lists, as the watcher does per file.
func Items(before, after []types.Item) (added, removed []types.Item) {
	return unmatched(after, counts(before)), unmatched(before, counts(after))
}

func counts(items []types.Item) map[string]int {
	m := make(map[string]int, len(items))
	for i := range items {
		m[items[i].Key()]++
	}
	return m
}

// unmatched returns the items of side that are not consumed by other. The
// first occurrences of each identity consume the available matches.
func unmatched(side []types.Item, other map[string]int) []types.Item {
	var out []types.Item
	for i := range side {
		k := side[i].Key()
		if other[k] > 0 {
			other[k]--
			continue
		}
		out = append(out, side[i])
	}
	return out
}
