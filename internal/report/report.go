// Package report summarises snapshots for the brief and stats commands.
package report

import (
	"sort"
	"strings"

	"github.com/todoscan/todo-scan/internal/types"
)

// HotspotLimit is how many files stats lists as hotspots.
const HotspotLimit = 5

// PriorityCounts tallies items by priority.
type PriorityCounts struct {
	Normal int `json:"normal"`
	High   int `json:"high"`
	Urgent int `json:"urgent"`
}

// Trend is the change against a base ref.
type Trend struct {
	Added   int    `json:"added"`
	Removed int    `json:"removed"`
	BaseRef string `json:"base_ref"`
}

// Brief is a compact status summary.
type Brief struct {
	TotalItems     int            `json:"total_items"`
	TotalFiles     int            `json:"total_files"`
	PriorityCounts PriorityCounts `json:"priority_counts"`
	TopUrgent      *types.Item    `json:"top_urgent"`
	Trend          *Trend         `json:"trend"`
}

// TagCount is the number of items with one tag.
type TagCount struct {
	Tag   types.Tag `json:"tag"`
	Count int       `json:"count"`
}

// AuthorCount is the number of items attributed to one author.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// FileCount is the number of items in one file.
type FileCount struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

// Stats is the full breakdown of a snapshot.
type Stats struct {
	TotalItems     int            `json:"total_items"`
	TotalFiles     int            `json:"total_files"`
	FilesScanned   int            `json:"files_scanned"`
	TagCounts      []TagCount     `json:"tag_counts"`
	PriorityCounts PriorityCounts `json:"priority_counts"`
	AuthorCounts   []AuthorCount  `json:"author_counts"`
	HotspotFiles   []FileCount    `json:"hotspot_files"`
	Trend          *Trend         `json:"trend"`
}

func countPriorities(items []types.Item) PriorityCounts {
	var pc PriorityCounts
	for i := range items {
		switch items[i].Priority {
		case types.PriorityUrgent:
			pc.Urgent++
		case types.PriorityHigh:
			pc.High++
		default:
			pc.Normal++
		}
	}
	return pc
}

func trendOf(d *types.DiffResult) *Trend {
	if d == nil {
		return nil
	}
	return &Trend{Added: d.AddedCount, Removed: d.RemovedCount, BaseRef: d.BaseRef}
}

// NewBrief summarises snap. d, when non-nil, supplies the trend.
//
// The top urgent item is the one with the highest priority, then the most
// severe tag; the earliest in scan order wins a tie. Normal priority items
// are never reported as urgent.
func NewBrief(snap *types.Snapshot, d *types.DiffResult) *Brief {
	b := &Brief{
		TotalItems:     len(snap.Items),
		TotalFiles:     snap.Files(),
		PriorityCounts: countPriorities(snap.Items),
		Trend:          trendOf(d),
	}
	for i := range snap.Items {
		it := &snap.Items[i]
		if it.Priority.Rank() == 0 {
			continue
		}
		if b.TopUrgent == nil || outranks(it, b.TopUrgent) {
			top := *it
			b.TopUrgent = &top
		}
	}
	return b
}

func outranks(a, b *types.Item) bool {
	if a.Priority.Rank() != b.Priority.Rank() {
		return a.Priority.Rank() > b.Priority.Rank()
	}
	return a.Tag.Severity() > b.Tag.Severity()
}

// NewStats breaks snap down by tag, priority, author and file.
func NewStats(snap *types.Snapshot, d *types.DiffResult) *Stats {
	s := &Stats{
		TotalItems:     len(snap.Items),
		TotalFiles:     snap.Files(),
		FilesScanned:   snap.FilesScanned,
		PriorityCounts: countPriorities(snap.Items),
		TagCounts:      []TagCount{},
		AuthorCounts:   []AuthorCount{},
		HotspotFiles:   []FileCount{},
		Trend:          trendOf(d),
	}

	tags := map[types.Tag]int{}
	authors := map[string]int{}
	files := map[string]int{}
	for i := range snap.Items {
		it := &snap.Items[i]
		tags[it.Tag]++
		files[it.File]++
		if it.Author != nil {
			authors[*it.Author]++
		}
	}

	for tag, n := range tags {
		s.TagCounts = append(s.TagCounts, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(s.TagCounts, func(i, j int) bool {
		a, b := s.TagCounts[i], s.TagCounts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.Tag.Severity() != b.Tag.Severity() {
			return a.Tag.Severity() > b.Tag.Severity()
		}
		return a.Tag < b.Tag
	})

	for author, n := range authors {
		s.AuthorCounts = append(s.AuthorCounts, AuthorCount{Author: author, Count: n})
	}
	sort.Slice(s.AuthorCounts, func(i, j int) bool {
		a, b := s.AuthorCounts[i], s.AuthorCounts[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return strings.ToLower(a.Author) < strings.ToLower(b.Author)
	})

	for file, n := range files {
		s.HotspotFiles = append(s.HotspotFiles, FileCount{File: file, Count: n})
	}
	sort.Slice(s.HotspotFiles, func(i, j int) bool {
		a, b := s.HotspotFiles[i], s.HotspotFiles[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.File < b.File
	})
	if len(s.HotspotFiles) > HotspotLimit {
		s.HotspotFiles = s.HotspotFiles[:HotspotLimit]
	}
	return s
}
