package types

// WorkingTree labels a snapshot taken from the live filesystem.
const WorkingTree = "working tree"

// SkippedFile records a file that could not be scanned.
type SkippedFile struct {
	Path   string
	Reason string
}

// Snapshot is the ordered result of scanning one tree state.
//
// Snapshots are treated as read-only once built; helpers that narrow a
// snapshot return a new value.
type Snapshot struct {
	Items        []Item `json:"items"`
	FilesScanned int    `json:"files_scanned"`

	// Ref is the git revision the snapshot was taken from, or WorkingTree.
	Ref     string        `json:"-"`
	Skipped []SkippedFile `json:"-"`
}

// FilterTags returns a snapshot holding only items whose tag is in tags.
// An empty tag list returns s unchanged.
func (s *Snapshot) FilterTags(tags []Tag) *Snapshot {
	if len(tags) == 0 {
		return s
	}
	allowed := make(map[Tag]bool, len(tags))
	for _, t := range tags {
		allowed[t] = true
	}
	return s.Filter(func(it *Item) bool { return allowed[it.Tag] })
}

// Filter returns a snapshot holding only items for which keep returns true.
func (s *Snapshot) Filter(keep func(*Item) bool) *Snapshot {
	out := &Snapshot{
		Items:        make([]Item, 0, len(s.Items)),
		FilesScanned: s.FilesScanned,
		Ref:          s.Ref,
		Skipped:      s.Skipped,
	}
	for i := range s.Items {
		if keep(&s.Items[i]) {
			out.Items = append(out.Items, s.Items[i])
		}
	}
	return out
}

// Files returns the number of distinct files that contain at least one item.
func (s *Snapshot) Files() int {
	seen := make(map[string]struct{})
	for i := range s.Items {
		seen[s.Items[i].File] = struct{}{}
	}
	return len(seen)
}
