package types

// DiffStatus classifies a diff entry.
type DiffStatus string

const (
	DiffAdded   DiffStatus = "added"
	DiffRemoved DiffStatus = "removed"
)

// DiffEntry is one added or removed item.
type DiffEntry struct {
	Status DiffStatus `json:"status"`
	Item   Item       `json:"item"`
}

// DiffResult is the partition of two snapshots into added and removed items.
type DiffResult struct {
	Entries      []DiffEntry `json:"entries"`
	AddedCount   int         `json:"added_count"`
	RemovedCount int         `json:"removed_count"`
	BaseRef      string      `json:"base_ref"`
}

// Added returns the added items in report order.
func (d *DiffResult) Added() []Item {
	return d.itemsWithStatus(DiffAdded)
}

// Removed returns the removed items in report order.
func (d *DiffResult) Removed() []Item {
	return d.itemsWithStatus(DiffRemoved)
}

func (d *DiffResult) itemsWithStatus(status DiffStatus) []Item {
	out := make([]Item, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Status == status {
			out = append(out, e.Item)
		}
	}
	return out
}

// Violation is a failed rule in a gate evaluation.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// CheckResult is the outcome of a gate evaluation.
type CheckResult struct {
	Passed     bool        `json:"passed"`
	Total      int         `json:"total"`
	Violations []Violation `json:"violations"`
}
