// Package blame dates tagged comments with git blame and flags the ones
// that have sat untouched for too long.
package blame

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/git"
	"github.com/todoscan/todo-scan/internal/types"
)

// DefaultStaleDays is the age at which an item counts as stale.
const DefaultStaleDays = 365

const notCommitted = "Not Committed Yet"

// Source attributes the lines of a working tree file.
type Source interface {
	Blame(ctx context.Context, path string) (map[int]git.BlameLine, error)
}

var _ Source = (*git.Repo)(nil)

// Info is the last change to an item's line.
type Info struct {
	Author  string `json:"author"`
	Email   string `json:"email"`
	Date    string `json:"date"`
	AgeDays int    `json:"age_days"`
	// Commit is empty for uncommitted lines.
	Commit string `json:"commit"`
}

// Entry is an item with its blame. Item fields are inlined in JSON.
type Entry struct {
	types.Item
	ItemID string `json:"id"`
	Blame  Info   `json:"blame"`
	Stale  bool   `json:"stale"`
}

// Result is the outcome of blaming a snapshot.
type Result struct {
	Entries            []Entry `json:"entries"`
	Total              int     `json:"total"`
	AvgAgeDays         int     `json:"avg_age_days"`
	StaleCount         int     `json:"stale_count"`
	StaleThresholdDays int     `json:"stale_threshold_days"`
}

// Options controls Run.
type Options struct {
	Now time.Time
	// StaleDays defaults to DefaultStaleDays when zero.
	StaleDays int
	// StaleOnly keeps only stale entries; the summary covers what is kept.
	StaleOnly bool
	// Jobs bounds concurrent blame calls; zero or less means no bound.
	Jobs int
}

// Run blames every file holding an item, one git call per file. Files git
// cannot blame, such as untracked ones, count as uncommitted.
func Run(ctx context.Context, src Source, items []types.Item, opts Options) (*Result, error) {
	if opts.StaleDays <= 0 {
		opts.StaleDays = DefaultStaleDays
	}

	var files []string
	seen := map[string]bool{}
	for i := range items {
		if f := items[i].File; !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}

	var mu sync.Mutex
	byFile := make(map[string]map[int]git.BlameLine, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for _, f := range files {
		g.Go(func() error {
			lines, err := src.Blame(gctx, f)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				debug.Logf("blame: %v\n", err)
				return nil
			}
			mu.Lock()
			byFile[f] = lines
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Entries: []Entry{}, StaleThresholdDays: opts.StaleDays}
	sum := 0
	for i := range items {
		it := items[i]
		info := infoFor(byFile[it.File][it.Line], opts.Now)
		e := Entry{Item: it, ItemID: it.ID(), Blame: info, Stale: info.AgeDays >= opts.StaleDays}
		if opts.StaleOnly && !e.Stale {
			continue
		}
		res.Entries = append(res.Entries, e)
		sum += info.AgeDays
		if e.Stale {
			res.StaleCount++
		}
	}
	res.Total = len(res.Entries)
	if res.Total > 0 {
		res.AvgAgeDays = sum / res.Total
	}
	return res, nil
}

// infoFor converts a blame line; the zero BlameLine means uncommitted.
func infoFor(b git.BlameLine, now time.Time) Info {
	if b.Uncommitted() {
		author := b.Author
		if author == "" {
			author = notCommitted
		}
		return Info{Author: author, Date: now.Format(time.DateOnly)}
	}
	age := int(now.Sub(b.Time).Hours() / 24)
	if age < 0 {
		age = 0
	}
	return Info{
		Author:  b.Author,
		Email:   b.Email,
		Date:    b.Time.Format(time.DateOnly),
		AgeDays: age,
		Commit:  b.Commit,
	}
}
