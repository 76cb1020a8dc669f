package snapshot

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/todoscan/todo-scan/internal/debug"
	"github.com/todoscan/todo-scan/internal/scanner"
	"github.com/todoscan/todo-scan/internal/telemetry"
	"github.com/todoscan/todo-scan/internal/types"
)

// Builder scans every file of a Source with a bounded pool of workers.
type Builder struct {
	Scanner *scanner.Scanner
	// Jobs caps concurrent file scans; <= 0 means GOMAXPROCS.
	Jobs int
	// Strict turns the first unreadable file into an error instead of
	// skipping it.
	Strict bool

	inst *telemetry.ScanInstruments
}

// NewBuilder returns a Builder.
func NewBuilder(s *scanner.Scanner, jobs int, strict bool) *Builder {
	return &Builder{Scanner: s, Jobs: jobs, Strict: strict, inst: telemetry.NewScanInstruments()}
}

// fileResult is one worker's output. Workers only write their own slot, so
// no locking is needed.
type fileResult struct {
	path  string
	items []types.Item
	err   error
}

// Build scans src and returns its Snapshot. Items are ordered by the
// Source's file order, then by line, regardless of which worker finished
// first.
func (b *Builder) Build(ctx context.Context, src Source) (snap *types.Snapshot, err error) {
	inst := b.inst
	if inst == nil {
		inst = telemetry.NewScanInstruments()
	}
	ctx, span, start := inst.StartBuild(ctx, src.Name())
	defer func() {
		var files, items, skipped int
		if snap != nil {
			files, items, skipped = snap.FilesScanned, len(snap.Items), len(snap.Skipped)
		}
		inst.EndBuild(ctx, span, start, src.Name(), files, items, skipped, err)
	}()

	jobs := b.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	var results []*fileResult
	var walkErr error
	for rel, err := range src.Files(gctx) {
		if err != nil {
			walkErr = err
			break
		}
		if gctx.Err() != nil {
			break
		}
		r := &fileResult{path: rel}
		results = append(results, r)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r.items, r.err = b.scanFile(gctx, src, rel)
			if r.err != nil && b.Strict && !errors.Is(r.err, scanner.ErrBinary) {
				return r.err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, fmt.Errorf("listing files in %s: %w", src.Name(), walkErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap = &types.Snapshot{Items: []types.Item{}, Ref: src.Name()}
	for _, r := range results {
		if errors.Is(r.err, scanner.ErrBinary) {
			continue
		}
		if r.err != nil {
			debug.Logf("snapshot: skipping %s: %v\n", r.path, r.err)
			snap.Skipped = append(snap.Skipped, types.SkippedFile{Path: r.path, Reason: reason(r.err)})
			continue
		}
		snap.FilesScanned++
		snap.Items = append(snap.Items, r.items...)
	}
	return snap, nil
}

func (b *Builder) scanFile(ctx context.Context, src Source, rel string) ([]types.Item, error) {
	data, err := src.ReadFile(ctx, rel)
	if err != nil {
		var readErr *scanner.FileReadError
		if errors.As(err, &readErr) {
			return nil, err
		}
		return nil, &scanner.FileReadError{Path: rel, Err: err}
	}
	return b.Scanner.Scan(rel, data)
}

func reason(err error) string {
	var readErr *scanner.FileReadError
	if errors.As(err, &readErr) {
		return readErr.Err.Error()
	}
	return err.Error()
}
