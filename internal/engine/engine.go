// Package engine binds the scanners, reconciler, and executor into one
// session owning a single scan → reconcile → clean cycle. It keeps the
// only cross-call state the engine needs: the last category snapshot,
// passed explicitly into cleanup for fast-clear accounting.
package engine

import (
	"context"

	"github.com/lakshaymaurya-felt/winsweep/internal/clean"
	"github.com/lakshaymaurya-felt/winsweep/internal/config"
	"github.com/lakshaymaurya-felt/winsweep/internal/disk"
	"github.com/lakshaymaurya-felt/winsweep/internal/scan"
	"github.com/lakshaymaurya-felt/winsweep/internal/shell"
)

// Session is one cleanup session against the system drive. Methods must
// not be interleaved with a concurrent clean over overlapping paths; the
// caller (CLI or TUI) drives it sequentially.
type Session struct {
	defs     []config.CategoryDef
	root     string
	scanner  *scan.CategoryScanner
	large    *scan.LargeScanner
	executor *clean.Executor

	// snapshot is the last ScanCategories result, superseded on re-scan.
	snapshot []scan.Category
}

// NewSession creates a session over the live environment-derived catalog.
func NewSession() *Session {
	defs := config.GetCategories()
	root := config.SystemDriveMount()
	protected := config.GetNeverDeletePaths()
	return &Session{
		defs:     defs,
		root:     root,
		scanner:  scan.NewCategoryScanner(defs),
		large:    scan.NewLargeScanner(root, defs, protected),
		executor: clean.NewExecutor(defs, root, protected),
	}
}

// DiskInfo reports the target volume's capacity counters.
func (s *Session) DiskInfo() (disk.VolumeInfo, error) {
	return disk.GetVolumeInfo()
}

// ScanCategories runs a fresh category scan and retains it as the
// session's current snapshot.
func (s *Session) ScanCategories(ctx context.Context) ([]scan.Category, error) {
	cats, err := s.scanner.ScanAll(ctx)
	if err != nil {
		return nil, err
	}
	s.snapshot = cats
	return cats, nil
}

// Snapshot returns the last category scan, or nil before the first scan.
func (s *Session) Snapshot() []scan.Category {
	return s.snapshot
}

// ListCategoryItems re-walks one category live; it never reuses the
// snapshot, so listings cannot drift from disk.
func (s *Session) ListCategoryItems(ctx context.Context, id string, limit int) (scan.CategoryItems, error) {
	return s.scanner.ListItems(ctx, id, limit)
}

// ScanLargeItems walks the volume for oversized files and folders.
func (s *Session) ScanLargeItems(ctx context.Context, opts scan.LargeScanOptions) ([]scan.LargeItem, error) {
	return s.large.Scan(ctx, opts)
}

// CleanCategories deletes the given category selection. The session's
// snapshot supplies fast-clear accounting stats.
func (s *Session) CleanCategories(ctx context.Context, ids []string, excluded, included map[string][]string) (clean.Result, error) {
	req := clean.Request{
		IDs:           ids,
		ExcludedPaths: excluded,
		IncludedPaths: included,
		CategoryStats: s.snapshotStats(),
	}
	return s.executor.CleanCategories(ctx, req)
}

// CleanLargeItems deletes standalone paths.
func (s *Session) CleanLargeItems(ctx context.Context, paths []string) (clean.Result, error) {
	return s.executor.CleanLargeItems(ctx, paths)
}

// Reveal opens Explorer at the given path. Pass-through only.
func (s *Session) Reveal(path string) error {
	return shell.Reveal(path)
}

func (s *Session) snapshotStats() map[string]clean.CategoryStats {
	if len(s.snapshot) == 0 {
		return nil
	}
	stats := make(map[string]clean.CategoryStats, len(s.snapshot))
	for _, c := range s.snapshot {
		stats[c.ID] = clean.CategoryStats{SizeBytes: c.SizeBytes, FileCount: c.FileCount}
	}
	return stats
}
