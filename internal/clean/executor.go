// Package clean executes deletions. Every path is attempted independently:
// one failure never aborts the rest, and every failure is recorded with
// its reason. Deletion is permanent — nothing goes to a recoverable trash.
package clean

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
	"github.com/lakshaymaurya-felt/winsweep/internal/winpath"
)

// deleteConcurrency bounds parallel standalone deletions so a slow or
// blocked path cannot stall the batch while keeping pressure on the
// filesystem driver reasonable.
const deleteConcurrency = 4

// Error records one failed deletion.
type Error struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Result aggregates one executor invocation. Never mutated afterward.
type Result struct {
	DeletedBytes int64   `json:"deletedBytes"`
	DeletedCount int64   `json:"deletedCount"`
	Failed       []Error `json:"failed"`
}

func (r *Result) merge(other Result) {
	r.DeletedBytes += other.DeletedBytes
	r.DeletedCount += other.DeletedCount
	r.Failed = append(r.Failed, other.Failed...)
}

// CategoryStats carries the caller's last scan aggregates, used to credit
// fast-cleared categories where per-file accounting is impossible.
type CategoryStats struct {
	SizeBytes int64 `json:"sizeBytes"`
	FileCount int64 `json:"fileCount"`
}

// Request resolves a reconciled selection into category deletions.
type Request struct {
	// IDs are the selected category identifiers.
	IDs []string `json:"ids"`
	// ExcludedPaths lists, per selected category, paths to keep.
	ExcludedPaths map[string][]string `json:"excludedPaths,omitempty"`
	// IncludedPaths lists, per unselected category, the only paths to
	// delete. A category with inclusions is cleaned regardless of IDs.
	IncludedPaths map[string][]string `json:"includedPaths,omitempty"`
	// CategoryStats is the caller's scan snapshot, for fast-clear credit.
	CategoryStats map[string]CategoryStats `json:"categoryStats,omitempty"`
}

// Executor deletes category selections and standalone paths. It holds no
// state between calls; the caller serializes scan → reconcile → delete.
type Executor struct {
	defs      []config.CategoryDef
	root      string
	protected []string
	now       func() time.Time

	// recycleBinClear is swappable so tests never touch the real bin.
	recycleBinClear func() Result
	// removeAll is swappable so tests can fail a root removal.
	removeAll func(string) error
}

// NewExecutor creates an executor over the given catalog, scoped to the
// given volume root. protected paths are refused outright.
func NewExecutor(defs []config.CategoryDef, root string, protected []string) *Executor {
	return &Executor{
		defs:            defs,
		root:            root,
		protected:       protected,
		now:             time.Now,
		recycleBinClear: fastClearRecycleBin,
		removeAll:       os.RemoveAll,
	}
}

// CleanCategories re-enumerates each requested category's current entries,
// honoring excluded/included sets, and deletes them. Failures are
// per-path; the call itself only fails on cancellation.
func (e *Executor) CleanCategories(ctx context.Context, req Request) (Result, error) {
	idSet := make(map[string]bool, len(req.IDs))
	for _, id := range req.IDs {
		idSet[id] = true
	}

	var result Result
	for _, def := range e.defs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if included := req.IncludedPaths[def.ID]; len(included) > 0 {
			result.merge(e.cleanIncluded(ctx, def, included))
			continue
		}
		if !idSet[def.ID] {
			continue
		}
		excluded := winpath.NormalizeSet(req.ExcludedPaths[def.ID])
		result.merge(e.cleanCategory(ctx, def, excluded, req.CategoryStats[def.ID]))
	}
	return result, nil
}

// cleanCategory deletes one fully- or mostly-selected category.
func (e *Executor) cleanCategory(ctx context.Context, def config.CategoryDef, excluded map[string]bool, stats CategoryStats) Result {
	if def.ID == config.CategoryRecycleBin && len(excluded) == 0 {
		return e.recycleBinClear()
	}
	if len(excluded) == 0 && fastClearEligible(def) {
		return e.cleanWholeRoots(def, stats)
	}

	now := e.now()
	var result Result
	var dirs []string

	for _, root := range def.Roots {
		if _, err := os.Lstat(root); err != nil {
			continue
		}
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			select {
			case <-ctx.Done():
				return filepath.SkipAll
			default:
			}
			if err != nil {
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && isReparsePoint(path) {
					return filepath.SkipDir
				}
				if def.CleanupDirs && path != root {
					dirs = append(dirs, path)
				}
				return nil
			}
			e.deleteFile(path, def, excluded, now, &result)
			return nil
		})
		if def.CleanupDirs {
			dirs = append(dirs, root)
		}
	}

	if def.CleanupDirs && len(dirs) > 0 {
		// Deepest first, so emptied parents can be removed too.
		sort.Slice(dirs, func(i, j int) bool {
			return strings.Count(dirs[i], string(os.PathSeparator)) > strings.Count(dirs[j], string(os.PathSeparator))
		})
		for _, dir := range dirs {
			// Only succeeds on empty directories; leftovers from
			// exclusions or failures keep their parents in place.
			_ = os.Remove(dir)
		}
	}
	return result
}

// deleteFile removes a single category file unless it is excluded or
// newer than the category cutoff.
func (e *Executor) deleteFile(path string, def config.CategoryDef, excluded map[string]bool, now time.Time, result *Result) {
	if excluded[winpath.Normalize(path)] {
		return
	}
	info, err := os.Lstat(path)
	if err != nil {
		result.Failed = append(result.Failed, Error{Path: path, Message: err.Error()})
		return
	}
	if !def.MatchesCutoff(info.ModTime(), now) {
		return
	}
	size := info.Size()
	if err := os.Remove(path); err != nil {
		result.Failed = append(result.Failed, Error{Path: path, Message: err.Error()})
		return
	}
	result.DeletedBytes += size
	result.DeletedCount++
}

// fastClearEligible reports whether a category's roots can be removed
// wholesale instead of file by file.
func fastClearEligible(def config.CategoryDef) bool {
	return def.CleanupDirs &&
		(def.ID == config.CategorySystemCache || def.ID == config.CategoryBrowserCache)
}

// cleanWholeRoots removes each existing root recursively and credits the
// caller's scan stats, but only when every root succeeded — partial
// success cannot be attributed to a byte count.
func (e *Executor) cleanWholeRoots(def config.CategoryDef, stats CategoryStats) Result {
	var result Result
	allOK := true
	for _, root := range def.Roots {
		info, err := os.Lstat(root)
		if err != nil {
			continue
		}
		if info.IsDir() {
			err = e.removeAll(root)
		} else {
			err = os.Remove(root)
		}
		if err != nil {
			allOK = false
			result.Failed = append(result.Failed, Error{Path: root, Message: err.Error()})
		}
	}
	if allOK {
		result.DeletedBytes = stats.SizeBytes
		result.DeletedCount = stats.FileCount
	}
	return result
}

// cleanIncluded deletes only the explicitly included paths of an
// unselected category. Paths outside the category's roots and directories
// are refused; duplicates are deleted once.
func (e *Executor) cleanIncluded(ctx context.Context, def config.CategoryDef, included []string) Result {
	now := e.now()
	var result Result
	seen := make(map[string]bool, len(included))

	for _, path := range included {
		if ctx.Err() != nil {
			return result
		}
		key := winpath.Normalize(path)
		if seen[key] {
			continue
		}
		seen[key] = true

		if !withinAny(def.Roots, path) {
			result.Failed = append(result.Failed, Error{Path: path, Message: "path is outside cleanup scope"})
			continue
		}
		info, err := os.Lstat(path)
		if err != nil {
			result.Failed = append(result.Failed, Error{Path: path, Message: err.Error()})
			continue
		}
		if info.IsDir() {
			result.Failed = append(result.Failed, Error{Path: path, Message: "path is a directory"})
			continue
		}
		if !def.MatchesCutoff(info.ModTime(), now) {
			continue
		}
		size := info.Size()
		if err := os.Remove(path); err != nil {
			result.Failed = append(result.Failed, Error{Path: path, Message: err.Error()})
			continue
		}
		result.DeletedBytes += size
		result.DeletedCount++
	}
	return result
}

// CleanLargeItems deletes standalone paths with bounded parallelism.
// Duplicates collapse to one attempt; paths outside the scanned volume,
// the volume root itself, and protected system paths are refused. A
// deleted directory counts once, with its recursive size.
func (e *Executor) CleanLargeItems(ctx context.Context, paths []string) (Result, error) {
	seen := make(map[string]bool, len(paths))
	var unique []string
	for _, p := range paths {
		key := winpath.Normalize(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, p)
	}

	outcomes := make([]Result, len(unique))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for i, path := range unique {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = e.deleteStandalone(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var result Result
	for _, o := range outcomes {
		result.merge(o)
	}
	return result, nil
}

// deleteStandalone removes one path, file or directory tree.
func (e *Executor) deleteStandalone(path string) Result {
	if !winpath.Contains(e.root, path) {
		return Result{Failed: []Error{{Path: path, Message: "path is outside scan scope"}}}
	}
	if winpath.Equal(path, e.root) {
		return Result{Failed: []Error{{Path: path, Message: "refusing to delete volume root"}}}
	}
	for _, p := range e.protected {
		if winpath.Contains(p, path) || winpath.Contains(path, p) {
			return Result{Failed: []Error{{Path: path, Message: "path is protected"}}}
		}
	}

	info, err := os.Lstat(path)
	if err != nil {
		return Result{Failed: []Error{{Path: path, Message: err.Error()}}}
	}
	if info.IsDir() {
		size := dirSize(path)
		if err := os.RemoveAll(path); err != nil {
			return Result{Failed: []Error{{Path: path, Message: err.Error()}}}
		}
		// One logical unit regardless of contents.
		return Result{DeletedBytes: size, DeletedCount: 1}
	}
	size := info.Size()
	if err := os.Remove(path); err != nil {
		return Result{Failed: []Error{{Path: path, Message: err.Error()}}}
	}
	return Result{DeletedBytes: size, DeletedCount: 1}
}

// dirSize sums a directory's recursive file sizes, skipping unreadable
// entries. A deleted directory counts as one item regardless of contents.
func dirSize(path string) (size int64) {
	filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			size += info.Size()
		}
		return nil
	})
	return size
}

// withinAny reports whether path lies under any of the given roots.
func withinAny(roots []string, path string) bool {
	for _, root := range roots {
		if winpath.Contains(root, path) {
			return true
		}
	}
	return false
}

// isReparsePoint returns true for Windows junctions and symlinks, which
// must never be descended through during deletion walks.
func isReparsePoint(path string) bool {
	info, err := os.Lstat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSymlink != 0 || info.Mode()&os.ModeIrregular != 0
}
