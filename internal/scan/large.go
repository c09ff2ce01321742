package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
	"github.com/lakshaymaurya-felt/winsweep/internal/winpath"
)

const (
	defaultLargeLimit = 200
	maxLargeLimit     = 1000
	defaultMinSize    = 1 << 30 // 1 GiB
)

// SuspicionFunc decides whether a name or path fragment suggests
// disposable content. Advisory only — callers must never treat it as a
// safety guarantee or auto-select flagged items.
type SuspicionFunc func(text string) bool

// KeywordSuspicion returns a SuspicionFunc matching any of the given
// case-insensitive substrings.
func KeywordSuspicion(keywords ...string) SuspicionFunc {
	return func(text string) bool {
		lowered := strings.ToLower(text)
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
		return false
	}
}

// DefaultSuspicion flags the classic disposable-content name tokens.
var DefaultSuspicion = KeywordSuspicion("log", "cache", "temp", "tmp")

// LargeScanOptions tunes one large-item scan.
type LargeScanOptions struct {
	// Limit caps the number of returned items (default 200, max 1000).
	Limit int
	// MinSizeBytes is the reporting threshold (default 1 GiB).
	MinSizeBytes int64
	// Suspicious overrides the name heuristic (default DefaultSuspicion).
	Suspicious SuspicionFunc
}

func (o LargeScanOptions) withDefaults() LargeScanOptions {
	if o.Limit <= 0 {
		o.Limit = defaultLargeLimit
	}
	if o.Limit > maxLargeLimit {
		o.Limit = maxLargeLimit
	}
	if o.MinSizeBytes <= 0 {
		o.MinSizeBytes = defaultMinSize
	}
	if o.Suspicious == nil {
		o.Suspicious = DefaultSuspicion
	}
	return o
}

// LargeScanner walks a volume for files and directories above a size
// threshold, independent of the category scanner.
type LargeScanner struct {
	root      string
	defs      []config.CategoryDef
	protected []string
	now       func() time.Time
}

// NewLargeScanner creates a scanner rooted at the given volume mount.
// protected subtrees are never descended into or reported.
func NewLargeScanner(root string, defs []config.CategoryDef, protected []string) *LargeScanner {
	return &LargeScanner{root: root, defs: defs, protected: protected, now: time.Now}
}

// Scan walks the volume and reports every file above the threshold, plus
// suspicious-named directories whose accumulated content crosses it.
// Directory sizes are accumulated during the single walk, never re-walked.
// Results are published atomically: a cancelled scan returns nothing.
func (s *LargeScanner) Scan(ctx context.Context, opts LargeScanOptions) ([]LargeItem, error) {
	opts = opts.withDefaults()
	now := s.now()

	var files []LargeItem
	// normalized suspicious dir path -> (original path, accumulated bytes)
	type dirAgg struct {
		path string
		size int64
	}
	suspiciousDirs := make(map[string]*dirAgg)

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path == s.root {
				return nil
			}
			if s.isProtected(path) || isReparsePoint(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		size := info.Size()

		if size >= opts.MinSizeBytes {
			name := d.Name()
			files = append(files, LargeItem{
				Path:       path,
				Name:       name,
				SizeBytes:  size,
				Suspicious: opts.Suspicious(name) || opts.Suspicious(path),
				CategoryID: s.matchCategory(path, info.ModTime(), now),
			})
		}

		// Accumulate every file into its nearest suspicious ancestor so
		// bloated cache/log directories surface even when no single file
		// crosses the threshold.
		if dir, ok := nearestSuspiciousDir(filepath.Dir(path), s.root, opts.Suspicious); ok {
			key := winpath.Normalize(dir)
			agg := suspiciousDirs[key]
			if agg == nil {
				agg = &dirAgg{path: dir}
				suspiciousDirs[key] = agg
			}
			agg.size += size
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	items := files
	for _, agg := range suspiciousDirs {
		if agg.size < opts.MinSizeBytes {
			continue
		}
		items = append(items, LargeItem{
			Path:       agg.path,
			Name:       filepath.Base(agg.path),
			SizeBytes:  agg.size,
			IsDir:      true,
			Suspicious: true,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].SizeBytes != items[j].SizeBytes {
			return items[i].SizeBytes > items[j].SizeBytes
		}
		return items[i].Path < items[j].Path
	})
	if len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items, nil
}

// isProtected reports whether path falls inside a never-delete subtree.
func (s *LargeScanner) isProtected(path string) bool {
	for _, p := range s.protected {
		if winpath.Contains(p, path) {
			return true
		}
	}
	return false
}

// matchCategory returns the id of the category owning path, honoring the
// category's age cutoff, or "" when the item stands alone.
func (s *LargeScanner) matchCategory(path string, modTime, now time.Time) string {
	for _, def := range s.defs {
		if !withinRoots(def.Roots, path) {
			continue
		}
		if !def.MatchesCutoff(modTime, now) {
			continue
		}
		return def.ID
	}
	return ""
}

// withinRoots reports whether path lies under any of the given roots.
func withinRoots(roots []string, path string) bool {
	for _, root := range roots {
		if winpath.Contains(root, path) {
			return true
		}
	}
	return false
}

// nearestSuspiciousDir climbs from dir toward stop looking for the first
// ancestor whose base name matches the suspicion heuristic.
func nearestSuspiciousDir(dir, stop string, suspicious SuspicionFunc) (string, bool) {
	stopNorm := winpath.Normalize(filepath.Clean(stop))
	current := dir
	for {
		norm := winpath.Normalize(current)
		if norm == stopNorm || !strings.HasPrefix(norm, stopNorm) {
			return "", false
		}
		if suspicious(filepath.Base(current)) {
			return current, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}
