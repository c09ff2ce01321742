package scan

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
)

// ErrUnknownCategory indicates an identifier outside the fixed category
// vocabulary. This is a caller bug, surfaced immediately.
var ErrUnknownCategory = errors.New("unknown cleanup category")

// scanConcurrency bounds how many category walks run at once.
const scanConcurrency = 4

// CategoryScanner aggregates cleanup categories from live filesystem state.
// It holds no results between calls; every scan is fresh.
type CategoryScanner struct {
	defs []config.CategoryDef
	now  func() time.Time
}

// NewCategoryScanner creates a scanner over the given category catalog.
func NewCategoryScanner(defs []config.CategoryDef) *CategoryScanner {
	return &CategoryScanner{defs: defs, now: time.Now}
}

// ScanAll walks every category and returns the complete fixed vocabulary,
// including empty categories with size 0 and count 0. Unreadable entries
// are omitted from totals; only an aborted walk fails the call.
func (s *CategoryScanner) ScanAll(ctx context.Context) ([]Category, error) {
	results := make([]Category, len(s.defs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scanConcurrency)
	for i, def := range s.defs {
		g.Go(func() error {
			cat, err := s.scanDef(gctx, def)
			if err != nil {
				return err
			}
			results[i] = cat
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// scanDef sums sizes and counts files for one category.
func (s *CategoryScanner) scanDef(ctx context.Context, def config.CategoryDef) (Category, error) {
	now := s.now()
	cat := Category{
		ID:          def.ID,
		Title:       def.Title,
		Description: def.Description,
	}

	for _, root := range def.Roots {
		err := walkFiles(ctx, root, func(path string, info fs.FileInfo) error {
			if !def.MatchesCutoff(info.ModTime(), now) {
				return nil
			}
			cat.SizeBytes += info.Size()
			cat.FileCount++
			return nil
		})
		if err != nil {
			return Category{}, err
		}
	}
	return cat, nil
}

// ListItems re-walks one category and returns up to limit items ordered by
// descending size, ties broken by path. HasMore is true iff strictly more
// matching items exist at scan time.
func (s *CategoryScanner) ListItems(ctx context.Context, id string, limit int) (CategoryItems, error) {
	def, ok := config.FindCategory(s.defs, id)
	if !ok {
		return CategoryItems{}, ErrUnknownCategory
	}
	if limit <= 0 {
		limit = 200
	}

	now := s.now()
	var items []CategoryItem
	for _, root := range def.Roots {
		err := walkFiles(ctx, root, func(path string, info fs.FileInfo) error {
			if !def.MatchesCutoff(info.ModTime(), now) {
				return nil
			}
			items = append(items, CategoryItem{
				Path:       path,
				SizeBytes:  info.Size(),
				ModifiedMS: modifiedMS(info),
			})
			return nil
		})
		if err != nil {
			return CategoryItems{}, err
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].SizeBytes != items[j].SizeBytes {
			return items[i].SizeBytes > items[j].SizeBytes
		}
		return items[i].Path < items[j].Path
	})

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}
	return CategoryItems{Items: items, HasMore: hasMore}, nil
}

// modifiedMS converts a file's modification time to milliseconds since
// epoch; zero when unknown.
func modifiedMS(info fs.FileInfo) int64 {
	mt := info.ModTime()
	if mt.IsZero() || mt.Before(time.Unix(0, 0)) {
		return 0
	}
	return mt.UnixMilli()
}
