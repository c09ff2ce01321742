// Package scan discovers removable content: per-category size/count
// aggregates, capped per-category item listings, and volume-wide large
// files and folders.
package scan

// Category is the aggregate scan result for one cleanup category.
// Size and count reflect the filesystem at scan time; results are
// superseded, never merged, by the next scan.
type Category struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SizeBytes   int64  `json:"sizeBytes"`
	FileCount   int64  `json:"fileCount"`
}

// CategoryItem is one file inside a category.
type CategoryItem struct {
	Path      string `json:"path"`
	SizeBytes int64  `json:"sizeBytes"`
	// ModifiedMS is milliseconds since epoch; zero when unknown.
	ModifiedMS int64 `json:"modifiedMs,omitempty"`
}

// CategoryItems is a capped item listing.
type CategoryItems struct {
	Items []CategoryItem `json:"items"`
	// HasMore is true iff strictly more matching items exist than were
	// returned.
	HasMore bool `json:"hasMore"`
}

// LargeItem is a file or directory above the large-scan threshold.
type LargeItem struct {
	Path      string `json:"path"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"sizeBytes"`
	IsDir     bool   `json:"isDir"`
	// Suspicious is an advisory name-heuristic flag, never a safety
	// guarantee and never auto-selected.
	Suspicious bool `json:"suspicious"`
	// CategoryID is set when the item falls inside a known category's
	// roots; such items follow that category's selection semantics
	// instead of a standalone toggle. Empty means standalone.
	CategoryID string `json:"categoryId,omitempty"`
}
