// Package selection reconciles category-level and per-path selection state
// into a final deletion set and reclaimable-byte total. Pure in-memory
// logic: no I/O, no failure modes beyond contract misuse.
//
// Each category is a tri-state per path, compactly encoded as two sets:
// when the category is selected, the excluded set lists paths opted back
// out ("all minus these"); when it is not selected, the included set lists
// paths opted in ("none but these"). A path is never in both sets at once,
// and toggling the category itself always starts from a clean slate.
package selection

import (
	"sort"

	"github.com/lakshaymaurya-felt/winsweep/internal/scan"
	"github.com/lakshaymaurya-felt/winsweep/internal/winpath"
)

type categoryState struct {
	sizeBytes     int64
	selected      bool
	excluded      map[string]string // normalized path -> original path
	included      map[string]string
	excludedBytes int64
	includedBytes int64
}

// State tracks the user's current selection against one scan snapshot.
// Not safe for concurrent use; the owning session serializes access.
type State struct {
	categories map[string]*categoryState
	order      []string
	standalone map[string]standaloneItem // normalized path
}

type standaloneItem struct {
	path string
	size int64
}

// NewState creates an empty selection over a category scan snapshot.
// Category aggregate sizes are captured here; they are the basis of the
// reclaimable-byte arithmetic until the next scan replaces the state.
func NewState(categories []scan.Category) *State {
	s := &State{
		categories: make(map[string]*categoryState, len(categories)),
		standalone: make(map[string]standaloneItem),
	}
	for _, c := range categories {
		s.categories[c.ID] = &categoryState{
			sizeBytes: c.SizeBytes,
			excluded:  make(map[string]string),
			included:  make(map[string]string),
		}
		s.order = append(s.order, c.ID)
	}
	return s
}

// IsCategorySelected reports the category's own checkbox state.
func (s *State) IsCategorySelected(id string) bool {
	cs := s.categories[id]
	return cs != nil && cs.selected
}

// IsSelected reports whether a path is part of the final deletion set.
// For category items: selected categories delete everything except the
// excluded set; unselected categories delete only the included set.
// Standalone items (empty categoryID) use the flat selected-path set.
func (s *State) IsSelected(categoryID, path string) bool {
	key := winpath.Normalize(path)
	if categoryID == "" {
		_, ok := s.standalone[key]
		return ok
	}
	cs := s.categories[categoryID]
	if cs == nil {
		return false
	}
	if cs.selected {
		_, excluded := cs.excluded[key]
		return !excluded
	}
	_, included := cs.included[key]
	return included
}

// ToggleCategory flips the category's selected flag and clears both
// override sets: switching between "all minus exclusions" and "none plus
// inclusions" invalidates prior per-path decisions.
func (s *State) ToggleCategory(id string) {
	cs := s.categories[id]
	if cs == nil {
		return
	}
	cs.selected = !cs.selected
	cs.excluded = make(map[string]string)
	cs.included = make(map[string]string)
	cs.excludedBytes = 0
	cs.includedBytes = 0
}

// ToggleItem sets one path's checked state. For category items it mutates
// the exclusion or inclusion set for that category and the matching byte
// accumulator; re-applying the current state is a no-op. Standalone items
// mutate the flat set directly.
func (s *State) ToggleItem(categoryID, path string, sizeBytes int64, checked bool) {
	key := winpath.Normalize(path)

	if categoryID == "" {
		if checked {
			s.standalone[key] = standaloneItem{path: path, size: sizeBytes}
		} else {
			delete(s.standalone, key)
		}
		return
	}

	cs := s.categories[categoryID]
	if cs == nil {
		return
	}
	if cs.selected {
		// Category covers everything; unchecking adds an exclusion.
		if checked {
			if _, ok := cs.excluded[key]; ok {
				delete(cs.excluded, key)
				cs.excludedBytes -= sizeBytes
				if cs.excludedBytes < 0 {
					cs.excludedBytes = 0
				}
			}
		} else {
			if _, ok := cs.excluded[key]; !ok {
				cs.excluded[key] = path
				cs.excludedBytes += sizeBytes
			}
		}
		return
	}
	// Category covers nothing; checking adds an inclusion.
	if checked {
		if _, ok := cs.included[key]; !ok {
			cs.included[key] = path
			cs.includedBytes += sizeBytes
		}
	} else {
		if _, ok := cs.included[key]; ok {
			delete(cs.included, key)
			cs.includedBytes -= sizeBytes
			if cs.includedBytes < 0 {
				cs.includedBytes = 0
			}
		}
	}
}

// TotalReclaimableBytes returns the byte total the current selection would
// free: selected categories minus their exclusions (floored at zero),
// inclusions of unselected categories, and selected standalone items.
func (s *State) TotalReclaimableBytes() int64 {
	var total int64
	for _, cs := range s.categories {
		if cs.selected {
			remaining := cs.sizeBytes - cs.excludedBytes
			if remaining > 0 {
				total += remaining
			}
		} else {
			total += cs.includedBytes
		}
	}
	for _, item := range s.standalone {
		total += item.size
	}
	return total
}

// EntryCount returns the number of effective selection entries: categories
// with any effect (selected, or carrying inclusions) plus selected
// standalone items. Zero means cleanup is not permitted.
func (s *State) EntryCount() int {
	count := 0
	for _, cs := range s.categories {
		if cs.selected || len(cs.included) > 0 {
			count++
		}
	}
	return count + len(s.standalone)
}

// SelectedCategoryIDs returns the ids of selected categories in snapshot
// order.
func (s *State) SelectedCategoryIDs() []string {
	var ids []string
	for _, id := range s.order {
		if s.categories[id].selected {
			ids = append(ids, id)
		}
	}
	return ids
}

// ExcludedPaths returns the per-category exclusion sets, only for selected
// categories (exclusions have no effect otherwise).
func (s *State) ExcludedPaths() map[string][]string {
	out := make(map[string][]string)
	for _, id := range s.order {
		cs := s.categories[id]
		if !cs.selected || len(cs.excluded) == 0 {
			continue
		}
		out[id] = sortedValues(cs.excluded)
	}
	return out
}

// IncludedPaths returns the per-category inclusion sets, only for
// unselected categories.
func (s *State) IncludedPaths() map[string][]string {
	out := make(map[string][]string)
	for _, id := range s.order {
		cs := s.categories[id]
		if cs.selected || len(cs.included) == 0 {
			continue
		}
		out[id] = sortedValues(cs.included)
	}
	return out
}

// StandalonePaths returns the selected standalone paths, sorted for
// deterministic deletion order.
func (s *State) StandalonePaths() []string {
	var paths []string
	for _, item := range s.standalone {
		paths = append(paths, item.path)
	}
	sort.Strings(paths)
	return paths
}

// StandaloneBytes returns the byte total of selected standalone items.
func (s *State) StandaloneBytes() int64 {
	var total int64
	for _, item := range s.standalone {
		total += item.size
	}
	return total
}

// CategoryReclaimableBytes returns the bytes the current selection would
// free from one category.
func (s *State) CategoryReclaimableBytes(id string) int64 {
	cs := s.categories[id]
	if cs == nil {
		return 0
	}
	if cs.selected {
		remaining := cs.sizeBytes - cs.excludedBytes
		if remaining < 0 {
			return 0
		}
		return remaining
	}
	return cs.includedBytes
}

func sortedValues(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
