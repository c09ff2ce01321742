package selection

import (
	"testing"

	"github.com/lakshaymaurya-felt/winsweep/internal/scan"
)

func testCategories() []scan.Category {
	return []scan.Category{
		{ID: "temp_files", SizeBytes: 500_000_000, FileCount: 120},
		{ID: "downloads_old", SizeBytes: 40_000_000, FileCount: 8},
		{ID: "browser_cache", SizeBytes: 0, FileCount: 0},
	}
}

func TestCategoryWithExclusion(t *testing.T) {
	s := NewState(testCategories())

	s.ToggleCategory("temp_files")
	if !s.IsCategorySelected("temp_files") {
		t.Fatal("category should be selected after toggle")
	}

	s.ToggleItem("temp_files", `C:\Temp\big.bin`, 10_000_000, false)

	if got := s.TotalReclaimableBytes(); got != 490_000_000 {
		t.Errorf("TotalReclaimableBytes = %d, want 490000000", got)
	}
	if s.IsSelected("temp_files", `C:\Temp\big.bin`) {
		t.Error("excluded path should not be selected")
	}
	if !s.IsSelected("temp_files", `C:\Temp\other.tmp`) {
		t.Error("non-excluded path in a selected category should be selected")
	}
}

func TestInclusionsWithoutCategory(t *testing.T) {
	s := NewState(testCategories())

	s.ToggleItem("downloads_old", `C:\Users\a\Downloads\one.iso`, 1000, true)
	s.ToggleItem("downloads_old", `C:\Users\a\Downloads\two.iso`, 2000, true)

	if got := s.TotalReclaimableBytes(); got != 3000 {
		t.Errorf("TotalReclaimableBytes = %d, want 3000", got)
	}
	// The category counts once despite two included items.
	if got := s.EntryCount(); got != 1 {
		t.Errorf("EntryCount = %d, want 1", got)
	}
	if !s.IsSelected("downloads_old", `C:\Users\a\Downloads\one.iso`) {
		t.Error("included path should be selected")
	}
	if s.IsSelected("downloads_old", `C:\Users\a\Downloads\three.iso`) {
		t.Error("non-included path in an unselected category should not be selected")
	}
}

func TestToggleCategoryClearsOverrides(t *testing.T) {
	s := NewState(testCategories())

	s.ToggleCategory("temp_files")
	s.ToggleItem("temp_files", `C:\Temp\a`, 100, false)

	// Off then on again: overrides must reset to a clean slate.
	s.ToggleCategory("temp_files")
	if got := s.TotalReclaimableBytes(); got != 0 {
		t.Errorf("after toggling off, TotalReclaimableBytes = %d, want 0", got)
	}
	s.ToggleCategory("temp_files")
	if got := s.TotalReclaimableBytes(); got != 500_000_000 {
		t.Errorf("after re-toggling on, TotalReclaimableBytes = %d, want full 500000000", got)
	}
	if !s.IsSelected("temp_files", `C:\Temp\a`) {
		t.Error("exclusion should not survive a category toggle cycle")
	}
}

func TestAccumulatorsNeverNegative(t *testing.T) {
	s := NewState(testCategories())
	s.ToggleCategory("temp_files")

	// Re-checking an already-non-excluded path is a no-op.
	s.ToggleItem("temp_files", `C:\Temp\a`, 1_000_000, true)
	s.ToggleItem("temp_files", `C:\Temp\a`, 1_000_000, true)
	if got := s.TotalReclaimableBytes(); got != 500_000_000 {
		t.Errorf("TotalReclaimableBytes = %d, want 500000000", got)
	}

	// Repeated unchecks of the same path count the size once.
	s.ToggleItem("temp_files", `C:\Temp\a`, 1_000_000, false)
	s.ToggleItem("temp_files", `C:\Temp\a`, 1_000_000, false)
	if got := s.TotalReclaimableBytes(); got != 499_000_000 {
		t.Errorf("TotalReclaimableBytes = %d, want 499000000", got)
	}

	// Same on the inclusion side.
	s2 := NewState(testCategories())
	s2.ToggleItem("downloads_old", `C:\d\x`, 500, false)
	if got := s2.TotalReclaimableBytes(); got != 0 {
		t.Errorf("unchecking a never-included path changed total to %d", got)
	}
	s2.ToggleItem("downloads_old", `C:\d\x`, 500, true)
	s2.ToggleItem("downloads_old", `C:\d\x`, 500, false)
	s2.ToggleItem("downloads_old", `C:\d\x`, 500, false)
	if got := s2.TotalReclaimableBytes(); got != 0 {
		t.Errorf("TotalReclaimableBytes = %d, want 0", got)
	}
}

func TestExclusionsClampedAtCategorySize(t *testing.T) {
	s := NewState(testCategories())
	s.ToggleCategory("downloads_old")

	// Excluding more bytes than the scan reported (the disk moved on)
	// floors the category at zero rather than going negative.
	s.ToggleItem("downloads_old", `C:\d\huge.iso`, 90_000_000, false)
	if got := s.TotalReclaimableBytes(); got != 0 {
		t.Errorf("TotalReclaimableBytes = %d, want 0", got)
	}
}

func TestStandaloneItems(t *testing.T) {
	s := NewState(testCategories())

	s.ToggleItem("", `C:\Games\old.vhd`, 5_000_000_000, true)
	s.ToggleItem("", `C:\VMs\dev.vmdk`, 3_000_000_000, true)

	if got := s.TotalReclaimableBytes(); got != 8_000_000_000 {
		t.Errorf("TotalReclaimableBytes = %d, want 8000000000", got)
	}
	if got := s.EntryCount(); got != 2 {
		t.Errorf("EntryCount = %d, want 2", got)
	}
	if !s.IsSelected("", `C:\Games\old.vhd`) {
		t.Error("standalone item should be selected")
	}

	s.ToggleItem("", `C:\Games\old.vhd`, 5_000_000_000, false)
	if got := s.TotalReclaimableBytes(); got != 3_000_000_000 {
		t.Errorf("TotalReclaimableBytes = %d, want 3000000000", got)
	}
	if got := s.StandalonePaths(); len(got) != 1 || got[0] != `C:\VMs\dev.vmdk` {
		t.Errorf("StandalonePaths = %v", got)
	}
}

func TestOwnedItemNeverEntersStandaloneSet(t *testing.T) {
	s := NewState(testCategories())

	// An item with an owning category routes through that category's
	// override sets, not the flat standalone set.
	s.ToggleItem("temp_files", `C:\Temp\owned.bin`, 2_000_000_000, true)

	if len(s.StandalonePaths()) != 0 {
		t.Errorf("StandalonePaths = %v, want empty", s.StandalonePaths())
	}
	if s.StandaloneBytes() != 0 {
		t.Errorf("StandaloneBytes = %d, want 0", s.StandaloneBytes())
	}
	if included := s.IncludedPaths()["temp_files"]; len(included) != 1 {
		t.Errorf("IncludedPaths[temp_files] = %v, want one entry", included)
	}
}

func TestPathIdentityIsCaseInsensitive(t *testing.T) {
	s := NewState(testCategories())
	s.ToggleCategory("temp_files")

	s.ToggleItem("temp_files", `C:\Temp\File.TMP`, 1000, false)
	if s.IsSelected("temp_files", `c:/temp/file.tmp`) {
		t.Error("case/slash variants must resolve to the same path")
	}
	// Re-checking through a different spelling removes the exclusion.
	s.ToggleItem("temp_files", `c:\TEMP\file.tmp`, 1000, true)
	if got := s.TotalReclaimableBytes(); got != 500_000_000 {
		t.Errorf("TotalReclaimableBytes = %d, want 500000000", got)
	}
}

// TestReconciliationInvariant drives a mixed transition sequence and checks
// the core equivalence: the byte total always equals the summed sizes of
// exactly the paths IsSelected reports true for.
func TestReconciliationInvariant(t *testing.T) {
	type pathInfo struct {
		category string
		path     string
		size     int64
	}
	universe := []pathInfo{
		{"temp_files", `C:\Temp\a`, 200_000_000},
		{"temp_files", `C:\Temp\b`, 300_000_000},
		{"downloads_old", `C:\d\one`, 25_000_000},
		{"downloads_old", `C:\d\two`, 15_000_000},
		{"", `C:\big\standalone.vhd`, 7_000_000_000},
	}
	cats := []scan.Category{
		{ID: "temp_files", SizeBytes: 500_000_000},
		{ID: "downloads_old", SizeBytes: 40_000_000},
	}

	check := func(t *testing.T, s *State, step string) {
		t.Helper()
		var want int64
		for _, p := range universe {
			if s.IsSelected(p.category, p.path) {
				want += p.size
			}
		}
		if got := s.TotalReclaimableBytes(); got != want {
			t.Errorf("%s: TotalReclaimableBytes = %d, want %d (sum over IsSelected)", step, got, want)
		}
	}

	s := NewState(cats)
	check(t, s, "empty")

	s.ToggleCategory("temp_files")
	check(t, s, "temp selected")

	s.ToggleItem("temp_files", `C:\Temp\a`, 200_000_000, false)
	check(t, s, "temp minus a")

	s.ToggleItem("downloads_old", `C:\d\one`, 25_000_000, true)
	check(t, s, "downloads plus one")

	s.ToggleItem("", `C:\big\standalone.vhd`, 7_000_000_000, true)
	check(t, s, "standalone added")

	s.ToggleItem("temp_files", `C:\Temp\a`, 200_000_000, true)
	check(t, s, "temp a restored")

	s.ToggleCategory("downloads_old")
	check(t, s, "downloads flipped to selected (inclusions cleared)")

	s.ToggleCategory("temp_files")
	check(t, s, "temp deselected (exclusions cleared)")
}
