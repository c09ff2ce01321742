package clean

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lakshaymaurya-felt/winsweep/internal/config"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func TestCleanCategoryDeletesFiles(t *testing.T) {
	tmp := t.TempDir()
	catRoot := filepath.Join(tmp, "junk")
	writeFile(t, filepath.Join(catRoot, "a.tmp"), 100)
	writeFile(t, filepath.Join(catRoot, "sub", "b.tmp"), 200)

	defs := []config.CategoryDef{{ID: "temp_files", Roots: []string{catRoot}}}
	e := NewExecutor(defs, tmp, nil)

	result, err := e.CleanCategories(context.Background(), Request{IDs: []string{"temp_files"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedBytes != 300 || result.DeletedCount != 2 {
		t.Errorf("got %d bytes / %d files, want 300 / 2", result.DeletedBytes, result.DeletedCount)
	}
	if len(result.Failed) != 0 {
		t.Errorf("unexpected failures: %+v", result.Failed)
	}
	if exists(filepath.Join(catRoot, "a.tmp")) || exists(filepath.Join(catRoot, "sub", "b.tmp")) {
		t.Error("files survived the clean")
	}
}

func TestCleanCategoryHonorsExclusions(t *testing.T) {
	tmp := t.TempDir()
	catRoot := filepath.Join(tmp, "junk")
	keep := filepath.Join(catRoot, "keep.tmp")
	writeFile(t, keep, 100)
	writeFile(t, filepath.Join(catRoot, "drop.tmp"), 250)

	defs := []config.CategoryDef{{ID: "temp_files", Roots: []string{catRoot}}}
	e := NewExecutor(defs, tmp, nil)

	result, err := e.CleanCategories(context.Background(), Request{
		IDs: []string{"temp_files"},
		// Mixed case to exercise case-insensitive path identity.
		ExcludedPaths: map[string][]string{"temp_files": {filepath.Join(catRoot, "KEEP.tmp")}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedBytes != 250 || result.DeletedCount != 1 {
		t.Errorf("got %d bytes / %d files, want 250 / 1", result.DeletedBytes, result.DeletedCount)
	}
	if !exists(keep) {
		t.Error("excluded path was deleted")
	}
}

func TestCleanCategoryHonorsCutoff(t *testing.T) {
	tmp := t.TempDir()
	catRoot := filepath.Join(tmp, "dl")
	oldFile := filepath.Join(catRoot, "old.iso")
	newFile := filepath.Join(catRoot, "new.iso")
	writeFile(t, oldFile, 500)
	writeFile(t, newFile, 900)
	oldTime := time.Now().Add(-45 * 24 * time.Hour)
	if err := os.Chtimes(oldFile, oldTime, oldTime); err != nil {
		t.Fatal(err)
	}

	defs := []config.CategoryDef{{ID: "downloads_old", Roots: []string{catRoot}, MaxAge: 30 * 24 * time.Hour}}
	e := NewExecutor(defs, tmp, nil)

	result, err := e.CleanCategories(context.Background(), Request{IDs: []string{"downloads_old"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedCount != 1 || result.DeletedBytes != 500 {
		t.Errorf("got %d bytes / %d files, want 500 / 1", result.DeletedBytes, result.DeletedCount)
	}
	if !exists(newFile) {
		t.Error("recent file was deleted despite the age cutoff")
	}
}

func TestCleanIncludedPathsOnly(t *testing.T) {
	tmp := t.TempDir()
	catRoot := filepath.Join(tmp, "junk")
	want := filepath.Join(catRoot, "take.tmp")
	writeFile(t, want, 1000)
	writeFile(t, filepath.Join(catRoot, "leave.tmp"), 2000)

	defs := []config.CategoryDef{{ID: "temp_files", Roots: []string{catRoot}}}
	e := NewExecutor(defs, tmp, nil)

	// Category not in IDs: only the included path goes.
	result, err := e.CleanCategories(context.Background(), Request{
		IncludedPaths: map[string][]string{"temp_files": {want, want}}, // duplicate collapses
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedBytes != 1000 || result.DeletedCount != 1 {
		t.Errorf("got %d bytes / %d files, want 1000 / 1", result.DeletedBytes, result.DeletedCount)
	}
	if !exists(filepath.Join(catRoot, "leave.tmp")) {
		t.Error("unselected category content was deleted")
	}
}

func TestCleanIncludedRefusals(t *testing.T) {
	tmp := t.TempDir()
	catRoot := filepath.Join(tmp, "junk")
	subdir := filepath.Join(catRoot, "sub")
	writeFile(t, filepath.Join(subdir, "x.tmp"), 10)
	outside := filepath.Join(tmp, "elsewhere", "y.tmp")
	writeFile(t, outside, 10)

	defs := []config.CategoryDef{{ID: "temp_files", Roots: []string{catRoot}}}
	e := NewExecutor(defs, tmp, nil)

	result, err := e.CleanCategories(context.Background(), Request{
		IncludedPaths: map[string][]string{"temp_files": {subdir, outside}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedCount != 0 {
		t.Errorf("nothing should have been deleted, got %d", result.DeletedCount)
	}
	if len(result.Failed) != 2 {
		t.Fatalf("want 2 refusals, got %+v", result.Failed)
	}
	reasons := map[string]string{}
	for _, f := range result.Failed {
		reasons[f.Path] = f.Message
	}
	if reasons[subdir] != "path is a directory" {
		t.Errorf("directory refusal message = %q", reasons[subdir])
	}
	if reasons[outside] != "path is outside cleanup scope" {
		t.Errorf("scope refusal message = %q", reasons[outside])
	}
	if !exists(subdir) || !exists(outside) {
		t.Error("refused paths must be untouched")
	}
}

func TestRecycleBinUsesFastClear(t *testing.T) {
	tmp := t.TempDir()
	defs := []config.CategoryDef{{ID: config.CategoryRecycleBin}}
	e := NewExecutor(defs, tmp, nil)

	called := false
	e.recycleBinClear = func() Result {
		called = true
		return Result{DeletedBytes: 4096, DeletedCount: 3}
	}

	result, err := e.CleanCategories(context.Background(), Request{IDs: []string{config.CategoryRecycleBin}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("fast clear was not invoked")
	}
	if result.DeletedBytes != 4096 || result.DeletedCount != 3 {
		t.Errorf("fast-clear result not propagated: %+v", result)
	}
}

func TestRecycleBinExclusionsDisableFastClear(t *testing.T) {
	tmp := t.TempDir()
	binRoot := filepath.Join(tmp, "bin")
	keep := filepath.Join(binRoot, "keep.dat")
	writeFile(t, keep, 100)
	writeFile(t, filepath.Join(binRoot, "drop.dat"), 200)

	defs := []config.CategoryDef{{ID: config.CategoryRecycleBin, Roots: []string{binRoot}}}
	e := NewExecutor(defs, tmp, nil)
	e.recycleBinClear = func() Result {
		t.Fatal("fast clear must not run when exclusions exist")
		return Result{}
	}

	result, err := e.CleanCategories(context.Background(), Request{
		IDs:           []string{config.CategoryRecycleBin},
		ExcludedPaths: map[string][]string{config.CategoryRecycleBin: {keep}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedCount != 1 || !exists(keep) {
		t.Errorf("expected per-file clean keeping the exclusion: %+v", result)
	}
}

func TestFastClearCreditsSnapshotStats(t *testing.T) {
	tmp := t.TempDir()
	cacheRoot := filepath.Join(tmp, "cachedir")
	writeFile(t, filepath.Join(cacheRoot, "blob"), 123)

	defs := []config.CategoryDef{{ID: config.CategorySystemCache, Roots: []string{cacheRoot}, CleanupDirs: true}}
	e := NewExecutor(defs, tmp, nil)

	result, err := e.CleanCategories(context.Background(), Request{
		IDs:           []string{config.CategorySystemCache},
		CategoryStats: map[string]CategoryStats{config.CategorySystemCache: {SizeBytes: 5000, FileCount: 7}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedBytes != 5000 || result.DeletedCount != 7 {
		t.Errorf("snapshot stats not credited: %+v", result)
	}
	if exists(cacheRoot) {
		t.Error("cache root should be removed wholesale")
	}
}

func TestFastClearFailedRootCreditsNothing(t *testing.T) {
	tmp := t.TempDir()
	goodRoot := filepath.Join(tmp, "cache-a")
	badRoot := filepath.Join(tmp, "cache-b")
	writeFile(t, filepath.Join(goodRoot, "blob"), 100)
	writeFile(t, filepath.Join(badRoot, "blob"), 200)

	defs := []config.CategoryDef{{ID: config.CategorySystemCache, Roots: []string{goodRoot, badRoot}, CleanupDirs: true}}
	e := NewExecutor(defs, tmp, nil)
	e.removeAll = func(path string) error {
		if path == badRoot {
			return errors.New("directory is locked")
		}
		return os.RemoveAll(path)
	}

	result, err := e.CleanCategories(context.Background(), Request{
		IDs:           []string{config.CategorySystemCache},
		CategoryStats: map[string]CategoryStats{config.CategorySystemCache: {SizeBytes: 5000, FileCount: 7}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Partial success cannot be attributed to a byte count, so nothing is
	// credited when any root fails.
	if result.DeletedBytes != 0 || result.DeletedCount != 0 {
		t.Errorf("stats credited despite a failed root: %+v", result)
	}
	if len(result.Failed) != 1 || result.Failed[0].Path != badRoot {
		t.Fatalf("want one failure for the locked root, got %+v", result.Failed)
	}
	if exists(goodRoot) {
		t.Error("successful roots are still removed")
	}
}

func TestCleanLargeItemsPartialFailure(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.bin")
	b := filepath.Join(tmp, "b.bin")
	missing := filepath.Join(tmp, "gone.bin")
	writeFile(t, a, 100)
	writeFile(t, b, 200)

	e := NewExecutor(nil, tmp, nil)
	result, err := e.CleanLargeItems(context.Background(), []string{a, missing, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedCount != 2 || result.DeletedBytes != 300 {
		t.Errorf("got %d files / %d bytes, want 2 / 300", result.DeletedCount, result.DeletedBytes)
	}
	if len(result.Failed) != 1 || result.Failed[0].Path != missing {
		t.Fatalf("want exactly one failure for the missing path, got %+v", result.Failed)
	}
	if exists(a) || exists(b) {
		t.Error("existing paths should be gone")
	}
}

func TestCleanLargeItemsDirectoryCountsOnce(t *testing.T) {
	tmp := t.TempDir()
	dir := filepath.Join(tmp, "bulk")
	writeFile(t, filepath.Join(dir, "one"), 300)
	writeFile(t, filepath.Join(dir, "nested", "two"), 700)

	e := NewExecutor(nil, tmp, nil)
	result, err := e.CleanLargeItems(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedCount != 1 || result.DeletedBytes != 1000 {
		t.Errorf("directory should count once with recursive size: %+v", result)
	}
	if exists(dir) {
		t.Error("directory tree should be removed")
	}
}

func TestCleanLargeItemsRefusals(t *testing.T) {
	tmp := t.TempDir()
	guarded := filepath.Join(tmp, "guarded")
	writeFile(t, filepath.Join(guarded, "f"), 10)
	outside := filepath.Join(filepath.Dir(tmp), "winsweep-outside-probe")

	e := NewExecutor(nil, tmp, []string{guarded})

	result, err := e.CleanLargeItems(context.Background(), []string{
		outside,
		tmp, // the volume root itself
		guarded,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedCount != 0 {
		t.Errorf("nothing should be deleted, got %d", result.DeletedCount)
	}
	messages := map[string]string{}
	for _, f := range result.Failed {
		messages[f.Path] = f.Message
	}
	if messages[outside] != "path is outside scan scope" {
		t.Errorf("outside refusal = %q", messages[outside])
	}
	if messages[tmp] != "refusing to delete volume root" {
		t.Errorf("root refusal = %q", messages[tmp])
	}
	if messages[guarded] != "path is protected" {
		t.Errorf("protected refusal = %q", messages[guarded])
	}
	if !exists(filepath.Join(guarded, "f")) {
		t.Error("protected content must be untouched")
	}
}

func TestCleanLargeItemsDeduplicates(t *testing.T) {
	tmp := t.TempDir()
	a := filepath.Join(tmp, "a.bin")
	writeFile(t, a, 100)

	e := NewExecutor(nil, tmp, nil)
	result, err := e.CleanLargeItems(context.Background(), []string{a, strings.ToUpper(a)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DeletedCount != 1 || len(result.Failed) != 0 {
		t.Errorf("duplicate spellings must collapse to one delete: %+v", result)
	}
}
