package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/winsweep/internal/winpath"
)

// CategoryID values form the fixed cleanup vocabulary. Scans always report
// every one of these, even when empty.
const (
	CategoryTempFiles    = "temp_files"
	CategoryRecycleBin   = "recycle_bin"
	CategoryDownloadsOld = "downloads_old"
	CategorySystemCache  = "system_cache"
	CategoryBrowserCache = "browser_cache"
	CategorySystemLogs   = "system_logs"
	CategoryWindowsOld   = "windows_old"
)

// downloadsMaxAge is the grace period for the Downloads folder: only files
// untouched for this long count as removable.
const downloadsMaxAge = 30 * 24 * time.Hour

// CategoryDef describes one cleanup category: where it lives on disk and
// how matching entries are selected.
type CategoryDef struct {
	// ID is the stable category identifier.
	ID string

	// Title is the human-readable name.
	Title string

	// Description explains what gets removed.
	Description string

	// Roots is the list of filesystem roots this category covers.
	Roots []string

	// MaxAge, when nonzero, restricts matches to files whose last
	// modification is older than now minus MaxAge.
	MaxAge time.Duration

	// CleanupDirs indicates that emptied subdirectories (and the roots
	// themselves) should be removed after their files are deleted.
	CleanupDirs bool
}

// Cutoff returns the modification-time cutoff for this category.
// Files modified at or after the cutoff are kept. ok is false when the
// category has no age restriction.
func (d CategoryDef) Cutoff(now time.Time) (cutoff time.Time, ok bool) {
	if d.MaxAge <= 0 {
		return time.Time{}, false
	}
	return now.Add(-d.MaxAge), true
}

// MatchesCutoff reports whether a file with the given modification time is
// covered by this category. Files with an unknown modification time never
// match an age-restricted category.
func (d CategoryDef) MatchesCutoff(modTime time.Time, now time.Time) bool {
	cutoff, ok := d.Cutoff(now)
	if !ok {
		return true
	}
	if modTime.IsZero() {
		return false
	}
	return modTime.Before(cutoff)
}

// userProfile returns the user profile directory.
func userProfile() string {
	return os.Getenv("USERPROFILE")
}

// localAppData returns the local app data directory.
func localAppData() string {
	return os.Getenv("LOCALAPPDATA")
}

// winDir returns the Windows directory (e.g., C:\Windows).
// Falls back to C:\Windows only if %WINDIR% is not set.
func winDir() string {
	if w := os.Getenv("WINDIR"); w != "" {
		return w
	}
	if s := os.Getenv("SYSTEMROOT"); s != "" {
		return s
	}
	return `C:\Windows`
}

// programData returns the ProgramData directory (e.g., C:\ProgramData).
func programData() string {
	if p := os.Getenv("PROGRAMDATA"); p != "" {
		return p
	}
	return `C:\ProgramData`
}

// systemDrive returns the system drive letter without a trailing slash
// (e.g., "C:"). Falls back to C: only if %SYSTEMDRIVE% is not set.
func systemDrive() string {
	if d := os.Getenv("SYSTEMDRIVE"); d != "" {
		return d
	}
	return "C:"
}

// SystemDriveMount returns the mount path of the system drive (e.g., C:\).
func SystemDriveMount() string {
	return systemDrive() + `\`
}

// programFiles returns the Program Files directory.
func programFiles() string {
	if p := os.Getenv("PROGRAMFILES"); p != "" {
		return p
	}
	return `C:\Program Files`
}

// programFilesX86 returns the Program Files (x86) directory.
func programFilesX86() string {
	if p := os.Getenv("PROGRAMFILES(X86)"); p != "" {
		return p
	}
	return `C:\Program Files (x86)`
}

// driveMounts returns the mount paths of all accessible drives (e.g.,
// ["C:\", "D:\"]) by probing A-Z.
func driveMounts() []string {
	var mounts []string
	for c := 'A'; c <= 'Z'; c++ {
		root := string(c) + `:\`
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}
		mounts = append(mounts, root)
	}
	if len(mounts) == 0 {
		mounts = append(mounts, SystemDriveMount())
	}
	return mounts
}

// dedupPaths removes duplicate paths under Windows identity rules,
// preserving order. %TEMP% often points at %LOCALAPPDATA%\Temp.
func dedupPaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if p == "" || strings.TrimSuffix(p, `\`) == "" {
			continue
		}
		key := winpath.Normalize(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// GetCategories returns the fixed cleanup category catalog with all roots
// resolved from the environment. The set of IDs is stable; roots that do
// not exist on this machine simply scan to zero.
func GetCategories() []CategoryDef {
	home := userProfile()
	local := localAppData()
	w := winDir()

	tempRoots := []string{
		filepath.Join(w, "Temp"),
		os.TempDir(),
	}
	if local != "" {
		tempRoots = append(tempRoots, filepath.Join(local, "Temp"))
	}

	var browserRoots []string
	if local != "" {
		browserRoots = []string{
			filepath.Join(local, "Microsoft", "Windows", "INetCache"),
			filepath.Join(local, "Google", "Chrome", "User Data", "Default", "Cache"),
			filepath.Join(local, "Google", "Chrome", "User Data", "Default", "Code Cache"),
			filepath.Join(local, "Microsoft", "Edge", "User Data", "Default", "Cache"),
			filepath.Join(local, "Microsoft", "Edge", "User Data", "Default", "Code Cache"),
		}
	}

	var recycleRoots []string
	for _, mount := range driveMounts() {
		recycleRoots = append(recycleRoots, filepath.Join(mount, "$Recycle.Bin"))
	}

	var downloadRoots []string
	if home != "" {
		downloadRoots = append(downloadRoots, filepath.Join(home, "Downloads"))
	}

	return []CategoryDef{
		{
			ID:          CategoryTempFiles,
			Title:       "Temporary files",
			Description: "Temporary files created by Windows and applications",
			Roots:       dedupPaths(tempRoots),
			CleanupDirs: true,
		},
		{
			ID:          CategoryRecycleBin,
			Title:       "Recycle Bin",
			Description: "All files currently in the Recycle Bin",
			Roots:       dedupPaths(recycleRoots),
			CleanupDirs: true,
		},
		{
			ID:          CategoryDownloadsOld,
			Title:       "Old downloads",
			Description: "Files in Downloads untouched for more than 30 days",
			Roots:       dedupPaths(downloadRoots),
			MaxAge:      downloadsMaxAge,
		},
		{
			ID:          CategorySystemCache,
			Title:       "System cache",
			Description: "Windows Update and Delivery Optimization caches",
			Roots: dedupPaths([]string{
				filepath.Join(w, "SoftwareDistribution", "Download"),
				filepath.Join(w, "SoftwareDistribution", "DeliveryOptimization", "Cache"),
			}),
			CleanupDirs: true,
		},
		{
			ID:          CategoryBrowserCache,
			Title:       "Browser cache",
			Description: "Cached pages and code from installed browsers",
			Roots:       dedupPaths(browserRoots),
			CleanupDirs: true,
		},
		{
			ID:          CategorySystemLogs,
			Title:       "System logs",
			Description: "Windows setup, servicing, and event log files",
			Roots: dedupPaths([]string{
				filepath.Join(w, "Logs"),
				filepath.Join(w, "System32", "LogFiles"),
				filepath.Join(w, "Panther"),
			}),
			CleanupDirs: true,
		},
		{
			ID:          CategoryWindowsOld,
			Title:       "Previous Windows installation",
			Description: "Old system files kept after a Windows upgrade",
			Roots:       dedupPaths([]string{filepath.Join(SystemDriveMount(), "Windows.old")}),
			CleanupDirs: true,
		},
	}
}

// FindCategory returns the definition for id, if it exists.
func FindCategory(defs []CategoryDef, id string) (CategoryDef, bool) {
	for _, d := range defs {
		if d.ID == id {
			return d, true
		}
	}
	return CategoryDef{}, false
}

// GetNeverDeletePaths returns paths that must NEVER be reported as
// deletable or deleted under any circumstances. This list uses environment
// variables to support Windows installations on any drive letter.
func GetNeverDeletePaths() []string {
	w := winDir()
	sd := SystemDriveMount()
	return []string{
		filepath.Join(w, "System32"),
		filepath.Join(w, "SysWOW64"),
		filepath.Join(w, "WinSxS"),
		filepath.Join(w, "assembly"),
		filepath.Join(w, "servicing"),
		filepath.Join(w, "Installer"),
		filepath.Join(sd, "Boot"),
		filepath.Join(sd, "bootmgr"),
		filepath.Join(sd, "EFI"),
		filepath.Join(sd, "Recovery"),
		filepath.Join(sd, "System Volume Information"),
		programFiles(),
		programFilesX86(),
		programData(),
	}
}
