package scan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// longPath adds the \\?\ prefix for paths exceeding MAX_PATH on Windows.
func longPath(path string) string {
	if len(path) >= 260 && !strings.HasPrefix(path, `\\?\`) {
		return `\\?\` + filepath.Clean(path)
	}
	return path
}

// isReparsePoint returns true if the path is a Windows junction or symlink
// (FILE_ATTRIBUTE_REPARSE_POINT). Must be checked to avoid infinite recursion.
func isReparsePoint(path string) bool {
	pathp, err := syscall.UTF16PtrFromString(longPath(path))
	if err != nil {
		return false
	}
	attrs, err := syscall.GetFileAttributes(pathp)
	if err != nil {
		return false
	}
	const fileAttributeReparsePoint = 0x0400
	return attrs&fileAttributeReparsePoint != 0
}

// walkFiles visits every regular file under root, skipping unreadable
// entries and reparse points rather than failing. A missing root is not an
// error. Cancellation surfaces as ctx.Err(); visit may stop the walk early
// by returning fs.SkipAll.
func walkFiles(ctx context.Context, root string, visit func(path string, info fs.FileInfo) error) error {
	rootInfo, err := os.Lstat(longPath(root))
	if err != nil {
		return nil
	}
	if !rootInfo.IsDir() {
		return visit(root, rootInfo)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			// Permission denied or vanished mid-walk — omit, don't fail.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != root && isReparsePoint(path) {
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
		return visit(path, info)
	})
}
