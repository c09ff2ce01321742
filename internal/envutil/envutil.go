// Package envutil expands environment variable references in paths.
package envutil

import (
	"os"
	"regexp"
)

var windowsVarPattern = regexp.MustCompile(`%([^%]+)%`)

// ExpandWindowsEnv resolves %VAR% references in a path. Unknown variables
// expand to the empty string. Only the Windows syntax is handled: `$` is a
// legal path character on NTFS (`C:\$Recycle.Bin`) and must pass through
// untouched.
func ExpandWindowsEnv(path string) string {
	return windowsVarPattern.ReplaceAllStringFunc(path, func(match string) string {
		return os.Getenv(match[1 : len(match)-1])
	})
}
