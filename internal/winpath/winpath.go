// Package winpath implements the path identity rules used across the
// cleanup engine: Windows paths compare case-insensitively and forward
// slashes are treated as backslashes.
package winpath

import "strings"

// Normalize returns the canonical comparison form of a path:
// lowercased with forward slashes folded to backslashes.
func Normalize(path string) string {
	return strings.ToLower(strings.ReplaceAll(path, "/", `\`))
}

// Equal reports whether two paths are the same under Windows identity rules.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}

// Contains reports whether path is root itself or lies beneath root.
// A root with a trailing backslash (drive roots like C:\) is handled the
// same as one without.
func Contains(root, path string) bool {
	r := strings.TrimSuffix(Normalize(root), `\`)
	p := Normalize(path)
	return p == r || strings.HasPrefix(p, r+`\`)
}

// NormalizeSet normalizes every path in paths into a membership set.
func NormalizeSet(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[Normalize(p)] = true
	}
	return set
}
