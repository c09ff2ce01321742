// Package shell holds thin pass-throughs to the Windows shell.
package shell

import (
	"fmt"
	"os"
	"os/exec"
)

// Reveal opens Explorer with the given path selected. Pure convenience —
// no engine state is read or written.
func Reveal(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot reveal %s: %w", path, err)
	}
	// explorer.exe takes the /select, switch and the target as one
	// comma-joined argument.
	return exec.Command("explorer", "/select,"+path).Start()
}
