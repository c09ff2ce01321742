package main

import (
	"os"

	"github.com/lakshaymaurya-felt/winsweep/cmd"
)

// Build-time version information, injected via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
