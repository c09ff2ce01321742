package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/engine"
	"github.com/lakshaymaurya-felt/winsweep/internal/tui"
)

var (
	// Global flags
	debug  bool
	dryRun bool

	// Version info populated from main
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets build-time version information.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "ws",
	Short: "Reclaim disk space on Windows",
	Long: `WinSweep - Reclaim disk space on Windows.

Scans well-known removable content (temp files, caches, old downloads,
logs, the Recycle Bin, superseded Windows installations) plus oversized
files and folders, lets you review and refine the selection, and deletes
it permanently.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Without a subcommand, open the interactive review screen when
		// attached to a real terminal; otherwise point at --help.
		if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			if err := tui.Run(engine.NewSession()); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
				os.Exit(1)
			}
			return
		}
		fmt.Println("WinSweep - Reclaim disk space on Windows")
		fmt.Println("Run 'ws --help' for available commands.")
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show detailed operation logs")

	// Register all subcommands
	rootCmd.AddCommand(diskCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(largeCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(hibernateCmd)
	rootCmd.AddCommand(revealCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
