package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/envutil"
	"github.com/lakshaymaurya-felt/winsweep/internal/shell"
)

var revealCmd = &cobra.Command{
	Use:   "reveal <path>",
	Short: "Open Explorer with a path selected",
	Long:  `Open Windows Explorer with the given path selected. %VAR% references are expanded.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Reveal(envutil.ExpandWindowsEnv(args[0]))
	},
}
