package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/disk"
	"github.com/lakshaymaurya-felt/winsweep/internal/hibernate"
	"github.com/lakshaymaurya-felt/winsweep/internal/ui"
)

var diskCmd = &cobra.Command{
	Use:   "disk",
	Short: "Show system drive capacity",
	Long:  "Report total, free, and used capacity of the system drive, plus hibernation file usage.",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := disk.GetVolumeInfo()
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		}

		label := info.MountPoint
		if info.Label != "" {
			label += " (" + info.Label + ")"
		}
		fmt.Println(ui.TitleStyle.Render("  " + ui.IconDiamond + " " + label))
		fmt.Printf("  Total  %s\n", ui.FormatSize(int64(info.TotalBytes)))
		fmt.Printf("  Used   %s  (%s)\n", ui.FormatSize(int64(info.UsedBytes)), ui.FormatPercent(info.UsedPercent()))
		fmt.Printf("  Free   %s\n", ui.FormatSize(int64(info.FreeBytes)))

		// Extra context for "where did my space go".
		if hib, err := hibernate.Query(); err == nil && hib.Enabled {
			fmt.Printf("  %s\n", ui.DimStyle.Render(fmt.Sprintf("hiberfil.sys holds %s (see 'ws hibernate')", ui.FormatSize(hib.SizeBytes))))
		}
		return nil
	},
}

func init() {
	diskCmd.Flags().Bool("json", false, "Output as JSON")
}
