package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/engine"
	"github.com/lakshaymaurya-felt/winsweep/internal/scan"
	"github.com/lakshaymaurya-felt/winsweep/internal/ui"
)

var largeCmd = &cobra.Command{
	Use:   "large",
	Short: "Find large files and folders",
	Long: `Walk the system drive for files above a size threshold, plus
suspicious-named directories (cache, log, temp) whose contents cross it.
The suspicious flag is a name heuristic only — review before deleting.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		minMB, _ := cmd.Flags().GetInt64("min-size-mb")

		session := engine.NewSession()
		// Categories give large items their owning-category cross-reference.
		if _, err := session.ScanCategories(cmd.Context()); err != nil {
			return fmt.Errorf("scan failed: %w (try again)", err)
		}
		items, err := session.ScanLargeItems(cmd.Context(), scan.LargeScanOptions{
			Limit:        limit,
			MinSizeBytes: minMB * 1024 * 1024,
		})
		if err != nil {
			return fmt.Errorf("scan failed: %w (try again)", err)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		for _, item := range items {
			marker := " "
			if item.IsDir {
				marker = "/"
			}
			line := fmt.Sprintf("  %10s  %s%s", ui.FormatSize(item.SizeBytes), item.Path, marker)
			if item.Suspicious {
				line += "  " + ui.WarnStyle.Render("suspicious")
			}
			if item.CategoryID != "" {
				line += "  " + ui.DimStyle.Render("in "+item.CategoryID)
			}
			fmt.Println(line)
		}
		if len(items) == 0 {
			fmt.Println(ui.DimStyle.Render("  nothing above the threshold"))
		}
		return nil
	},
}

func init() {
	largeCmd.Flags().Int("limit", 200, "Maximum items to report")
	largeCmd.Flags().Int64("min-size-mb", 1024, "Minimum size in MiB")
	largeCmd.Flags().Bool("json", false, "Output as JSON")
}
