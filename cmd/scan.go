package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/engine"
	"github.com/lakshaymaurya-felt/winsweep/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan cleanup categories",
	Long:  "Walk the fixed cleanup categories and report their current size and item count.",
	RunE: func(cmd *cobra.Command, args []string) error {
		session := engine.NewSession()
		cats, err := session.ScanCategories(cmd.Context())
		if err != nil {
			return fmt.Errorf("scan failed: %w (try again)", err)
		}

		sort.SliceStable(cats, func(i, j int) bool {
			return cats[i].SizeBytes > cats[j].SizeBytes
		})

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(cats)
		}

		var total, files int64
		fmt.Println(ui.TitleStyle.Render("  " + ui.IconDiamond + " Cleanup categories"))
		for _, cat := range cats {
			line := fmt.Sprintf("  %-36s %10s  %6d files   %s",
				cat.Title, ui.FormatSize(cat.SizeBytes), cat.FileCount, ui.DimStyle.Render(cat.ID))
			if cat.SizeBytes == 0 {
				line = ui.DimStyle.Render(line)
			}
			fmt.Println(line)
			total += cat.SizeBytes
			files += cat.FileCount
		}
		fmt.Println()
		fmt.Printf("  Reclaimable: %s in %d files\n", ui.FormatSize(total), files)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list <category>",
	Short: "List the items of one category",
	Long:  "Re-walk one cleanup category and list its largest items.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		session := engine.NewSession()
		items, err := session.ListCategoryItems(cmd.Context(), args[0], limit)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}

		for _, item := range items.Items {
			fmt.Printf("  %10s  %s\n", ui.FormatSize(item.SizeBytes), item.Path)
		}
		if items.HasMore {
			fmt.Println(ui.DimStyle.Render(fmt.Sprintf("  … more than %d items, largest shown", len(items.Items))))
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().Bool("json", false, "Output as JSON")
	listCmd.Flags().Int("limit", 200, "Maximum items to list")
	listCmd.Flags().Bool("json", false, "Output as JSON")
}
