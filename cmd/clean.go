package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/clean"
	"github.com/lakshaymaurya-felt/winsweep/internal/config"
	"github.com/lakshaymaurya-felt/winsweep/internal/engine"
	"github.com/lakshaymaurya-felt/winsweep/internal/envutil"
	"github.com/lakshaymaurya-felt/winsweep/internal/ui"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [category...]",
	Short: "Delete the contents of cleanup categories",
	Long: `Scan the given categories (all by default) and permanently delete their
contents. Deletion does not use the Recycle Bin and cannot be undone;
per-path failures are reported alongside the freed total.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		session := engine.NewSession()

		for i, p := range standalonePaths {
			standalonePaths[i] = envutil.ExpandWindowsEnv(p)
		}
		// --path alone skips the category machinery entirely.
		if len(standalonePaths) > 0 && len(args) == 0 {
			return cleanStandalone(cmd, session)
		}

		cats, err := session.ScanCategories(cmd.Context())
		if err != nil {
			return fmt.Errorf("scan failed: %w (try again)", err)
		}

		ids, err := resolveCategoryIDs(args)
		if err != nil {
			return err
		}

		var planned int64
		byID := make(map[string]int64, len(cats))
		for _, c := range cats {
			byID[c.ID] = c.SizeBytes
		}
		for _, id := range ids {
			planned += byID[id]
		}

		if dryRun {
			fmt.Println(ui.TitleStyle.Render("  Cleanup plan (dry run)"))
			for _, id := range ids {
				fmt.Printf("  %-16s %10s\n", id, ui.FormatSize(byID[id]))
			}
			fmt.Printf("\n  Would free up to %s. Nothing was deleted.\n", ui.FormatSize(planned))
			return nil
		}

		if !assumeYes {
			fmt.Printf("  Permanently delete up to %s from %s? [y/N] ",
				ui.FormatSize(planned), strings.Join(ids, ", "))
			var answer string
			fmt.Scanln(&answer)
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Println("  Cancelled.")
				return nil
			}
		}

		result, err := session.CleanCategories(cmd.Context(), ids, nil, nil)
		if err != nil {
			return err
		}
		if len(standalonePaths) > 0 {
			extra, err := session.CleanLargeItems(cmd.Context(), standalonePaths)
			if err != nil {
				return err
			}
			result.DeletedBytes += extra.DeletedBytes
			result.DeletedCount += extra.DeletedCount
			result.Failed = append(result.Failed, extra.Failed...)
		}

		printCleanResult(result)
		return nil
	},
}

// cleanStandalone deletes only the --path arguments.
func cleanStandalone(cmd *cobra.Command, session *engine.Session) error {
	if dryRun {
		fmt.Println(ui.TitleStyle.Render("  Cleanup plan (dry run)"))
		for _, p := range standalonePaths {
			fmt.Printf("  %s\n", p)
		}
		fmt.Println("\n  Nothing was deleted.")
		return nil
	}
	if !assumeYes {
		fmt.Printf("  Permanently delete %d path(s)? [y/N] ", len(standalonePaths))
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
			fmt.Println("  Cancelled.")
			return nil
		}
	}
	result, err := session.CleanLargeItems(cmd.Context(), standalonePaths)
	if err != nil {
		return err
	}
	printCleanResult(result)
	return nil
}

func printCleanResult(result clean.Result) {
	fmt.Println("  " + ui.SuccessStyle.Render(fmt.Sprintf(
		"%s Freed %s (%d items)", ui.IconCheck,
		ui.FormatSize(result.DeletedBytes), result.DeletedCount)))
	if n := len(result.Failed); n > 0 {
		fmt.Println("  " + ui.WarnStyle.Render(fmt.Sprintf("%d items could not be deleted", n)))
		if debug {
			for _, f := range result.Failed {
				fmt.Printf("    %s %s — %s\n", ui.IconCross, f.Path, f.Message)
			}
		}
	}
}

var (
	assumeYes       bool
	standalonePaths []string
)

// resolveCategoryIDs validates the requested ids against the fixed
// vocabulary; no arguments means every category.
func resolveCategoryIDs(args []string) ([]string, error) {
	defs := config.GetCategories()
	if len(args) == 0 {
		ids := make([]string, 0, len(defs))
		for _, d := range defs {
			ids = append(ids, d.ID)
		}
		return ids, nil
	}

	known := make(map[string]bool, len(defs))
	var vocabulary []string
	for _, d := range defs {
		known[d.ID] = true
		vocabulary = append(vocabulary, d.ID)
	}
	sort.Strings(vocabulary)

	var ids []string
	for _, arg := range args {
		if !known[arg] {
			return nil, fmt.Errorf("unknown category %q (one of: %s)", arg, strings.Join(vocabulary, ", "))
		}
		ids = append(ids, arg)
	}
	return ids, nil
}

func init() {
	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview the cleanup plan without deleting")
	cleanCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")
	cleanCmd.Flags().StringArrayVar(&standalonePaths, "path", nil, "Also delete a specific file or folder (repeatable; %VAR% expanded)")
}
