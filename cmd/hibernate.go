package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakshaymaurya-felt/winsweep/internal/hibernate"
	"github.com/lakshaymaurya-felt/winsweep/internal/ui"
)

var hibernateCmd = &cobra.Command{
	Use:   "hibernate [on|off]",
	Short: "Show or toggle hibernation",
	Long: `Without arguments, report whether hibernation is enabled and how much
space hiberfil.sys occupies. With on/off, toggle it via powercfg
(requires administrator).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			info, err := hibernate.Query()
			if err != nil {
				return err
			}
			printHibernation(info)
			return nil
		}

		var enable bool
		switch args[0] {
		case "on":
			enable = true
		case "off":
			enable = false
		default:
			return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
		}

		info, err := hibernate.SetEnabled(cmd.Context(), enable)
		if err != nil {
			return err
		}
		printHibernation(info)
		return nil
	},
}

func printHibernation(info hibernate.Info) {
	if info.Enabled {
		fmt.Printf("  Hibernation is on — %s occupies %s\n", info.Path, ui.FormatSize(info.SizeBytes))
		fmt.Println(ui.DimStyle.Render("  'ws hibernate off' reclaims it"))
		return
	}
	fmt.Println("  Hibernation is off")
}
