package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/law-makers/pgnfetch/internal/ui"
)

// providersCmd lists the supported sites
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the supported chess sites",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return fmt.Errorf("application not initialized")
		}
		for _, desc := range a.Resolver.Providers() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", ui.Paint(ui.ColorCyan, "•"), desc)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
