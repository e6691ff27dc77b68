// Command portalmap maintains a live, self-pruning map of portal
// connections between game-world zones.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "portalmap",
		Short:         "Live map of time-bound portal connections between zones",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")

	root.AddCommand(newRunCmd())
	root.AddCommand(newSuggestCmd())
	root.AddCommand(newInfoCmd())
	root.AddCommand(newExportCmd())
	root.AddCommand(newImportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
