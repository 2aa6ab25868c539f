package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd(open opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "console",
		Short: "Seller Console command line",
		Long: `Manage the Seller Console leads and opportunities from the terminal.

The CLI reads the same environment as the API server (STORE_DRIVER,
SQLITE_PATH, DATABASE_URL, REDIS_URL, SIM_*), so both see the same data.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newSeedCmd(open),
		newListCmd(open),
		newImportCmd(open),
		newExportCmd(open),
		newConvertCmd(open),
		newClearCmd(open),
	)
	return root
}

func main() {
	if err := newRootCmd(openSession).ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
