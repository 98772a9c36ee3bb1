// Package cmd provides the command-line interface for the TAIC tools.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "taic",
	Short: "TAIC CLI can discover controllers from a topology file and serve the inspector.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A .env file can provide TAIC_TOPOLOGY and friends; its absence is
		// not an error.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
