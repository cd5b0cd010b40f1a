package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/dupscan/internal/version"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dupscan",
		Short: "Find copy-pasted code in Python projects",
		Long: `dupscan scans a Python source tree for blocks of lines that appear more
than once, ignoring indentation, blank lines and comment lines.

Every run of six consecutive normalized lines is fingerprinted; fingerprints
seen in two or more places are reported as duplicate blocks, most frequent first.`,
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewCheckCmd())
	rootCmd.AddCommand(NewVersionCmd())
	rootCmd.AddCommand(NewInitCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit *exitError
		if !errors.As(err, &exit) || exit.err != nil {
			printError(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}
