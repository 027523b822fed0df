package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for pushgate
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pushgate",
		Short: "Pre-push validation gate for the crypto-weaver bot",
		Long: `Pushgate runs a fixed sequence of validation checks against a working
tree before code is pushed or merged: interpreter version, required
files, secret scan, syntax, imports, tests, style and the Docker build.

Checks run one at a time in a fixed order. A failing fatal check blocks
the push immediately; a failing advisory check is recorded and the run
continues. The exit code is 0 only when every check passed or merely
warned.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
		// main prints the error once; keep cobra from printing it too
		SilenceErrors: true,
	}

	// Add subcommands
	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewChecksCommand())

	return cmd
}
