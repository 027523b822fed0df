package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ibis01/Crypto-weaver/internal/checks"
	"github.com/ibis01/Crypto-weaver/internal/config"
	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// NewChecksCommand creates and returns the checks subcommand
func NewChecksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checks",
		Short: "List the checks the gate runs",
		Long: `List the fixed validation roster: position, name, severity and what
each check verifies.

The roster and its order are not configurable; this command exists so
the sequence is visible without reading source. The listing is built
exactly the way 'run' builds it, so it also catches a broken
.gitleaks.toml allowlist in the current directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listChecks(cmd.OutOrStdout())
		},
	}

	return cmd
}

// listChecks builds the suite the same way run does and prints it.
func listChecks(output io.Writer) error {
	cfg := config.DefaultConfig()
	runner := checks.NewExecRunner(".")

	// The run ID only seeds the docker tag; no action executes here.
	suite, _, err := checks.Suite(cfg, runner, ".", "roster")
	if err != nil {
		return fmt.Errorf("failed to build check suite: %w", err)
	}

	printRoster(output, suite)
	return nil
}

// printRoster writes the roster, one line per check.
func printRoster(output io.Writer, suite []pipeline.Check) {
	fmt.Fprintf(output, "The gate runs %d checks, in this order:\n\n", len(suite))
	for i, check := range suite {
		fmt.Fprintf(output, "  %d. %-15s %-9s %s\n", i+1, check.Name, check.Severity, check.Summary)
	}
	fmt.Fprintf(output, "\nFatal checks block the push immediately; advisory checks mark the run\nfailed but let the remaining checks finish.\n")
}
