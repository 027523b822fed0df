package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// Flake8 lints for the error classes that indicate real breakage
// rather than taste: syntax errors, bad comparisons, undefined names.
// Advisory because style debt should not block a push on its own.
func Flake8(runner CommandRunner, binary string, selectCodes []string) pipeline.Check {
	return pipeline.Check{
		Name:     "style",
		Summary:  "flake8 reports no serious violations",
		Severity: pipeline.SeverityAdvisory,
		Action: func(ctx context.Context) (pipeline.Result, error) {
			args := []string{"-m", "flake8"}
			if len(selectCodes) > 0 {
				args = append(args, "--select="+strings.Join(selectCodes, ","))
			}
			args = append(args, "--show-source", ".")

			output, err := runner.Run(ctx, binary, args...)
			if err != nil {
				switch {
				case exited(err) && strings.Contains(output, "No module named flake8"):
					return pipeline.Fail("flake8 is not installed", "install it with: pip install flake8"), nil
				case exited(err):
					return pipeline.Fail("flake8 found violations", tail(output, detailLines)), nil
				}
				return pipeline.Result{}, fmt.Errorf("run flake8: %w", err)
			}

			return pipeline.Pass("no serious style violations"), nil
		},
	}
}
