package checks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// pytestExitNoTests is pytest's exit code when collection finds nothing.
const pytestExitNoTests = 5

// PytestSuite runs the project's test suite under pytest. An empty
// suite is a warning, not a failure: a project without tests can still
// ship, it just does so loudly.
func PytestSuite(runner CommandRunner, workDir, binary, testsDir string) pipeline.Check {
	return pipeline.Check{
		Name:     "tests",
		Summary:  "Test suite passes under pytest",
		Severity: pipeline.SeverityFatal,
		Action: func(ctx context.Context) (pipeline.Result, error) {
			if _, err := os.Stat(filepath.Join(workDir, testsDir)); err != nil {
				if os.IsNotExist(err) {
					return pipeline.Warn(fmt.Sprintf("no %s directory, nothing to run", testsDir), ""), nil
				}
				return pipeline.Result{}, fmt.Errorf("stat %s: %w", testsDir, err)
			}

			output, err := runner.Run(ctx, binary, "-m", "pytest", testsDir, "-q")
			if err != nil {
				switch {
				case exited(err) && exitCode(err) == pytestExitNoTests:
					return pipeline.Warn("no tests collected", tail(output, detailLines)), nil
				case exited(err) && strings.Contains(output, "No module named pytest"):
					return pipeline.Fail("pytest is not installed", "install it with: pip install pytest"), nil
				case exited(err):
					return pipeline.Fail("test suite failed", tail(output, detailLines)), nil
				}
				return pipeline.Result{}, fmt.Errorf("run pytest: %w", err)
			}

			return pipeline.Pass(summarizePytest(output)), nil
		},
	}
}

// summarizePytest pulls pytest's closing tally ("12 passed in 0.34s")
// out of the output. Falls back to a generic message when quiet mode
// produced nothing usable.
func summarizePytest(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(strings.Trim(lines[i], "= "))
		if line != "" {
			return line
		}
	}
	return "test suite passed"
}
