package checks

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

var pythonVersionRegex = regexp.MustCompile(`(?i)python\s+(\d+)\.(\d+)(?:\.(\d+))?`)

// PythonVersion verifies a usable Python interpreter is installed and
// recent enough to run the bot. Fails below minimum, warns below
// recommended. The interpreter named by binary is probed first, then
// plain "python" as a fallback.
func PythonVersion(runner CommandRunner, binary, minimum, recommended string) pipeline.Check {
	return pipeline.Check{
		Name:     "python-version",
		Summary:  "Python interpreter installed and recent enough",
		Severity: pipeline.SeverityFatal,
		Action: func(ctx context.Context) (pipeline.Result, error) {
			probe := binary
			output, err := runner.Run(ctx, probe, "--version")
			if err != nil && notInstalled(err) && probe != "python" {
				probe = "python"
				output, err = runner.Run(ctx, probe, "--version")
			}
			if err != nil {
				if notInstalled(err) {
					return pipeline.Fail(
						fmt.Sprintf("%s is not installed", binary),
						"install Python 3 and ensure it is on PATH",
					), nil
				}
				return pipeline.Result{}, fmt.Errorf("probe %s: %w", probe, err)
			}

			major, minor, err := parsePythonVersion(output)
			if err != nil {
				return pipeline.Fail("could not determine Python version", err.Error()), nil
			}

			version := fmt.Sprintf("%d.%d", major, minor)
			if olderThan(major, minor, minimum) {
				return pipeline.Fail(
					fmt.Sprintf("Python %s is below minimum %s", version, minimum),
					strings.TrimSpace(output),
				), nil
			}
			if olderThan(major, minor, recommended) {
				return pipeline.Warn(
					fmt.Sprintf("Python %s works but %s+ is recommended", version, recommended),
					"",
				), nil
			}

			return pipeline.Pass(fmt.Sprintf("Python %s (%s)", version, probe)), nil
		},
	}
}

// parsePythonVersion extracts major.minor from `python --version` output.
func parsePythonVersion(output string) (major, minor int, err error) {
	match := pythonVersionRegex.FindStringSubmatch(output)
	if len(match) < 3 {
		return 0, 0, fmt.Errorf("unable to parse version from %q", strings.TrimSpace(output))
	}

	major, err = strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unable to parse version from %q", strings.TrimSpace(output))
	}
	minor, err = strconv.Atoi(match[2])
	if err != nil {
		return 0, 0, fmt.Errorf("unable to parse version from %q", strings.TrimSpace(output))
	}

	return major, minor, nil
}

// olderThan reports whether major.minor is strictly below a "X.Y"
// threshold. Unparseable thresholds compare as not-older, so a broken
// config never blocks the gate here; Validate catches it first.
func olderThan(major, minor int, threshold string) bool {
	parts := strings.SplitN(strings.TrimSpace(threshold), ".", 3)
	if len(parts) < 2 {
		return false
	}
	wantMajor, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	wantMinor, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}

	if major != wantMajor {
		return major < wantMajor
	}
	return minor < wantMinor
}
