// Package checks builds the fixed validation roster the gate runs before a
// push. Each constructor returns a pipeline.Check wired to a command runner
// or a scanner; Suite assembles them in their declared order. The roster,
// its order, and the severities are deliberately not configurable.
package checks

import (
	"fmt"

	"github.com/ibis01/Crypto-weaver/internal/config"
	"github.com/ibis01/Crypto-weaver/internal/pipeline"
	"github.com/ibis01/Crypto-weaver/internal/secrets"
)

// Suite assembles the full check roster for one gate run plus the cleanup
// hook that removes whatever the run built. The allowlist is loaded up
// front so a broken .gitleaks.toml aborts before any check executes.
func Suite(cfg *config.Config, runner CommandRunner, workDir, runID string) ([]pipeline.Check, pipeline.CleanupFunc, error) {
	allowlist, err := secrets.LoadAllowlist(workDir)
	if err != nil {
		return nil, nil, fmt.Errorf("load secret allowlist: %w", err)
	}

	scanner, err := secrets.NewScanner(allowlist)
	if err != nil {
		return nil, nil, fmt.Errorf("build secret scanner: %w", err)
	}

	reg := &Artifacts{}

	roster := []pipeline.Check{
		PythonVersion(runner, cfg.Python.Binary, cfg.Python.Minimum, cfg.Python.Recommended),
		RequiredFiles(workDir, cfg.Files),
		SecretScan(workDir, scanner, cfg.Scan.ExcludeDirs, cfg.Scan.MaxFileSize),
		PythonSyntax(runner, workDir, cfg.Python.Binary, cfg.Scan.ExcludeDirs),
		ImportProbe(runner, cfg.Python.Binary, cfg.Imports),
		PytestSuite(runner, workDir, cfg.Python.Binary, cfg.Tests.Dir),
		Flake8(runner, cfg.Python.Binary, cfg.Style.Select),
		DockerBuild(runner, reg, cfg.Docker.Image, cfg.Docker.Dockerfile, cfg.Docker.Context, runID),
	}

	return roster, reg.Cleanup(runner), nil
}
