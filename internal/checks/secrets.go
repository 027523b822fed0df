package checks

import (
	"context"
	"fmt"
	"strings"

	"github.com/ibis01/Crypto-weaver/internal/fileutil"
	"github.com/ibis01/Crypto-weaver/internal/pipeline"
	"github.com/ibis01/Crypto-weaver/internal/secrets"
)

// SecretScan runs the gitleaks ruleset over the workspace. Findings are
// advisory: heuristic matching can false-positive on harmless strings, so
// a human gets to judge, but the run is still marked failed. Secret values
// are never printed, only locations and rule IDs.
func SecretScan(workDir string, scanner *secrets.Scanner, excludeDirs []string, maxFileSize int64) pipeline.Check {
	return pipeline.Check{
		Name:     "secret-scan",
		Summary:  "No credentials or tokens committed to the tree",
		Severity: pipeline.SeverityAdvisory,
		Action: func(ctx context.Context) (pipeline.Result, error) {
			scan, err := fileutil.ScanDirectory(workDir, fileutil.ScanOptions{
				ExcludeDirs: excludeDirs,
				MaxFileSize: maxFileSize,
			})
			if err != nil {
				return pipeline.Result{}, fmt.Errorf("scan workspace: %w", err)
			}

			findings, skipped, err := scanner.ScanFiles(ctx, workDir, scan.Files)
			if err != nil {
				return pipeline.Result{}, fmt.Errorf("detect secrets: %w", err)
			}

			skipped += scan.SkippedLarge
			if len(findings) > 0 {
				lines := make([]string, 0, len(findings))
				for _, f := range findings {
					lines = append(lines, f.String())
				}
				return pipeline.Fail(
					fmt.Sprintf("%d potential secret(s) detected", len(findings)),
					strings.Join(lines, "\n"),
				), nil
			}

			message := fmt.Sprintf("no secrets in %d files", len(scan.Files))
			if skipped > 0 {
				message += fmt.Sprintf(" (%d skipped)", skipped)
			}
			return pipeline.Pass(message), nil
		},
	}
}
