package checks

import (
	"context"
	"fmt"

	"github.com/ibis01/Crypto-weaver/internal/fileutil"
	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// PythonSyntax byte-compiles every Python source in the workspace so
// files the test suite never imports still get parsed.
func PythonSyntax(runner CommandRunner, workDir, binary string, excludeDirs []string) pipeline.Check {
	return pipeline.Check{
		Name:     "python-syntax",
		Summary:  "Every Python source compiles",
		Severity: pipeline.SeverityFatal,
		Action: func(ctx context.Context) (pipeline.Result, error) {
			scan, err := fileutil.ScanDirectory(workDir, fileutil.ScanOptions{
				Extensions:  []string{".py"},
				ExcludeDirs: excludeDirs,
			})
			if err != nil {
				return pipeline.Result{}, fmt.Errorf("scan workspace: %w", err)
			}

			if len(scan.Files) == 0 {
				return pipeline.Warn("no Python files found", ""), nil
			}

			args := append([]string{"-m", "py_compile"}, scan.Files...)
			output, err := runner.Run(ctx, binary, args...)
			if err != nil {
				if exited(err) {
					return pipeline.Fail("syntax errors found", tail(output, detailLines)), nil
				}
				return pipeline.Result{}, fmt.Errorf("run py_compile: %w", err)
			}

			return pipeline.Pass(fmt.Sprintf("all %d Python files compile", len(scan.Files))), nil
		},
	}
}
