package checks

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// RequiredFiles verifies the project skeleton is intact. Every listed path
// must exist as a regular file relative to the workspace. The check only
// reports; it never creates anything.
func RequiredFiles(workDir string, files []string) pipeline.Check {
	return pipeline.Check{
		Name:     "required-files",
		Summary:  "Project structure contains all required files",
		Severity: pipeline.SeverityFatal,
		Action: func(ctx context.Context) (pipeline.Result, error) {
			var missing []string
			for _, file := range files {
				info, err := os.Stat(filepath.Join(workDir, file))
				switch {
				case errors.Is(err, fs.ErrNotExist):
					missing = append(missing, file)
				case err != nil:
					return pipeline.Result{}, fmt.Errorf("stat %s: %w", file, err)
				case info.IsDir():
					missing = append(missing, file+" (is a directory)")
				}
			}

			if len(missing) > 0 {
				return pipeline.Fail(
					fmt.Sprintf("%d required file(s) missing", len(missing)),
					strings.Join(missing, "\n"),
				), nil
			}

			return pipeline.Pass(fmt.Sprintf("all %d required files present", len(files))), nil
		},
	}
}
