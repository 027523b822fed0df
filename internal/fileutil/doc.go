// Package fileutil provides workspace scanning for the validation gate.
//
// This package is the single source of truth for walking the project tree.
// Checks that operate on sets of files (syntax compilation, secret
// scanning) get their file lists here rather than implementing their own
// filepath.Walk logic, so exclusion rules stay consistent across checks.
//
// # Behavior
//
//   - Recursive traversal rooted at the workspace directory
//   - Case-insensitive extension filtering (".py" matches file.PY)
//   - Directory exclusion by name (e.g. "__pycache__", "venv") plus
//     automatic exclusion of hidden directories (starting with ".")
//   - Optional file size cap so oversized files never slow the gate down
//   - Error-tolerant scanning: per-entry errors are collected and the walk
//     continues, only an unusable root aborts
//   - Workspace-relative, alphabetically sorted output so results are
//     deterministic and readable in reports
//
// # Usage
//
// Collecting Python sources while skipping virtualenvs:
//
//	result, err := fileutil.ScanDirectory(workDir, fileutil.ScanOptions{
//	    Extensions:  []string{".py"},
//	    ExcludeDirs: []string{"__pycache__", "venv", "node_modules"},
//	})
//	if err != nil {
//	    return err
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
//
// Hidden files are included (a project's .env is exactly what the secret
// scan needs to see); hidden directories are not.
package fileutil
