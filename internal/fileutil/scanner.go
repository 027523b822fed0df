package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions configures workspace scanning behavior
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g., ".py");
	// empty means all files
	Extensions []string
	// ExcludeDirs is a list of directory names to skip (e.g., "__pycache__", "venv")
	ExcludeDirs []string
	// MaxFileSize skips regular files larger than this many bytes (0 = no limit)
	MaxFileSize int64
}

// ScanResult contains the results of a workspace scan
type ScanResult struct {
	// Files contains workspace-relative paths of all matched files, sorted
	Files []string
	// SkippedLarge counts files skipped for exceeding MaxFileSize
	SkippedLarge int
	// Errors contains any errors encountered during scanning
	Errors []error
}

// ScanDirectory walks the workspace rooted at dir and collects files
// matching the provided options. Scanning is always recursive; hidden
// directories (starting with ".") are skipped alongside ExcludeDirs.
// Per-entry errors are collected and the walk continues past them.
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	// Extension map for fast lookup
	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	excludeMap := make(map[string]bool)
	for _, name := range opts.ExcludeDirs {
		excludeMap[name] = true
	}

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}

		// Skip the root directory itself
		if path == dir {
			return nil
		}

		if d.IsDir() {
			if excludeMap[d.Name()] || strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		// Only regular files; symlinks and devices are not gate material
		if !d.Type().IsRegular() {
			return nil
		}

		if len(extMap) > 0 {
			ext := strings.ToLower(filepath.Ext(d.Name()))
			if !extMap[ext] {
				return nil
			}
		}

		if opts.MaxFileSize > 0 {
			fi, err := d.Info()
			if err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("error reading %s: %w", path, err))
				return nil
			}
			if fi.Size() > opts.MaxFileSize {
				result.SkippedLarge++
				return nil
			}
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}

		result.Files = append(result.Files, rel)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	// Sort files for consistent output
	sort.Strings(result.Files)

	return result, nil
}
