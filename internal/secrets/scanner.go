package secrets

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	gitleaksConfig "github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
	gitleaksRegexp "github.com/zricethezav/gitleaks/v8/regexp"
)

// Finding is one detected secret, located for reporting. The matched value
// is never carried in full, only a short preview.
type Finding struct {
	File        string // workspace-relative path
	Line        int
	RuleID      string // gitleaks rule ID (e.g. "github-pat")
	Description string // human-readable rule description
	Preview     string // first few characters of the match
}

// String renders a finding the way the gate reports it.
func (f Finding) String() string {
	return fmt.Sprintf("%s:%d %s (%s...)", f.File, f.Line, f.RuleID, f.Preview)
}

// Scanner detects secrets in workspace files using the gitleaks ruleset.
// Content patterns from the allowlist are merged into the detector
// configuration; path patterns are applied by the scanner itself since
// files are scanned as plain content.
type Scanner struct {
	detector  *detect.Detector
	pathAllow []*regexp.Regexp
}

// NewScanner builds a Scanner with the default gitleaks ruleset plus the
// given allowlist. A nil allowlist means no exclusions.
func NewScanner(allowlist *Allowlist) (*Scanner, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return nil, fmt.Errorf("load gitleaks rules: %w", err)
	}

	s := &Scanner{detector: detector}

	if allowlist != nil {
		applyAllowlist(&detector.Config, allowlist)
		for _, pattern := range allowlist.Paths {
			re, err := regexp.Compile(pattern)
			if err != nil {
				// Patterns are validated in LoadAllowlist
				return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRegex, pattern, err)
			}
			s.pathAllow = append(s.pathAllow, re)
		}
	}

	return s, nil
}

// ScanFiles scans the given workspace-relative files under workDir and
// returns findings plus the number of files skipped as binary or
// unreadable. Findings never contain full secret values.
func (s *Scanner) ScanFiles(ctx context.Context, workDir string, files []string) ([]Finding, int, error) {
	findings := []Finding{}
	skipped := 0

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return findings, skipped, err
		}

		if s.allowedPath(file) {
			continue
		}

		content, err := os.ReadFile(filepath.Join(workDir, file))
		if err != nil {
			skipped++
			continue
		}
		if isBinary(content) {
			skipped++
			continue
		}

		for _, f := range s.detector.DetectString(string(content)) {
			findings = append(findings, Finding{
				File:        file,
				Line:        f.StartLine,
				RuleID:      f.RuleID,
				Description: f.Description,
				Preview:     preview(f.Secret, 4),
			})
		}
	}

	return findings, skipped, nil
}

// allowedPath reports whether the file matches an allowlisted path pattern.
func (s *Scanner) allowedPath(file string) bool {
	for _, re := range s.pathAllow {
		if re.MatchString(file) {
			return true
		}
	}
	return false
}

// applyAllowlist merges content patterns into the gitleaks config.
func applyAllowlist(cfg *gitleaksConfig.Config, allowlist *Allowlist) {
	if len(allowlist.Regexes) == 0 {
		return
	}

	globalAllowlist := &gitleaksConfig.Allowlist{
		Description: "workspace allowlist",
	}

	for _, pattern := range allowlist.Regexes {
		re, err := regexp.Compile(pattern)
		if err != nil {
			// Patterns are validated in LoadAllowlist before reaching here
			continue
		}
		globalAllowlist.Regexes = append(globalAllowlist.Regexes, (*gitleaksRegexp.Regexp)(re))
	}
	globalAllowlist.StopWords = append(globalAllowlist.StopWords, allowlist.Regexes...)

	cfg.Allowlists = append(cfg.Allowlists, globalAllowlist)
}

// isBinary uses the git heuristic: a NUL byte near the start of the file
// marks it as binary.
func isBinary(content []byte) bool {
	head := content
	if len(head) > 8000 {
		head = head[:8000]
	}
	return bytes.IndexByte(head, 0) != -1
}

// preview returns the first n characters of a matched secret.
func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
