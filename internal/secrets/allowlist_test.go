package secrets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeAllowlist(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, AllowlistFile), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write allowlist: %v", err)
	}
}

func TestLoadAllowlist_MissingFile(t *testing.T) {
	allowlist, err := LoadAllowlist(t.TempDir())
	if err != nil {
		t.Fatalf("missing file must not error, got %v", err)
	}
	if len(allowlist.Paths) != 0 || len(allowlist.Regexes) != 0 {
		t.Errorf("expected empty allowlist, got %+v", allowlist)
	}
}

func TestLoadAllowlist_Valid(t *testing.T) {
	dir := t.TempDir()
	writeAllowlist(t, dir, `
[allowlist]
paths = ["^tests/fixtures/", "\\.example$"]
regexes = ["DEMO_API_KEY"]
`)

	allowlist, err := LoadAllowlist(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(allowlist.Paths) != 2 {
		t.Errorf("expected 2 path patterns, got %d", len(allowlist.Paths))
	}
	if len(allowlist.Regexes) != 1 {
		t.Errorf("expected 1 content pattern, got %d", len(allowlist.Regexes))
	}
}

func TestLoadAllowlist_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeAllowlist(t, dir, `[allowlist`)

	_, err := LoadAllowlist(dir)
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
	if !errors.Is(err, ErrInvalidTOML) {
		t.Errorf("expected ErrInvalidTOML, got %v", err)
	}
}

func TestLoadAllowlist_InvalidPathRegex(t *testing.T) {
	dir := t.TempDir()
	writeAllowlist(t, dir, `
[allowlist]
paths = ["[unclosed"]
`)

	_, err := LoadAllowlist(dir)
	if err == nil {
		t.Fatal("expected error for invalid path pattern")
	}
	if !errors.Is(err, ErrInvalidRegex) {
		t.Errorf("expected ErrInvalidRegex, got %v", err)
	}
}

func TestLoadAllowlist_InvalidContentRegex(t *testing.T) {
	dir := t.TempDir()
	writeAllowlist(t, dir, `
[allowlist]
regexes = ["(?P<broken"]
`)

	_, err := LoadAllowlist(dir)
	if err == nil {
		t.Fatal("expected error for invalid content pattern")
	}
	if !errors.Is(err, ErrInvalidRegex) {
		t.Errorf("expected ErrInvalidRegex, got %v", err)
	}
}
