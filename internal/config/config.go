package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the config file the gate looks for in the workspace
const DefaultConfigName = ".pushgate.yaml"

var versionPattern = regexp.MustCompile(`^\d+\.\d+(\.\d+)?$`)

// PythonConfig controls interpreter selection and version gating
type PythonConfig struct {
	// Binary is the interpreter the checks invoke
	Binary string `yaml:"binary"`

	// Minimum is the oldest interpreter version the gate accepts
	Minimum string `yaml:"minimum"`

	// Recommended is the version below which the gate warns
	Recommended string `yaml:"recommended"`
}

// TestsConfig controls the pytest run
type TestsConfig struct {
	// Dir is the directory pytest collects from
	Dir string `yaml:"dir"`
}

// StyleConfig controls the flake8 run
type StyleConfig struct {
	// Select lists the flake8 error classes the gate enforces
	Select []string `yaml:"select"`
}

// DockerConfig controls the image build
type DockerConfig struct {
	// Image is the repository part of the build tag
	Image string `yaml:"image"`

	// Dockerfile overrides the Dockerfile path (empty uses docker's default)
	Dockerfile string `yaml:"dockerfile"`

	// Context is the build context directory
	Context string `yaml:"context"`
}

// ScanConfig controls tree walking for the scanning checks
type ScanConfig struct {
	// ExcludeDirs are directory names skipped by every tree walk
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// MaxFileSize is the largest file the secret scan reads, in bytes
	MaxFileSize int64 `yaml:"max_file_size"`
}

// Config represents pushgate configuration options
type Config struct {
	// Python controls interpreter selection and version gating
	Python PythonConfig `yaml:"python"`

	// Files lists workspace-relative paths that must exist
	Files []string `yaml:"files"`

	// Imports lists modules the import probe must load
	Imports []string `yaml:"imports"`

	// Tests configures the pytest run
	Tests TestsConfig `yaml:"tests"`

	// Style configures the flake8 run
	Style StyleConfig `yaml:"style"`

	// Docker configures the image build
	Docker DockerConfig `yaml:"docker"`

	// Scan configures tree walking for the scanning checks
	Scan ScanConfig `yaml:"scan"`

	// LogLevel sets the logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written (empty disables file logging)
	LogDir string `yaml:"log_dir"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Python: PythonConfig{
			Binary:      "python3",
			Minimum:     "3.8",
			Recommended: "3.11",
		},
		Files: []string{
			"main.py",
			"crypto_weaver/__init__.py",
			"crypto_weaver/bot.py",
			"config/__init__.py",
			"config/settings.py",
		},
		Imports: []string{
			"asyncio",
			"telegram",
			"crypto_weaver.bot",
			"config.settings",
		},
		Tests: TestsConfig{Dir: "tests"},
		Style: StyleConfig{Select: []string{"E9", "F63", "F7", "F82"}},
		Docker: DockerConfig{
			Image:   "crypto-weaver",
			Context: ".",
		},
		Scan: ScanConfig{
			ExcludeDirs: []string{"__pycache__", "venv", "node_modules", ".git"},
			MaxFileSize: 1 << 20, // 1 MiB
		},
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		// File doesn't exist, return defaults (not an error)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Decoding into the populated struct merges with defaults: keys
	// absent from the file keep their default values, nested sections
	// included.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .pushgate.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultConfigName))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
// This allows CLI flags to take precedence over config file settings
func (c *Config) MergeWithFlags(logDir *string, verbose *bool) {
	if logDir != nil {
		c.LogDir = *logDir
	}
	if verbose != nil && *verbose {
		c.LogLevel = "debug"
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.Python.Binary == "" {
		return fmt.Errorf("python.binary cannot be empty")
	}
	if !versionPattern.MatchString(c.Python.Minimum) {
		return fmt.Errorf("invalid python.minimum %q, expected something like 3.8", c.Python.Minimum)
	}
	if !versionPattern.MatchString(c.Python.Recommended) {
		return fmt.Errorf("invalid python.recommended %q, expected something like 3.11", c.Python.Recommended)
	}

	for _, file := range c.Files {
		if strings.TrimSpace(file) == "" {
			return fmt.Errorf("files entries cannot be empty")
		}
	}
	for _, module := range c.Imports {
		if strings.TrimSpace(module) == "" {
			return fmt.Errorf("imports entries cannot be empty")
		}
	}

	if c.Tests.Dir == "" {
		return fmt.Errorf("tests.dir cannot be empty")
	}

	// Selectors get joined with commas on the flake8 command line
	for _, code := range c.Style.Select {
		if code == "" || strings.ContainsAny(code, " ,") {
			return fmt.Errorf("invalid style selector %q", code)
		}
	}

	if c.Docker.Image == "" {
		return fmt.Errorf("docker.image cannot be empty")
	}
	if c.Docker.Context == "" {
		return fmt.Errorf("docker.context cannot be empty")
	}

	if c.Scan.MaxFileSize < 0 {
		return fmt.Errorf("scan.max_file_size must be >= 0, got %d", c.Scan.MaxFileSize)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: debug, info, warn, error", c.LogLevel)
	}

	return nil
}
