package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ibis01/Crypto-weaver/internal/checks"
	"github.com/ibis01/Crypto-weaver/internal/config"
	"github.com/ibis01/Crypto-weaver/internal/display"
	"github.com/ibis01/Crypto-weaver/internal/filelock"
	"github.com/ibis01/Crypto-weaver/internal/logger"
	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full validation gate against a workspace",
		Long: `Run every gate check against the workspace, in order, and report the
verdict. The roster and its order are fixed; configuration only tunes
parameters such as the Python binary, required files and the Docker
image name.

Configuration is loaded from .pushgate.yaml in the workspace if present.
CLI flags override configuration file settings.

Examples:
  # Validate the current directory
  pushgate run

  # Validate another checkout
  pushgate run -C ~/src/crypto-weaver

  # Machine-readable report on stdout, progress events on stderr
  pushgate run --format json

  # Keep a JSON report for CI artifacts
  pushgate run --output gate-report.json

  # Keep a full run log
  pushgate run --log-dir .pushgate/logs

  # Show the resolved roster without executing anything
  pushgate run --dry-run`,
		Args: cobra.NoArgs,
		RunE: runCommand,
	}

	// Add flags
	cmd.Flags().String("config", "", "Path to config file (default: .pushgate.yaml in the workspace)")
	cmd.Flags().StringP("workdir", "C", ".", "Workspace to validate")
	cmd.Flags().String("format", "text", "Output format: text or json")
	cmd.Flags().String("output", "", "Write the final JSON report to this file")
	cmd.Flags().String("log-dir", "", "Directory for run logs")
	cmd.Flags().Bool("verbose", false, "Show debug-level diagnostics")
	cmd.Flags().Bool("dry-run", false, "Resolve config and list the roster without running checks")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	workDir, _ := cmd.Flags().GetString("workdir")
	workDir, err := filepath.Abs(workDir)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace path: %w", err)
	}
	info, err := os.Stat(workDir)
	if err != nil {
		return fmt.Errorf("workspace %s: %w", workDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace %s is not a directory", workDir)
	}

	// Load configuration from file
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config

	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(workDir)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	// Build flag pointers for merge (only values the user set)
	var logDirPtr *string
	if cmd.Flags().Changed("log-dir") {
		logDirFlag, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &logDirFlag
	}

	var verbosePtr *bool
	if cmd.Flags().Changed("verbose") {
		verboseFlag, _ := cmd.Flags().GetBool("verbose")
		verbosePtr = &verboseFlag
	}

	// Merge CLI flags with config (flags take precedence)
	cfg.MergeWithFlags(logDirPtr, verbosePtr)

	// Validate merged configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format %q, must be text or json", format)
	}
	outputPath, _ := cmd.Flags().GetString("output")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Build the suite. The run ID seeds the docker image tag so cleanup
	// can find exactly what this run created.
	runID := uuid.New().String()
	runner := checks.NewExecRunner(workDir)
	suite, cleanup, err := checks.Suite(cfg, runner, workDir, runID)
	if err != nil {
		return fmt.Errorf("failed to build check suite: %w", err)
	}

	// Dry-run mode: show what would run, execute nothing
	if dryRun {
		fmt.Fprintf(cmd.OutOrStdout(), "Workspace: %s\n\n", workDir)
		printRoster(cmd.OutOrStdout(), suite)
		return nil
	}

	// One run at a time per workspace: concurrent runs would race on
	// docker tags and the latest.log symlink
	lock, err := filelock.AcquireWorkspace(workDir)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	// Diagnostics go to stderr so reporter output owns stdout
	consoleLog := logger.NewConsoleLogger(os.Stderr, cfg.LogLevel)
	sinks := []logger.Sink{consoleLog}

	// Create file logger for the unfiltered run transcript. A broken log
	// dir degrades to console-only; it never blocks the gate itself.
	var fileLog *logger.FileLogger
	if cfg.LogDir != "" {
		fileLog, err = logger.NewFileLogger(cfg.LogDir)
		if err != nil {
			consoleLog.Warnf("cannot create run log in %s: %v", cfg.LogDir, err)
		} else {
			defer fileLog.Close()
			sinks = append(sinks, fileLog)
		}
	}
	diag := logger.Tee(sinks...)

	var reporter pipeline.Reporter
	if format == "json" {
		reporter = display.NewJSONReporter(os.Stderr, os.Stdout)
	} else {
		reporter = display.NewConsoleReporter(os.Stdout, isatty.IsTerminal(os.Stdout.Fd()))
	}
	if fileLog != nil {
		// The run log also records every outcome and the summary
		reporter = display.MultiReporter(reporter, fileLog)
	}

	// Set up context with signal handling so Ctrl-C stops the run between
	// checks and kills the in-flight tool
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	diag.Infof("Validating %s (run %s)", workDir, runID)
	if fileLog != nil {
		diag.Infof("Run log: %s", fileLog.Path())
	}

	pipe := pipeline.New(reporter, cleanup, diag)
	run, err := pipe.Run(ctx, runID, suite)
	if err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}

	if outputPath != "" {
		if err := writeReport(outputPath, run); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		diag.Infof("Report written to %s", outputPath)
	}

	// The reporter already rendered the verdict; return a sentinel error
	// so main exits non-zero on a blocked push
	if run.Failed() {
		if blocker := run.Blocker(); blocker != nil {
			return fmt.Errorf("push blocked by %s", blocker.Check.Name)
		}
		return errors.New("push blocked")
	}

	return nil
}

// writeReport persists the machine-readable run document. The write is
// atomic so a watcher never reads a half-written report.
func writeReport(path string, run *pipeline.Run) error {
	doc := display.NewRunDocument(run)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return filelock.AtomicWrite(path, append(data, '\n'))
}
