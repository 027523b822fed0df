package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// FileLogger records a complete transcript of one gate run. It creates a
// timestamped log file in the log directory and maintains a latest.log
// symlink pointing to the most recent run. Unlike the console logger it
// never filters by level: the file is the full record, including the
// untruncated detail of every non-passing check.
//
// FileLogger implements both pipeline.Logger (diagnostics) and
// pipeline.Reporter (outcome records). It is thread-safe.
type FileLogger struct {
	logDir  string
	runLog  *os.File
	runFile string
	mu      sync.Mutex
}

// NewFileLogger creates a FileLogger writing to a fresh run log in logDir.
// It creates the log directory if it doesn't exist, opens a timestamped
// run log file, and creates/updates the latest.log symlink.
func NewFileLogger(logDir string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Timestamped filename: run-YYYYMMDD-HHMMSS.log
	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:  logDir,
		runLog:  file,
		runFile: runFile,
	}

	fl.write("=== Pushgate Run Log ===\n")
	fl.write(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return fl, nil
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

// Debugf logs a debug-level message.
func (fl *FileLogger) Debugf(format string, args ...interface{}) {
	fl.logWithLevel("DEBUG", fmt.Sprintf(format, args...))
}

// Infof logs an info-level message.
func (fl *FileLogger) Infof(format string, args ...interface{}) {
	fl.logWithLevel("INFO", fmt.Sprintf(format, args...))
}

// Warnf logs a warning-level message.
func (fl *FileLogger) Warnf(format string, args ...interface{}) {
	fl.logWithLevel("WARN", fmt.Sprintf(format, args...))
}

// Errorf logs an error-level message.
func (fl *FileLogger) Errorf(format string, args ...interface{}) {
	fl.logWithLevel("ERROR", fmt.Sprintf(format, args...))
}

func (fl *FileLogger) logWithLevel(level, message string) {
	fl.write(fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message))
}

// CheckCompleted records a finished check with its full detail.
func (fl *FileLogger) CheckCompleted(outcome pipeline.Outcome) {
	ts := time.Now().Format("15:04:05")
	status := strings.ToUpper(string(outcome.Result.Status))

	record := fmt.Sprintf("[%s] [%s] %s: %s (%s, severity=%s)\n",
		ts, status, outcome.Check.Name, outcome.Result.Message,
		outcome.Duration.Round(time.Millisecond), outcome.Check.Severity)

	if outcome.Result.Detail != "" {
		for _, line := range strings.Split(outcome.Result.Detail, "\n") {
			record += fmt.Sprintf("[%s]     %s\n", ts, line)
		}
	}

	fl.write(record)
}

// RunCompleted records the final summary block.
func (fl *FileLogger) RunCompleted(run *pipeline.Run) {
	ts := time.Now().Format("15:04:05")

	verdict := "PASSED"
	if run.Failed() {
		verdict = "FAILED"
	}

	record := fmt.Sprintf(
		"\n[%s] === RUN SUMMARY ===\n"+
			"[%s] Run ID:       %s\n"+
			"[%s] Checks run:   %d\n"+
			"[%s] Warnings:     %d\n"+
			"[%s] Halted early: %v\n"+
			"[%s] Verdict:      %s (exit %d)\n"+
			"[%s] Duration:     %.1fs\n",
		ts,
		ts, run.ID,
		ts, len(run.Outcomes),
		ts, run.WarningCount(),
		ts, run.HaltedEarly,
		ts, verdict, run.ExitCode(),
		ts, run.Duration.Seconds(),
	)

	if blocker := run.Blocker(); blocker != nil {
		record += fmt.Sprintf("[%s] Blocked by:   %s\n", ts, blocker.Check.Name)
	}
	if run.CleanupWarning != "" {
		record += fmt.Sprintf("[%s] Cleanup:      %s\n", ts, run.CleanupWarning)
	}
	record += fmt.Sprintf("[%s] Completed at: %s\n", ts, time.Now().Format(time.RFC3339))

	fl.write(record)
}

// Close flushes and closes the run log file.
// It should be called when the logger is no longer needed.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// write is a thread-safe helper to append to the run log file.
func (fl *FileLogger) write(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
		// Flush after each write so the log survives a killed run
		fl.runLog.Sync()
	}
}
