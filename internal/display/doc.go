// Package display renders gate runs for humans and machines.
//
// This package centralizes all user-facing output formatting for the
// pushgate CLI. Reporters implement pipeline.Reporter and receive each
// check outcome as it completes plus the final run; they never influence
// control flow.
//
// # Console Reporter
//
// The default text renderer. One status line per check, indented detail
// for anything that did not pass, and a final verdict:
//
//	colorOutput := isatty.IsTerminal(os.Stdout.Fd())
//	reporter := display.NewConsoleReporter(os.Stdout, colorOutput)
//
//	✓ python-version Python 3.11 (python3) (52ms)
//	⚠ tests          no tests collected (1.204s)
//	✗ imports        module imports failed (311ms)
//	    telegram: No module named 'telegram'
//
//	✗ blocked by imports: module imports failed
//
// # JSON Reporter
//
// Streams one JSON line per check to stderr and the complete run document
// to stdout, so `pushgate run --format json | jq .exit_code` just works:
//
//	reporter := display.NewJSONReporter(os.Stderr, os.Stdout)
//
// The same document backs `--output FILE`; build it with NewRunDocument
// and write it with filelock.AtomicWrite.
//
// # Composition
//
// MultiReporter pairs any reporter with the run log:
//
//	reporter = display.MultiReporter(reporter, fileLogger)
//
// # Design Principles
//
//   - Reporters render; the pipeline decides
//   - Color is fixed at construction, never sniffed mid-run
//   - Testable via io.Writer abstraction
//   - No global state or side effects
package display
