package pipeline

import "context"

// Status classifies the outcome of a single check.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Severity controls how the pipeline reacts when a check fails.
// It is fixed when the check is declared and never changes at runtime.
type Severity string

const (
	// SeverityFatal halts the run on failure; later checks never execute.
	SeverityFatal Severity = "fatal"
	// SeverityAdvisory records the failure and lets the run continue.
	SeverityAdvisory Severity = "advisory"
)

// Result is the verdict a check reports for one invocation.
type Result struct {
	Status  Status // pass, warn or fail
	Message string // one-line human-readable summary
	Detail  string // captured tool output or fault text, empty when not applicable
}

// Pass builds a passing result.
func Pass(message string) Result {
	return Result{Status: StatusPass, Message: message}
}

// Warn builds a warning result. Warnings are counted but never fail a run.
func Warn(message, detail string) Result {
	return Result{Status: StatusWarn, Message: message, Detail: detail}
}

// Fail builds a failing result. How the pipeline reacts depends on the
// severity of the check that produced it.
func Fail(message, detail string) Result {
	return Result{Status: StatusFail, Message: message, Detail: detail}
}

// ActionFunc performs the actual work of a check. A returned Result is an
// expected verdict (including expected failures). A returned error is an
// action fault - missing tool, unreadable path, broken invocation - and is
// converted by the pipeline into a fail result honoring the check's
// declared severity. Actions are invoked exactly once per run and are
// never retried.
type ActionFunc func(ctx context.Context) (Result, error)

// Check is one validation step in the gate.
type Check struct {
	Name     string     // stable kebab-case identifier
	Summary  string     // one-line description shown in listings
	Severity Severity   // fatal or advisory
	Action   ActionFunc // invoked exactly once per run
}
