package pipeline

import "time"

// Outcome pairs an executed check with its result.
type Outcome struct {
	Check    Check
	Result   Result
	Duration time.Duration
}

// Run aggregates everything a single gate invocation produced. A Run is
// ephemeral: it lives for one invocation and is never persisted.
type Run struct {
	ID             string        // unique per invocation
	Started        time.Time     // wall-clock start
	Duration       time.Duration // total including cleanup
	Outcomes       []Outcome     // only checks that executed, in declaration order
	HaltedEarly    bool          // a fatal failure or cancellation stopped the run
	CleanupWarning string        // non-empty when the cleanup hook failed
}

// WarningCount returns the number of outcomes that count as warnings:
// warn results plus failures of advisory checks.
func (r *Run) WarningCount() int {
	count := 0
	for _, o := range r.Outcomes {
		switch {
		case o.Result.Status == StatusWarn:
			count++
		case o.Result.Status == StatusFail && o.Check.Severity == SeverityAdvisory:
			count++
		}
	}
	return count
}

// Failed reports whether the run must be considered unsuccessful: any
// failing check regardless of severity, or a halted run.
func (r *Run) Failed() bool {
	if r.HaltedEarly {
		return true
	}
	for _, o := range r.Outcomes {
		if o.Result.Status == StatusFail {
			return true
		}
	}
	return false
}

// ExitCode maps the run outcome to the process exit code. Zero only when
// every check passed or merely warned and the run was not halted.
func (r *Run) ExitCode() int {
	if r.Failed() {
		return 1
	}
	return 0
}

// Blocker returns the fatal failure that halted the run, or nil when the
// run completed or was stopped by cancellation instead.
func (r *Run) Blocker() *Outcome {
	if !r.HaltedEarly || len(r.Outcomes) == 0 {
		return nil
	}
	last := &r.Outcomes[len(r.Outcomes)-1]
	if last.Result.Status == StatusFail && last.Check.Severity == SeverityFatal {
		return last
	}
	return nil
}
