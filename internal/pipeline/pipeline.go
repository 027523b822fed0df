// Package pipeline sequences validation checks and aggregates their
// results. Checks run strictly in declaration order, one at a time; the
// severity policy decides whether a failure halts the run or merely marks
// it. Cleanup runs exactly once per run, whether the run completed or
// halted.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNoChecks indicates Run was invoked with an empty check list.
var ErrNoChecks = errors.New("no checks to run")

// Reporter receives each outcome as it is produced plus the final run
// summary. Implementations render progress; they never influence control
// flow and are not a source of truth.
type Reporter interface {
	CheckCompleted(outcome Outcome)
	RunCompleted(run *Run)
}

// CleanupFunc releases side effects left behind by checks. It is invoked
// exactly once per run. An error is downgraded to a warning on the run
// and never changes the verdict.
type CleanupFunc func(ctx context.Context) error

// Logger is the diagnostic interface the pipeline needs. It is distinct
// from the Reporter, which is the user-facing output.
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// Pipeline executes checks sequentially and applies the severity policy:
// a failing fatal check halts the run, a failing advisory check is
// recorded and the run keeps going. There is no parallelism and no retry.
type Pipeline struct {
	reporter Reporter
	cleanup  CleanupFunc
	logger   Logger
	now      func() time.Time // Injected for testing, defaults to time.Now
}

// New creates a Pipeline. The reporter, cleanup hook and logger are each
// optional and may be nil.
func New(reporter Reporter, cleanup CleanupFunc, logger Logger) *Pipeline {
	return &Pipeline{
		reporter: reporter,
		cleanup:  cleanup,
		logger:   logger,
		now:      time.Now,
	}
}

// Run executes the checks in the order given. The caller owns ordering;
// the pipeline never reorders, dedupes or resolves dependencies. If id is
// empty a fresh one is generated.
//
// The returned Run is always non-nil on a nil error, including interrupted
// and failing runs; callers derive the process exit code from it. An error
// is returned only for unusable input.
func (p *Pipeline) Run(ctx context.Context, id string, checks []Check) (*Run, error) {
	if len(checks) == 0 {
		return nil, ErrNoChecks
	}

	if id == "" {
		id = uuid.New().String()
	}

	run := &Run{
		ID:      id,
		Started: p.now(),
	}

	for _, check := range checks {
		// Cancellation is only observed between checks. An in-flight
		// action sees it through its own ctx.
		if ctx.Err() != nil {
			p.warnf("Run interrupted before %s: %v", check.Name, ctx.Err())
			run.HaltedEarly = true
			break
		}

		p.debugf("Running %s (severity=%s)", check.Name, check.Severity)

		start := p.now()
		result := p.invoke(ctx, check)
		outcome := Outcome{Check: check, Result: result, Duration: p.now().Sub(start)}
		run.Outcomes = append(run.Outcomes, outcome)

		if p.reporter != nil {
			p.reporter.CheckCompleted(outcome)
		}

		if result.Status == StatusFail && check.Severity == SeverityFatal {
			p.debugf("Fatal failure in %s, halting run", check.Name)
			run.HaltedEarly = true
			break
		}
	}

	p.runCleanup(ctx, run)

	run.Duration = p.now().Sub(run.Started)

	if p.reporter != nil {
		p.reporter.RunCompleted(run)
	}

	return run, nil
}

// invoke runs a single check action and converts faults into failures so
// one broken check cannot take down the whole gate.
func (p *Pipeline) invoke(ctx context.Context, check Check) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			p.warnf("Check %s panicked: %v", check.Name, r)
			result = Fail(
				fmt.Sprintf("%s did not run cleanly", check.Name),
				fmt.Sprintf("panic: %v", r),
			)
		}
	}()

	if check.Action == nil {
		return Fail(fmt.Sprintf("%s has no action", check.Name), "")
	}

	result, err := check.Action(ctx)
	if err != nil {
		p.warnf("Check %s fault: %v", check.Name, err)
		return Fail(fmt.Sprintf("%s did not run cleanly", check.Name), err.Error())
	}

	return result
}

// runCleanup invokes the cleanup hook exactly once per run. It runs even
// after cancellation, so the hook gets a context detached from the run's.
func (p *Pipeline) runCleanup(ctx context.Context, run *Run) {
	if p.cleanup == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			p.warnf("Cleanup panicked: %v", r)
			run.CleanupWarning = fmt.Sprintf("panic: %v", r)
		}
	}()

	if err := p.cleanup(context.WithoutCancel(ctx)); err != nil {
		p.warnf("Cleanup failed: %v", err)
		run.CleanupWarning = err.Error()
	}
}

func (p *Pipeline) debugf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Debugf(format, args...)
	}
}

func (p *Pipeline) warnf(format string, args ...interface{}) {
	if p.logger != nil {
		p.logger.Warnf(format, args...)
	}
}
