package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// FakeReporter records everything the pipeline emits.
type FakeReporter struct {
	outcomes  []Outcome
	summaries []*Run
}

func (f *FakeReporter) CheckCompleted(outcome Outcome) {
	f.outcomes = append(f.outcomes, outcome)
}

func (f *FakeReporter) RunCompleted(run *Run) {
	f.summaries = append(f.summaries, run)
}

// passing builds a check whose action always passes.
func passing(name string) Check {
	return Check{
		Name:     name,
		Severity: SeverityFatal,
		Action: func(ctx context.Context) (Result, error) {
			return Pass("ok"), nil
		},
	}
}

// failing builds a check whose action reports an expected failure.
func failing(name string, severity Severity) Check {
	return Check{
		Name:     name,
		Severity: severity,
		Action: func(ctx context.Context) (Result, error) {
			return Fail("broken", "details here"), nil
		},
	}
}

// === Tests ===

func TestRun_AllPass(t *testing.T) {
	reporter := &FakeReporter{}
	p := New(reporter, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{
		passing("first"),
		passing("second"),
		passing("third"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(run.Outcomes) != 3 {
		t.Errorf("expected 3 outcomes, got %d", len(run.Outcomes))
	}
	if run.HaltedEarly {
		t.Error("expected run to complete, got halted")
	}
	if run.Failed() {
		t.Error("expected successful run")
	}
	if run.ExitCode() != 0 {
		t.Errorf("expected exit code 0, got %d", run.ExitCode())
	}
	if len(reporter.outcomes) != 3 {
		t.Errorf("expected reporter to see 3 outcomes, got %d", len(reporter.outcomes))
	}
	if len(reporter.summaries) != 1 {
		t.Errorf("expected exactly one summary, got %d", len(reporter.summaries))
	}
}

func TestRun_FatalFailureHalts(t *testing.T) {
	thirdRan := false
	third := Check{
		Name:     "third",
		Severity: SeverityFatal,
		Action: func(ctx context.Context) (Result, error) {
			thirdRan = true
			return Pass("ok"), nil
		},
	}

	reporter := &FakeReporter{}
	p := New(reporter, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{
		passing("first"),
		failing("second", SeverityFatal),
		third,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if thirdRan {
		t.Error("check after fatal failure must not run")
	}
	if len(run.Outcomes) != 2 {
		t.Errorf("expected 2 outcomes, got %d", len(run.Outcomes))
	}
	if !run.HaltedEarly {
		t.Error("expected run to be halted")
	}
	if run.ExitCode() == 0 {
		t.Error("expected non-zero exit code")
	}

	blocker := run.Blocker()
	if blocker == nil {
		t.Fatal("expected a blocker outcome")
	}
	if blocker.Check.Name != "second" {
		t.Errorf("expected blocker to be second, got %s", blocker.Check.Name)
	}
}

func TestRun_AdvisoryFailureContinues(t *testing.T) {
	reporter := &FakeReporter{}
	p := New(reporter, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{
		failing("lint", SeverityAdvisory),
		passing("build"),
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(run.Outcomes) != 2 {
		t.Errorf("expected both checks to run, got %d outcomes", len(run.Outcomes))
	}
	if run.HaltedEarly {
		t.Error("advisory failure must not halt the run")
	}
	if !run.Failed() {
		t.Error("advisory failure must still fail the run")
	}
	if run.ExitCode() == 0 {
		t.Error("expected non-zero exit code for advisory failure")
	}
	if run.WarningCount() != 1 {
		t.Errorf("expected advisory failure counted as warning, got %d", run.WarningCount())
	}
	if run.Blocker() != nil {
		t.Error("completed run must not have a blocker")
	}
}

func TestRun_WarnOnlyExitsZero(t *testing.T) {
	warning := Check{
		Name:     "soft",
		Severity: SeverityFatal,
		Action: func(ctx context.Context) (Result, error) {
			return Warn("heads up", ""), nil
		},
	}

	p := New(nil, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{warning, passing("after")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if run.Failed() {
		t.Error("warnings alone must not fail the run")
	}
	if run.ExitCode() != 0 {
		t.Errorf("expected exit code 0 for warn-only run, got %d", run.ExitCode())
	}
	if run.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", run.WarningCount())
	}
	if len(run.Outcomes) != 2 {
		t.Errorf("expected warning not to halt the run, got %d outcomes", len(run.Outcomes))
	}
}

func TestRun_ActionErrorBecomesFailure(t *testing.T) {
	faulty := Check{
		Name:     "env",
		Severity: SeverityFatal,
		Action: func(ctx context.Context) (Result, error) {
			return Result{}, errors.New("python3 not found in PATH")
		},
	}

	p := New(nil, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{faulty, passing("after")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(run.Outcomes) != 1 {
		t.Fatalf("expected fault in fatal check to halt, got %d outcomes", len(run.Outcomes))
	}

	result := run.Outcomes[0].Result
	if result.Status != StatusFail {
		t.Errorf("expected fault converted to fail, got %s", result.Status)
	}
	if !strings.Contains(result.Detail, "python3 not found") {
		t.Errorf("expected fault text in detail, got %q", result.Detail)
	}
	if !run.HaltedEarly {
		t.Error("expected fatal fault to halt the run")
	}
}

func TestRun_ActionFaultHonorsAdvisorySeverity(t *testing.T) {
	faulty := Check{
		Name:     "style",
		Severity: SeverityAdvisory,
		Action: func(ctx context.Context) (Result, error) {
			return Result{}, errors.New("flake8 is not installed")
		},
	}

	p := New(nil, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{faulty, passing("after")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(run.Outcomes) != 2 {
		t.Errorf("expected advisory fault not to halt, got %d outcomes", len(run.Outcomes))
	}
	if run.HaltedEarly {
		t.Error("advisory fault must not halt the run")
	}
	if !run.Failed() {
		t.Error("advisory fault must still fail the run")
	}
}

func TestRun_ActionPanicRecovered(t *testing.T) {
	panicky := Check{
		Name:     "wild",
		Severity: SeverityAdvisory,
		Action: func(ctx context.Context) (Result, error) {
			panic("index out of range")
		},
	}

	p := New(nil, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{panicky, passing("after")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(run.Outcomes) != 2 {
		t.Fatalf("expected run to survive the panic, got %d outcomes", len(run.Outcomes))
	}

	result := run.Outcomes[0].Result
	if result.Status != StatusFail {
		t.Errorf("expected panic converted to fail, got %s", result.Status)
	}
	if !strings.Contains(result.Detail, "index out of range") {
		t.Errorf("expected panic text in detail, got %q", result.Detail)
	}
}

func TestRun_NilActionFails(t *testing.T) {
	p := New(nil, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{{Name: "empty", Severity: SeverityFatal}})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if run.Outcomes[0].Result.Status != StatusFail {
		t.Errorf("expected nil action to fail, got %s", run.Outcomes[0].Result.Status)
	}
}

func TestRun_CleanupRunsExactlyOnce(t *testing.T) {
	cases := []struct {
		name   string
		checks []Check
	}{
		{"completed run", []Check{passing("first"), passing("second")}},
		{"halted run", []Check{failing("first", SeverityFatal), passing("second")}},
		{"advisory failures", []Check{failing("first", SeverityAdvisory), passing("second")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			cleanup := func(ctx context.Context) error {
				calls++
				return nil
			}

			p := New(nil, cleanup, nil)
			if _, err := p.Run(context.Background(), "", tc.checks); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if calls != 1 {
				t.Errorf("expected cleanup to run exactly once, ran %d times", calls)
			}
		})
	}
}

func TestRun_CleanupFailureNeverChangesVerdict(t *testing.T) {
	cleanup := func(ctx context.Context) error {
		return errors.New("image removal failed")
	}

	p := New(nil, cleanup, nil)

	run, err := p.Run(context.Background(), "", []Check{passing("only")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if run.CleanupWarning == "" {
		t.Error("expected cleanup warning to be recorded")
	}
	if run.Failed() {
		t.Error("cleanup failure must not fail a passing run")
	}
	if run.ExitCode() != 0 {
		t.Errorf("expected exit code 0 despite cleanup failure, got %d", run.ExitCode())
	}
}

func TestRun_CleanupPanicRecovered(t *testing.T) {
	cleanup := func(ctx context.Context) error {
		panic("nil registry")
	}

	p := New(nil, cleanup, nil)

	run, err := p.Run(context.Background(), "", []Check{passing("only")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(run.CleanupWarning, "nil registry") {
		t.Errorf("expected panic text in cleanup warning, got %q", run.CleanupWarning)
	}
	if run.Failed() {
		t.Error("cleanup panic must not fail the run")
	}
}

func TestRun_SummaryAfterCleanup(t *testing.T) {
	cleanedUp := false
	cleanup := func(ctx context.Context) error {
		cleanedUp = true
		return errors.New("best effort")
	}

	reporter := &FakeReporter{}
	p := New(reporter, cleanup, nil)

	if _, err := p.Run(context.Background(), "", []Check{passing("only")}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !cleanedUp {
		t.Fatal("expected cleanup to run")
	}
	if len(reporter.summaries) != 1 {
		t.Fatalf("expected exactly one summary, got %d", len(reporter.summaries))
	}
	if reporter.summaries[0].CleanupWarning == "" {
		t.Error("expected summary to carry the cleanup warning")
	}
}

func TestRun_EmptyChecks(t *testing.T) {
	p := New(nil, nil, nil)

	_, err := p.Run(context.Background(), "", nil)
	if err == nil {
		t.Fatal("expected error for empty check list")
	}
	if !errors.Is(err, ErrNoChecks) {
		t.Errorf("expected ErrNoChecks, got %v", err)
	}
}

func TestRun_ContextCancelledBetweenChecks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	first := Check{
		Name:     "first",
		Severity: SeverityFatal,
		Action: func(ctx context.Context) (Result, error) {
			cancel()
			return Pass("ok"), nil
		},
	}
	secondRan := false
	second := Check{
		Name:     "second",
		Severity: SeverityFatal,
		Action: func(ctx context.Context) (Result, error) {
			secondRan = true
			return Pass("ok"), nil
		},
	}

	cleanupRan := false
	cleanup := func(ctx context.Context) error {
		if ctx.Err() != nil {
			t.Error("cleanup context must survive cancellation")
		}
		cleanupRan = true
		return nil
	}

	p := New(nil, cleanup, nil)

	run, err := p.Run(ctx, "", []Check{first, second})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if secondRan {
		t.Error("check after cancellation must not run")
	}
	if !run.HaltedEarly {
		t.Error("expected cancelled run to be halted")
	}
	if !run.Failed() {
		t.Error("expected cancelled run to count as failed")
	}
	if !cleanupRan {
		t.Error("expected cleanup to run after cancellation")
	}
	if run.Blocker() != nil {
		t.Error("cancellation is not a blocker outcome")
	}
}

func TestRun_PreservesDeclarationOrder(t *testing.T) {
	reporter := &FakeReporter{}
	p := New(reporter, nil, nil)

	names := []string{"alpha", "beta", "gamma", "delta"}
	checks := make([]Check, 0, len(names))
	for _, name := range names {
		checks = append(checks, passing(name))
	}

	run, err := p.Run(context.Background(), "", checks)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for i, name := range names {
		if run.Outcomes[i].Check.Name != name {
			t.Errorf("outcome %d: expected %s, got %s", i, name, run.Outcomes[i].Check.Name)
		}
		if reporter.outcomes[i].Check.Name != name {
			t.Errorf("reported outcome %d: expected %s, got %s", i, name, reporter.outcomes[i].Check.Name)
		}
	}
}

func TestRun_StreamsOutcomesAsProduced(t *testing.T) {
	reporter := &FakeReporter{}

	second := Check{
		Name:     "second",
		Severity: SeverityFatal,
		Action: func(ctx context.Context) (Result, error) {
			// The first outcome must already have been reported.
			if len(reporter.outcomes) != 1 {
				return Fail("not streamed", ""), nil
			}
			return Pass("ok"), nil
		},
	}

	p := New(reporter, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{passing("first"), second})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if run.Failed() {
		t.Error("expected first outcome to be streamed before second check ran")
	}
}

func TestRun_GeneratesIDWhenEmpty(t *testing.T) {
	p := New(nil, nil, nil)

	run, err := p.Run(context.Background(), "", []Check{passing("only")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if run.ID == "" {
		t.Error("expected generated run ID")
	}

	run, err = p.Run(context.Background(), "fixed-id", []Check{passing("only")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if run.ID != "fixed-id" {
		t.Errorf("expected supplied ID to be kept, got %q", run.ID)
	}
}

func TestWarningCount(t *testing.T) {
	cases := []struct {
		name     string
		outcomes []Outcome
		want     int
	}{
		{
			name: "no warnings",
			outcomes: []Outcome{
				{Check: Check{Severity: SeverityFatal}, Result: Pass("ok")},
			},
			want: 0,
		},
		{
			name: "warn result",
			outcomes: []Outcome{
				{Check: Check{Severity: SeverityFatal}, Result: Warn("soft", "")},
			},
			want: 1,
		},
		{
			name: "advisory failure counts",
			outcomes: []Outcome{
				{Check: Check{Severity: SeverityAdvisory}, Result: Fail("broken", "")},
			},
			want: 1,
		},
		{
			name: "fatal failure does not count as warning",
			outcomes: []Outcome{
				{Check: Check{Severity: SeverityFatal}, Result: Fail("broken", "")},
			},
			want: 0,
		},
		{
			name: "mixed",
			outcomes: []Outcome{
				{Check: Check{Severity: SeverityFatal}, Result: Pass("ok")},
				{Check: Check{Severity: SeverityFatal}, Result: Warn("soft", "")},
				{Check: Check{Severity: SeverityAdvisory}, Result: Fail("broken", "")},
				{Check: Check{Severity: SeverityAdvisory}, Result: Warn("soft", "")},
			},
			want: 3,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			run := &Run{Outcomes: tc.outcomes}
			if got := run.WarningCount(); got != tc.want {
				t.Errorf("expected %d warnings, got %d", tc.want, got)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		run  Run
		want int
	}{
		{
			name: "all pass",
			run: Run{Outcomes: []Outcome{
				{Check: Check{Severity: SeverityFatal}, Result: Pass("ok")},
			}},
			want: 0,
		},
		{
			name: "warn only",
			run: Run{Outcomes: []Outcome{
				{Check: Check{Severity: SeverityFatal}, Result: Warn("soft", "")},
			}},
			want: 0,
		},
		{
			name: "advisory failure",
			run: Run{Outcomes: []Outcome{
				{Check: Check{Severity: SeverityAdvisory}, Result: Fail("broken", "")},
			}},
			want: 1,
		},
		{
			name: "halted without failing outcome",
			run:  Run{HaltedEarly: true},
			want: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.run.ExitCode(); got != tc.want {
				t.Errorf("expected exit code %d, got %d", tc.want, got)
			}
		})
	}
}
