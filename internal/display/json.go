package display

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// CheckRecord is the machine-readable form of one check outcome.
type CheckRecord struct {
	Name       string `json:"name"`
	Severity   string `json:"severity"`
	Status     string `json:"status"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// RunDocument is the machine-readable form of a whole run. It is the
// payload of both the final stdout document and the --output file.
type RunDocument struct {
	ID             string        `json:"id"`
	Started        time.Time     `json:"started"`
	DurationMS     int64         `json:"duration_ms"`
	Checks         []CheckRecord `json:"checks"`
	HaltedEarly    bool          `json:"halted_early"`
	WarningCount   int           `json:"warning_count"`
	Failed         bool          `json:"failed"`
	ExitCode       int           `json:"exit_code"`
	CleanupWarning string        `json:"cleanup_warning,omitempty"`
}

// NewCheckRecord converts one outcome.
func NewCheckRecord(outcome pipeline.Outcome) CheckRecord {
	return CheckRecord{
		Name:       outcome.Check.Name,
		Severity:   string(outcome.Check.Severity),
		Status:     string(outcome.Result.Status),
		Message:    outcome.Result.Message,
		Detail:     outcome.Result.Detail,
		DurationMS: outcome.Duration.Milliseconds(),
	}
}

// NewRunDocument converts a finished run.
func NewRunDocument(run *pipeline.Run) RunDocument {
	checks := make([]CheckRecord, 0, len(run.Outcomes))
	for _, o := range run.Outcomes {
		checks = append(checks, NewCheckRecord(o))
	}
	return RunDocument{
		ID:             run.ID,
		Started:        run.Started,
		DurationMS:     run.Duration.Milliseconds(),
		Checks:         checks,
		HaltedEarly:    run.HaltedEarly,
		WarningCount:   run.WarningCount(),
		Failed:         run.Failed(),
		ExitCode:       run.ExitCode(),
		CleanupWarning: run.CleanupWarning,
	}
}

// JSONReporter streams one JSON line per completed check to the stream
// writer (stderr, so pipelines stay unpolluted) and emits the final run
// document to the out writer (stdout).
type JSONReporter struct {
	stream io.Writer
	out    io.Writer
}

// NewJSONReporter creates a JSONReporter. Either writer may be nil to
// suppress that half of the output.
func NewJSONReporter(stream, out io.Writer) *JSONReporter {
	return &JSONReporter{stream: stream, out: out}
}

// CheckCompleted emits one progress line: {"event":"check",...}.
func (r *JSONReporter) CheckCompleted(outcome pipeline.Outcome) {
	if r == nil || r.stream == nil {
		return
	}

	line := struct {
		Event string `json:"event"`
		CheckRecord
	}{
		Event:       "check",
		CheckRecord: NewCheckRecord(outcome),
	}

	if err := json.NewEncoder(r.stream).Encode(line); err != nil {
		fmt.Fprintf(r.stream, `{"event":"error","message":%q}`+"\n", err.Error())
	}
}

// RunCompleted emits the indented final document.
func (r *JSONReporter) RunCompleted(run *pipeline.Run) {
	if r == nil || r.out == nil {
		return
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewRunDocument(run)); err != nil && r.stream != nil {
		fmt.Fprintf(r.stream, `{"event":"error","message":%q}`+"\n", err.Error())
	}
}
