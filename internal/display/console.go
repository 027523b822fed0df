package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/ibis01/Crypto-weaver/internal/pipeline"
)

// Status glyphs. One per line, aligned with the check name.
const (
	glyphPass = "✓"
	glyphWarn = "⚠"
	glyphFail = "✗"
)

// ConsoleReporter renders run progress as one line per completed check,
// followed by a one-line verdict. Detail blocks for non-passing checks are
// indented under their line. Colors are fixed at construction; pass false
// when stdout is piped.
type ConsoleReporter struct {
	writer io.Writer
	pass   *color.Color
	warn   *color.Color
	fail   *color.Color
}

// NewConsoleReporter creates a ConsoleReporter writing to w.
// colorOutput is decided by the caller, typically isatty on stdout.
func NewConsoleReporter(w io.Writer, colorOutput bool) *ConsoleReporter {
	r := &ConsoleReporter{
		writer: w,
		pass:   color.New(color.FgGreen),
		warn:   color.New(color.FgYellow),
		fail:   color.New(color.FgRed),
	}
	// Fix the decision here so the global TTY sniffing in the color
	// package cannot flip output mid-run.
	for _, c := range []*color.Color{r.pass, r.warn, r.fail} {
		if colorOutput {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// CheckCompleted prints one status line, plus the indented detail block
// for non-passing outcomes.
func (r *ConsoleReporter) CheckCompleted(outcome pipeline.Outcome) {
	if r == nil || r.writer == nil {
		return
	}

	glyph, paint := r.statusStyle(outcome.Result.Status)
	fmt.Fprintf(r.writer, "%s %-14s %s (%s)\n",
		paint.Sprint(glyph), outcome.Check.Name, outcome.Result.Message,
		formatDuration(outcome.Duration))

	if outcome.Result.Status != pipeline.StatusPass && outcome.Result.Detail != "" {
		for _, line := range strings.Split(outcome.Result.Detail, "\n") {
			fmt.Fprintf(r.writer, "    %s\n", line)
		}
	}
}

// RunCompleted prints the blank-line separated verdict.
func (r *ConsoleReporter) RunCompleted(run *pipeline.Run) {
	if r == nil || r.writer == nil {
		return
	}

	fmt.Fprintln(r.writer)

	switch {
	case run.Failed():
		if blocker := run.Blocker(); blocker != nil {
			r.fail.Fprintf(r.writer, "%s blocked by %s: %s\n", glyphFail, blocker.Check.Name, blocker.Result.Message)
		} else if run.HaltedEarly {
			r.fail.Fprintf(r.writer, "%s run interrupted after %d check(s)\n", glyphFail, len(run.Outcomes))
		} else {
			r.fail.Fprintf(r.writer, "%s %d check(s) failed\n", glyphFail, failCount(run))
		}
	case run.WarningCount() > 0:
		r.warn.Fprintf(r.writer, "%s passed with %d warning(s)\n", glyphWarn, run.WarningCount())
	default:
		r.pass.Fprintf(r.writer, "%s all %d checks passed\n", glyphPass, len(run.Outcomes))
	}

	if run.CleanupWarning != "" {
		r.warn.Fprintf(r.writer, "%s cleanup: %s\n", glyphWarn, run.CleanupWarning)
	}

	fmt.Fprintf(r.writer, "%d check(s) in %s\n", len(run.Outcomes), formatDuration(run.Duration))
}

func (r *ConsoleReporter) statusStyle(status pipeline.Status) (string, *color.Color) {
	switch status {
	case pipeline.StatusPass:
		return glyphPass, r.pass
	case pipeline.StatusWarn:
		return glyphWarn, r.warn
	default:
		return glyphFail, r.fail
	}
}

func failCount(run *pipeline.Run) int {
	count := 0
	for _, o := range run.Outcomes {
		if o.Result.Status == pipeline.StatusFail {
			count++
		}
	}
	return count
}

// formatDuration renders durations at millisecond resolution so quick
// checks don't print as 0s.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return "<1ms"
	}
	return d.Round(time.Millisecond).String()
}
