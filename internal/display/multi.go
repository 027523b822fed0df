package display

import "github.com/ibis01/Crypto-weaver/internal/pipeline"

// MultiReporter fans each event out to several reporters in order. Nil
// reporters are skipped. Used to pair a console or JSON reporter with the
// run log.
func MultiReporter(reporters ...pipeline.Reporter) pipeline.Reporter {
	kept := make(multiReporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			kept = append(kept, r)
		}
	}
	return kept
}

type multiReporter []pipeline.Reporter

func (m multiReporter) CheckCompleted(outcome pipeline.Outcome) {
	for _, r := range m {
		r.CheckCompleted(outcome)
	}
}

func (m multiReporter) RunCompleted(run *pipeline.Run) {
	for _, r := range m {
		r.RunCompleted(run)
	}
}
