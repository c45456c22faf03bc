// Package harness runs the fixed verification scenario sequence against
// a provisioned catalog and reports a pass/fail tally.
//
// Scenarios run strictly in declared order and stay isolated from each
// other: a failure inside one scenario body, including a panic, becomes
// that scenario's recorded outcome and the run continues with the next
// scenario. Only the final tally decides the exit code.
package harness

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Runner executes scenarios sequentially, writing one transcript line
// per outcome.
type Runner struct {
	// Out receives the transcript. Defaults to io.Discard.
	Out io.Writer
}

// Run executes every scenario in order and returns the aggregated
// report. The report is final when this returns; callers print the
// summary and map ExitCode to the process exit status.
func (r *Runner) Run(ctx context.Context, q Querier, scenarios []Scenario) *RunReport {
	report := &RunReport{RunID: uuid.NewString()}
	for _, sc := range scenarios {
		outcome := runScenario(ctx, q, sc)
		report.Record(outcome)
		WriteOutcome(r.out(), outcome)
	}
	return report
}

// runScenario invokes one scenario body with panic isolation.
func runScenario(ctx context.Context, q Querier, sc Scenario) (outcome Outcome) {
	outcome = Outcome{
		ID:         sc.ID,
		Title:      sc.Title,
		Status:     StatusRunning,
		BestEffort: sc.BestEffort,
	}
	defer func() {
		if rec := recover(); rec != nil {
			outcome.Status = StatusFailed
			outcome.Detail = fmt.Sprintf("panic: %v", rec)
		}
	}()

	if err := sc.Body(ctx, q); err != nil {
		outcome.Status = StatusFailed
		outcome.Detail = err.Error()
		return outcome
	}
	outcome.Status = StatusPassed
	return outcome
}

func (r *Runner) out() io.Writer {
	if r.Out != nil {
		return r.Out
	}
	return io.Discard
}
