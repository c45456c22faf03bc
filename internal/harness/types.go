package harness

// Status is the lifecycle state of a scenario.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
)

// Outcome records the terminal result of one scenario.
type Outcome struct {
	ID     string
	Title  string
	Status Status

	// Detail carries the failure message. Empty on pass.
	Detail string

	// BestEffort means the failure, if any, was reported but never
	// counted.
	BestEffort bool
}

// Failed reports whether the scenario ended in failure.
func (o Outcome) Failed() bool {
	return o.Status == StatusFailed
}

// RunReport aggregates the outcomes of one harness invocation. Counts
// cover only tallied scenarios; best-effort outcomes appear in
// Outcomes but never in the tally.
type RunReport struct {
	RunID    string
	Outcomes []Outcome
	Passed   int
	Failed   int
	Total    int
}

// Record appends an outcome and updates the tally.
func (r *RunReport) Record(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.BestEffort {
		return
	}
	r.Total++
	if o.Failed() {
		r.Failed++
	} else {
		r.Passed++
	}
}

// ExitCode maps the report to the process exit status: 0 when no
// tallied scenario failed, 1 otherwise.
func (r *RunReport) ExitCode() int {
	if r.Failed > 0 {
		return 1
	}
	return 0
}
