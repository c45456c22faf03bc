package harness

import "context"

// Querier is the slice of the engine client scenarios run against.
type Querier interface {
	Execute(ctx context.Context, stmt string, args ...any) error
	FetchAll(ctx context.Context, stmt string, args ...any) ([][]any, error)
}

// Scenario is one independent verification step. The body returns nil
// on pass; an error, or a panic, is recorded as the scenario's failure
// detail without stopping the run.
type Scenario struct {
	ID    string
	Title string

	// BestEffort marks cleanup-style scenarios: a failure is shown in
	// the transcript but never counted and never affects the exit code.
	BestEffort bool

	Body func(ctx context.Context, q Querier) error
}
