// Package testutil provides shared test doubles.
package testutil

import (
	"context"
	"strings"

	"github.com/semviews/lakecheck/internal/querysql"
)

// Call records one statement sent to the fake together with its bound
// arguments.
type Call struct {
	Stmt string
	Args []any
}

type rule struct {
	substr string
	rows   [][]any
	err    error
}

// ScriptedQuerier is an in-memory stand-in for the DuckDB client. Every
// statement is recorded in order; responses are scripted by substring
// match, first registered rule wins.
type ScriptedQuerier struct {
	Calls      []Call
	CloseCount int
	CloseErr   error

	rules []rule
}

func NewScriptedQuerier() *ScriptedQuerier {
	return &ScriptedQuerier{}
}

// RowsFor scripts the rows FetchAll returns for any statement that
// contains substr.
func (q *ScriptedQuerier) RowsFor(substr string, rows [][]any) {
	q.rules = append(q.rules, rule{substr: substr, rows: rows})
}

// ErrFor scripts an error for any statement that contains substr.
func (q *ScriptedQuerier) ErrFor(substr string, err error) {
	q.rules = append(q.rules, rule{substr: substr, err: err})
}

// Statements returns the recorded statement texts in execution order.
func (q *ScriptedQuerier) Statements() []string {
	out := make([]string, len(q.Calls))
	for i, c := range q.Calls {
		out[i] = c.Stmt
	}
	return out
}

// ExecutedMatching counts recorded statements containing substr.
func (q *ScriptedQuerier) ExecutedMatching(substr string) int {
	n := 0
	for _, c := range q.Calls {
		if strings.Contains(c.Stmt, substr) {
			n++
		}
	}
	return n
}

func (q *ScriptedQuerier) match(stmt string) *rule {
	for i := range q.rules {
		if strings.Contains(stmt, q.rules[i].substr) {
			return &q.rules[i]
		}
	}
	return nil
}

func (q *ScriptedQuerier) record(stmt string, args []any) *rule {
	q.Calls = append(q.Calls, Call{Stmt: stmt, Args: args})
	return q.match(stmt)
}

func (q *ScriptedQuerier) Execute(_ context.Context, stmt string, args ...any) error {
	if r := q.record(stmt, args); r != nil {
		return r.err
	}
	return nil
}

func (q *ScriptedQuerier) FetchAll(_ context.Context, stmt string, args ...any) ([][]any, error) {
	if r := q.record(stmt, args); r != nil {
		return r.rows, r.err
	}
	return nil, nil
}

func (q *ScriptedQuerier) Install(ctx context.Context, target string) error {
	return q.Execute(ctx, querysql.Install(target))
}

func (q *ScriptedQuerier) Load(ctx context.Context, name string) error {
	stmt, err := querysql.Load(name)
	if err != nil {
		return err
	}
	return q.Execute(ctx, stmt)
}

func (q *ScriptedQuerier) Close() error {
	q.CloseCount++
	return q.CloseErr
}
