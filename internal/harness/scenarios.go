package harness

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/semviews/lakecheck/internal/querysql"
	"github.com/semviews/lakecheck/internal/semantic"
)

// Names the verification run registers and queries. The metric set is
// chosen so the aggregate scenario can cross-check two counts that must
// agree: raw_orders.id is never null in the seed data, so counting rows
// and counting ids sees the same population.
const (
	// ViewName is the semantic view registered against the catalog.
	ViewName = "jaffle_orders"
	// BaseTable is the seed table the view is defined over.
	BaseTable = "raw_orders"

	DimStoreID         = "store_id"
	MetricOrderCount   = "order_count"
	MetricOrderIDs     = "order_ids"
	MetricTotalRevenue = "total_revenue"
)

// CanonicalScenarios returns the fixed verification sequence: define,
// dimensional query, global aggregate, explain, then best-effort
// cleanup. catalogName qualifies the base table.
func CanonicalScenarios(catalogName string) []Scenario {
	return []Scenario{
		defineScenario(catalogName),
		dimensionalScenario(),
		aggregateScenario(),
		explainScenario(),
		cleanupScenario(),
	}
}

func defineScenario(catalogName string) Scenario {
	return Scenario{
		ID:    "define",
		Title: "define semantic view",
		Body: func(ctx context.Context, q Querier) error {
			spec, err := semantic.New(
				catalogName+"."+BaseTable,
				[]semantic.Field{
					{Name: DimStoreID, Expr: "store_id"},
				},
				[]semantic.Field{
					{Name: MetricOrderCount, Expr: "count(*)"},
					{Name: MetricOrderIDs, Expr: "count(id)"},
					{Name: MetricTotalRevenue, Expr: "sum(order_total)"},
				},
			)
			if err != nil {
				return err
			}
			payload, err := spec.Marshal()
			if err != nil {
				return err
			}
			if errs := semantic.ValidateJSON(payload); len(errs) > 0 {
				msgs := make([]string, len(errs))
				for i, e := range errs {
					msgs[i] = e.Error()
				}
				return fmt.Errorf("view definition rejected: %s", strings.Join(msgs, "; "))
			}
			stmt, err := querysql.DefineSemanticView(ViewName, payload)
			if err != nil {
				return err
			}
			return q.Execute(ctx, stmt)
		},
	}
}

func dimensionalScenario() Scenario {
	return Scenario{
		ID:    "dimensional_query",
		Title: "query with dimensions",
		Body: func(ctx context.Context, q Querier) error {
			stmt, err := querysql.SemanticQuery(ViewName, []string{DimStoreID}, []string{MetricOrderCount})
			if err != nil {
				return err
			}
			rows, err := q.FetchAll(ctx, stmt)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("dimensional query returned no rows")
			}

			distinct := make(map[string]bool)
			for i, row := range rows {
				if len(row) != 2 {
					return fmt.Errorf("row %d has %d columns, want 2 (dimension, metric)", i, len(row))
				}
				if row[0] != nil {
					distinct[fmt.Sprintf("%v", row[0])] = true
				}
			}
			if len(distinct) == 0 {
				return fmt.Errorf("dimension %s has no non-null values", DimStoreID)
			}
			return nil
		},
	}
}

func aggregateScenario() Scenario {
	return Scenario{
		ID:    "global_aggregate",
		Title: "aggregate without dimensions",
		Body: func(ctx context.Context, q Querier) error {
			metrics := []string{MetricOrderCount, MetricOrderIDs, MetricTotalRevenue}
			stmt, err := querysql.SemanticQuery(ViewName, nil, metrics)
			if err != nil {
				return err
			}
			rows, err := q.FetchAll(ctx, stmt)
			if err != nil {
				return err
			}
			if len(rows) != 1 {
				return fmt.Errorf("global aggregate returned %d rows, want exactly 1", len(rows))
			}
			row := rows[0]
			if len(row) != len(metrics) {
				return fmt.Errorf("global aggregate returned %d columns, want %d", len(row), len(metrics))
			}

			values := make([]float64, len(metrics))
			for i, name := range metrics {
				v, err := numeric(row[i])
				if err != nil {
					return fmt.Errorf("metric %s: %w", name, err)
				}
				if v <= 0 {
					return fmt.Errorf("metric %s = %v, want > 0", name, v)
				}
				values[i] = v
			}

			// id is never null in the seed data, so both counts cover
			// the same rows.
			if values[0] != values[1] {
				return fmt.Errorf("%s (%v) != %s (%v): counts over the same population must agree",
					MetricOrderCount, values[0], MetricOrderIDs, values[1])
			}
			return nil
		},
	}
}

func explainScenario() Scenario {
	return Scenario{
		ID:    "explain",
		Title: "explain semantic view",
		Body: func(ctx context.Context, q Querier) error {
			stmt, err := querysql.ExplainSemanticView(ViewName, []string{DimStoreID}, []string{MetricOrderCount})
			if err != nil {
				return err
			}
			rows, err := q.FetchAll(ctx, stmt)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("explain returned no output")
			}

			var b strings.Builder
			for _, row := range rows {
				for _, cell := range row {
					fmt.Fprintf(&b, "%v\n", cell)
				}
			}
			text := b.String()

			if !strings.Contains(text, ViewName) {
				return fmt.Errorf("explain output does not mention view %q", ViewName)
			}
			if !strings.Contains(text, BaseTable) {
				return fmt.Errorf("explain output does not mention base table %q", BaseTable)
			}
			return nil
		},
	}
}

func cleanupScenario() Scenario {
	return Scenario{
		ID:         "cleanup",
		Title:      "drop semantic view",
		BestEffort: true,
		Body: func(ctx context.Context, q Querier) error {
			stmt, err := querysql.DropSemanticView(ViewName)
			if err != nil {
				return err
			}
			return q.Execute(ctx, stmt)
		},
	}
}

// numeric coerces a driver value to float64. The driver hands back
// different Go types per column type: integer widths for counts,
// float64 for doubles, and strings for DECIMAL renderings.
func numeric(v any) (float64, error) {
	switch n := v.(type) {
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("value %q is not numeric", n)
		}
		return f, nil
	case []byte:
		return numeric(string(n))
	case nil:
		return 0, fmt.Errorf("value is NULL")
	default:
		return 0, fmt.Errorf("value %v of type %T is not numeric", v, v)
	}
}
