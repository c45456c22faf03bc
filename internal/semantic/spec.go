// Package semantic constructs, validates, and serializes the semantic view
// definition contract consumed by the semantic_views extension. The harness
// only produces this data; interpretation happens on the engine side.
package semantic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/semviews/lakecheck/internal/querysql"
)

// Field is a named SQL expression: a dimension or a metric. SourceTable
// optionally declares which join table the expression reads from; empty
// means the base table.
type Field struct {
	Name        string `json:"name"`
	Expr        string `json:"expr"`
	SourceTable string `json:"source_table,omitempty"`
}

// Join declares a JOIN relationship between the base table and another
// source table.
type Join struct {
	Table string `json:"table"`
	On    string `json:"on"`
}

// ViewSpec is the top-level semantic view definition. The JSON form of
// this struct is the wire contract: base_table, dimensions, and metrics
// are required; filters and joins are optional and omitted when empty.
type ViewSpec struct {
	BaseTable  string   `json:"base_table"`
	Dimensions []Field  `json:"dimensions"`
	Metrics    []Field  `json:"metrics"`
	Filters    []string `json:"filters,omitempty"`
	Joins      []Join   `json:"joins,omitempty"`
}

// New builds a ViewSpec and validates it. Dimension and metric names must
// be unique within their list because queries select them by name.
func New(baseTable string, dimensions, metrics []Field) (*ViewSpec, error) {
	s := &ViewSpec{
		BaseTable:  baseTable,
		Dimensions: dimensions,
		Metrics:    metrics,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks structural rules the engine would otherwise reject with
// an opaque error: a well-formed base table reference, non-empty member
// expressions, and unique member names per list.
func (s *ViewSpec) Validate() error {
	if s.BaseTable == "" {
		return fmt.Errorf("base table is required")
	}
	for _, part := range strings.Split(s.BaseTable, ".") {
		if !querysql.ValidIdentifier(part) {
			return fmt.Errorf("base table %q is not a valid table reference", s.BaseTable)
		}
	}
	if err := validateFields("dimension", s.Dimensions); err != nil {
		return err
	}
	if err := validateFields("metric", s.Metrics); err != nil {
		return err
	}
	for i, f := range s.Filters {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("filter %d must not be empty", i)
		}
	}
	for i, j := range s.Joins {
		if !querysql.ValidIdentifier(j.Table) {
			return fmt.Errorf("join %d: table %q is not a valid identifier", i, j.Table)
		}
		if strings.TrimSpace(j.On) == "" {
			return fmt.Errorf("join %d: on condition must not be empty", i)
		}
	}
	return nil
}

func validateFields(kind string, fields []Field) error {
	seen := make(map[string]bool, len(fields))
	for i, f := range fields {
		if !querysql.ValidIdentifier(f.Name) {
			return fmt.Errorf("%s %d: name %q is not a valid identifier", kind, i, f.Name)
		}
		if strings.TrimSpace(f.Expr) == "" {
			return fmt.Errorf("%s %q: expression must not be empty", kind, f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("duplicate %s name %q", kind, f.Name)
		}
		seen[f.Name] = true
		if f.SourceTable != "" && !querysql.ValidIdentifier(f.SourceTable) {
			return fmt.Errorf("%s %q: source table %q is not a valid identifier", kind, f.Name, f.SourceTable)
		}
	}
	return nil
}

// DimensionNames returns the dimension names in declaration order.
func (s *ViewSpec) DimensionNames() []string {
	return fieldNames(s.Dimensions)
}

// MetricNames returns the metric names in declaration order.
func (s *ViewSpec) MetricNames() []string {
	return fieldNames(s.Metrics)
}

func fieldNames(fields []Field) []string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return names
}

// Marshal serializes the spec as the JSON wire payload. Every string is
// NFC normalized at this boundary so the engine always sees one canonical
// spelling, and HTML escaping is disabled so expressions like a < b pass
// through unmangled. Member order is fixed by struct order.
func (s *ViewSpec) Marshal() (string, error) {
	n := s.normalized()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(n); err != nil {
		return "", fmt.Errorf("marshal view spec: %w", err)
	}

	// json.Encoder adds a trailing newline, remove it.
	out := buf.Bytes()
	if len(out) > 0 && out[len(out)-1] == '\n' {
		out = out[:len(out)-1]
	}
	return string(out), nil
}

// normalized returns a copy with every string NFC normalized and required
// slices non-nil so they serialize as [] rather than null.
func (s *ViewSpec) normalized() *ViewSpec {
	n := &ViewSpec{
		BaseTable:  norm.NFC.String(s.BaseTable),
		Dimensions: normalizeFields(s.Dimensions),
		Metrics:    normalizeFields(s.Metrics),
	}
	if len(s.Filters) > 0 {
		n.Filters = make([]string, len(s.Filters))
		for i, f := range s.Filters {
			n.Filters[i] = norm.NFC.String(f)
		}
	}
	if len(s.Joins) > 0 {
		n.Joins = make([]Join, len(s.Joins))
		for i, j := range s.Joins {
			n.Joins[i] = Join{
				Table: norm.NFC.String(j.Table),
				On:    norm.NFC.String(j.On),
			}
		}
	}
	return n
}

func normalizeFields(fields []Field) []Field {
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = Field{
			Name:        norm.NFC.String(f.Name),
			Expr:        norm.NFC.String(f.Expr),
			SourceTable: norm.NFC.String(f.SourceTable),
		}
	}
	return out
}
