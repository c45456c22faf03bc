// Package querysql renders every SQL statement lakecheck issues: DuckLake
// attachment, seed loading, catalog introspection, and the four semantic
// view function calls. Statements are built here and nowhere else so the
// quoting rules live in one place.
//
// Identifiers (catalog, table, view, dimension, and metric names) are
// validated against a whitelist pattern before interpolation. Paths and
// JSON payloads are rendered as single-quoted literals with embedded
// quotes doubled. Values that can be parameterized (information schema
// lookups) use placeholders instead of interpolation.
package querysql

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// identifierPattern matches valid SQL identifiers.
// Only allows alphanumeric and underscore, must start with letter or underscore.
// This prevents SQL injection via identifier interpolation.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is safe to interpolate as a SQL
// identifier.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// requireIdentifier returns an error naming the offending value when it is
// not a valid identifier.
func requireIdentifier(kind, s string) error {
	if !ValidIdentifier(s) {
		return fmt.Errorf("invalid %s %q: must match pattern %s", kind, s, identifierPattern.String())
	}
	return nil
}

// QuoteLiteral renders s as a SQL single-quoted string literal.
func QuoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quotePath renders a filesystem path as a SQL literal with forward
// slashes. DuckDB accepts forward slashes on every platform.
func quotePath(p string) string {
	return QuoteLiteral(filepath.ToSlash(p))
}

// stringList renders items as a DuckDB list literal: ['a', 'b'].
func stringList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = QuoteLiteral(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Install returns the INSTALL statement for an extension. A bare extension
// name installs from the configured repository; anything else is treated
// as a local path and quoted.
func Install(target string) string {
	if ValidIdentifier(target) {
		return "INSTALL " + target
	}
	return "INSTALL " + quotePath(target)
}

// Load returns the LOAD statement for a named extension.
func Load(name string) (string, error) {
	if err := requireIdentifier("extension name", name); err != nil {
		return "", err
	}
	return "LOAD " + name, nil
}

// AttachDuckLake returns the ATTACH statement registering a DuckLake
// catalog under alias, with table data rooted at dataDir.
func AttachDuckLake(lakePath, alias, dataDir string) (string, error) {
	if err := requireIdentifier("catalog alias", alias); err != nil {
		return "", err
	}
	dir := filepath.ToSlash(dataDir)
	if !strings.HasSuffix(dir, "/") {
		dir += "/"
	}
	uri := "ducklake:" + filepath.ToSlash(lakePath)
	return fmt.Sprintf("ATTACH %s AS %s (DATA_PATH %s)", QuoteLiteral(uri), alias, QuoteLiteral(dir)), nil
}

// CreateTableFromCSV returns the statement materializing a seed file as a
// table inside the attached catalog. CREATE OR REPLACE keeps reruns against
// a half-built fixture from failing on an existing table.
func CreateTableFromCSV(catalog, table, csvPath string) (string, error) {
	if err := requireIdentifier("catalog name", catalog); err != nil {
		return "", err
	}
	if err := requireIdentifier("table name", table); err != nil {
		return "", err
	}
	return fmt.Sprintf("CREATE OR REPLACE TABLE %s.%s AS SELECT * FROM read_csv(%s)",
		catalog, table, quotePath(csvPath)), nil
}

// CatalogTables returns the parameterized information schema query listing
// table names registered under a catalog. The caller supplies the catalog
// name as the single query argument.
func CatalogTables() string {
	return "SELECT table_name FROM information_schema.tables " +
		"WHERE table_catalog = ? ORDER BY table_name"
}

// DefineSemanticView returns the call registering a semantic view under
// name with the given JSON definition payload.
func DefineSemanticView(name, specJSON string) (string, error) {
	if err := requireIdentifier("view name", name); err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT define_semantic_view(%s, %s)",
		QuoteLiteral(name), QuoteLiteral(specJSON)), nil
}

// SemanticQuery returns the table function call querying a semantic view
// for the named dimensions and metrics. Empty selections are omitted from
// the call rather than rendered as empty lists.
func SemanticQuery(name string, dimensions, metrics []string) (string, error) {
	return viewFunctionCall("semantic_query", name, dimensions, metrics)
}

// ExplainSemanticView returns the table function call producing the
// explain output for a selection, without executing it as data.
func ExplainSemanticView(name string, dimensions, metrics []string) (string, error) {
	return viewFunctionCall("explain_semantic_view", name, dimensions, metrics)
}

// DropSemanticView returns the call removing a registered semantic view.
func DropSemanticView(name string) (string, error) {
	if err := requireIdentifier("view name", name); err != nil {
		return "", err
	}
	return fmt.Sprintf("SELECT drop_semantic_view(%s)", QuoteLiteral(name)), nil
}

// viewFunctionCall assembles a semantic view table function invocation
// with optional named dimensions and metrics list arguments.
func viewFunctionCall(function, name string, dimensions, metrics []string) (string, error) {
	if err := requireIdentifier("view name", name); err != nil {
		return "", err
	}
	for _, d := range dimensions {
		if err := requireIdentifier("dimension name", d); err != nil {
			return "", err
		}
	}
	for _, m := range metrics {
		if err := requireIdentifier("metric name", m); err != nil {
			return "", err
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT * FROM %s(%s", function, QuoteLiteral(name))
	if len(dimensions) > 0 {
		fmt.Fprintf(&b, ", dimensions := %s", stringList(dimensions))
	}
	if len(metrics) > 0 {
		fmt.Fprintf(&b, ", metrics := %s", stringList(metrics))
	}
	b.WriteString(")")
	return b.String(), nil
}
