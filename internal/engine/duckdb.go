// Package engine wraps the DuckDB driver with the small surface the
// provisioner and the verification harness need: statement execution,
// full result fetches, and extension bootstrap.
package engine

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "github.com/marcboeker/go-duckdb"

	"github.com/semviews/lakecheck/internal/querysql"
)

// Config controls process-level DuckDB settings that must be set at
// connect time, before any statement runs.
type Config struct {
	// ExtensionDir overrides where DuckDB installs and resolves
	// extensions. Empty keeps the driver default (~/.duckdb).
	ExtensionDir string

	// AllowUnsigned permits loading locally built, unsigned extensions.
	AllowUnsigned bool

	// ReadOnly opens the database without write access.
	ReadOnly bool
}

// DSN renders the driver connection string for a database path.
func (c Config) DSN(path string) string {
	params := url.Values{}
	if c.ExtensionDir != "" {
		params.Set("extension_directory", c.ExtensionDir)
	}
	if c.AllowUnsigned {
		params.Set("allow_unsigned_extensions", "true")
	}
	if c.ReadOnly {
		params.Set("access_mode", "read_only")
	}
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}

// DB is an open DuckDB database handle.
type DB struct {
	db *sql.DB
}

// Open creates or opens a DuckDB database at the given path.
//
// The pool is pinned to a single connection: LOAD and ATTACH apply per
// connection in DuckDB, so a second pooled connection would not see the
// extensions or the attached catalog.
func Open(path string, cfg Config) (*DB, error) {
	db, err := sql.Open("duckdb", cfg.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Execute runs a statement and discards any result rows.
func (d *DB) Execute(ctx context.Context, stmt string, args ...any) error {
	if _, err := d.db.ExecContext(ctx, stmt, args...); err != nil {
		return fmt.Errorf("failed to execute %q: %w", stmt, err)
	}
	return nil
}

// FetchAll runs a query and returns every row, column values in select
// order. Values keep the driver's native Go types; callers coerce.
func (d *DB) FetchAll(ctx context.Context, stmt string, args ...any) ([][]any, error) {
	rows, err := d.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", stmt, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("get columns: %w", err)
	}

	var out [][]any
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return out, nil
}

// Install registers an extension with DuckDB. Target is either a known
// extension name or a filesystem path to a local build.
func (d *DB) Install(ctx context.Context, target string) error {
	return d.Execute(ctx, querysql.Install(target))
}

// Load activates a previously installed extension on this connection.
func (d *DB) Load(ctx context.Context, name string) error {
	stmt, err := querysql.Load(name)
	if err != nil {
		return err
	}
	return d.Execute(ctx, stmt)
}
