// Package catalog builds the DuckLake-backed test catalog: destructive
// fixture reset, engine bootstrap, seed loading, and the prerequisite
// checks the verification harness runs before touching the fixture.
package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/semviews/lakecheck/internal/config"
	"github.com/semviews/lakecheck/internal/engine"
	"github.com/semviews/lakecheck/internal/querysql"
	"github.com/semviews/lakecheck/internal/seed"
)

// Conn is the slice of the engine client the provisioner drives.
type Conn interface {
	Execute(ctx context.Context, stmt string, args ...any) error
	FetchAll(ctx context.Context, stmt string, args ...any) ([][]any, error)
	Install(ctx context.Context, target string) error
	Load(ctx context.Context, name string) error
	Close() error
}

// Fixture describes the provisioned state: where the catalog lives and
// which tables ended up registered in it.
type Fixture struct {
	CatalogPath  string
	LakePath     string
	DataDir      string
	ExtensionDir string
	Tables       []string
}

// Provisioner rebuilds the catalog fixture from cached seed files.
// Every run starts from a destructive reset, so provisioning twice
// yields the same fixture and recovers from any partially built state
// a failed run left behind.
type Provisioner struct {
	Config *config.Config

	// Out receives the provisioning transcript. Defaults to io.Discard.
	Out io.Writer

	// OpenFunc is replaceable in tests. Defaults to engine.Open.
	OpenFunc func(path string, cfg engine.Config) (Conn, error)
}

// Provision rebuilds the fixture: reset, bootstrap DuckLake, attach the
// catalog, load each cached seed as a table, then list what the catalog
// actually registered. Seeds missing from the cache are skipped with a
// warning; a seed that fails to load is fatal and leaves the partial
// fixture for the next run's reset to clear.
func (p *Provisioner) Provision(ctx context.Context) (*Fixture, error) {
	cfg := p.Config

	fmt.Fprintln(p.out(), "Resetting catalog fixture")
	if err := p.Reset(); err != nil {
		return nil, err
	}

	conn, err := p.openConn()
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	defer conn.Close()

	if err := conn.Install(ctx, "ducklake"); err != nil {
		return nil, err
	}
	if err := conn.Load(ctx, "ducklake"); err != nil {
		return nil, err
	}

	attach, err := querysql.AttachDuckLake(cfg.LakePath, cfg.CatalogName, cfg.LakeDataDir)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out(), "Attaching DuckLake catalog %q\n", cfg.CatalogName)
	if err := conn.Execute(ctx, attach); err != nil {
		return nil, fmt.Errorf("failed to attach catalog: %w", err)
	}

	for _, filename := range cfg.Seeds {
		cache := cfg.SeedPath(filename)
		if _, err := os.Stat(cache); err != nil {
			fmt.Fprintf(p.out(), "WARNING: seed not cached, skipping %s\n", filename)
			continue
		}

		table := seed.TableName(filename)
		stmt, err := querysql.CreateTableFromCSV(cfg.CatalogName, table, cache)
		if err != nil {
			return nil, err
		}
		if err := conn.Execute(ctx, stmt); err != nil {
			return nil, fmt.Errorf("failed to load seed %s: %w", filename, err)
		}
		fmt.Fprintf(p.out(), "Loaded %s.%s from %s\n", cfg.CatalogName, table, filename)
	}

	tables, err := Tables(ctx, conn, cfg.CatalogName)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.out(), "Catalog tables: %s\n", strings.Join(tables, ", "))

	if err := conn.Close(); err != nil {
		return nil, fmt.Errorf("failed to close catalog database: %w", err)
	}

	return &Fixture{
		CatalogPath:  cfg.CatalogPath,
		LakePath:     cfg.LakePath,
		DataDir:      cfg.LakeDataDir,
		ExtensionDir: cfg.ExtensionDir,
		Tables:       tables,
	}, nil
}

// Reset deletes every artifact a previous run may have left: the
// catalog database, the DuckLake pointer file, their write-ahead logs,
// and the table data directory. The data directory is recreated empty
// and the rest of the fixture tree is created when absent, so a fresh
// checkout provisions without any manual mkdir. The seed cache is left
// untouched.
func (p *Provisioner) Reset() error {
	cfg := p.Config

	stale := []string{cfg.CatalogPath, cfg.LakePath}
	for _, base := range []string{cfg.CatalogPath, cfg.LakePath} {
		wals, err := filepath.Glob(base + ".wal*")
		if err != nil {
			return fmt.Errorf("failed to glob %s.wal*: %w", base, err)
		}
		stale = append(stale, wals...)
	}
	for _, path := range stale {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}

	if err := os.RemoveAll(cfg.LakeDataDir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", cfg.LakeDataDir, err)
	}
	for _, dir := range []string{cfg.DataDir, cfg.SeedDir, cfg.ExtensionDir, cfg.LakeDataDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Tables lists the table names registered under the logical catalog,
// sorted by name.
func Tables(ctx context.Context, conn Conn, catalogName string) ([]string, error) {
	rows, err := conn.FetchAll(ctx, querysql.CatalogTables(), catalogName)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog tables: %w", err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if name, ok := row[0].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

func (p *Provisioner) openConn() (Conn, error) {
	cfg := engine.Config{
		ExtensionDir:  p.Config.ExtensionDir,
		AllowUnsigned: true,
	}
	if p.OpenFunc != nil {
		return p.OpenFunc(p.Config.CatalogPath, cfg)
	}
	return engine.Open(p.Config.CatalogPath, cfg)
}

func (p *Provisioner) out() io.Writer {
	if p.Out != nil {
		return p.Out
	}
	return io.Discard
}
