package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semviews/lakecheck/internal/config"
	"github.com/semviews/lakecheck/internal/engine"
	"github.com/semviews/lakecheck/internal/testutil"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.Default(t.TempDir())
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestResetClearsPreviousFixture(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.CatalogPath)
	writeFile(t, cfg.CatalogPath+".wal")
	writeFile(t, cfg.LakePath)
	writeFile(t, cfg.LakePath+".wal")
	writeFile(t, filepath.Join(cfg.LakeDataDir, "main", "orders.parquet"))

	p := &Provisioner{Config: cfg}
	require.NoError(t, p.Reset())

	assert.NoFileExists(t, cfg.CatalogPath)
	assert.NoFileExists(t, cfg.CatalogPath+".wal")
	assert.NoFileExists(t, cfg.LakePath)
	assert.NoFileExists(t, cfg.LakePath+".wal")

	entries, err := os.ReadDir(cfg.LakeDataDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "data directory must be recreated empty")
}

func TestResetOnCleanTree(t *testing.T) {
	cfg := testConfig(t)

	p := &Provisioner{Config: cfg}
	require.NoError(t, p.Reset())

	assert.DirExists(t, cfg.DataDir)
	assert.DirExists(t, cfg.SeedDir)
	assert.DirExists(t, cfg.ExtensionDir)
	assert.DirExists(t, cfg.LakeDataDir)
}

func TestResetKeepsSeedCache(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.CatalogPath)
	writeFile(t, cfg.SeedPath("raw_orders.csv"))

	p := &Provisioner{Config: cfg}
	require.NoError(t, p.Reset())

	assert.NoFileExists(t, cfg.CatalogPath)
	assert.FileExists(t, cfg.SeedPath("raw_orders.csv"))
}

func TestProvisionStatementSequence(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.SeedPath("raw_orders.csv"))
	writeFile(t, cfg.SeedPath("raw_customers.csv"))
	// raw_items.csv is deliberately not cached.

	fake := testutil.NewScriptedQuerier()
	fake.RowsFor("information_schema", [][]any{{"raw_customers"}, {"raw_orders"}})

	var openedPath string
	var openedCfg engine.Config
	var out bytes.Buffer
	p := &Provisioner{
		Config: cfg,
		Out:    &out,
		OpenFunc: func(path string, ecfg engine.Config) (Conn, error) {
			openedPath = path
			openedCfg = ecfg
			return fake, nil
		},
	}

	fx, err := p.Provision(context.Background())
	require.NoError(t, err)

	assert.Equal(t, cfg.CatalogPath, openedPath)
	assert.Equal(t, cfg.ExtensionDir, openedCfg.ExtensionDir)
	assert.True(t, openedCfg.AllowUnsigned)

	stmts := fake.Statements()
	require.Len(t, stmts, 6)
	assert.Equal(t, "INSTALL ducklake", stmts[0])
	assert.Equal(t, "LOAD ducklake", stmts[1])
	assert.Contains(t, stmts[2], "ATTACH 'ducklake:")
	assert.Contains(t, stmts[2], `AS jaffle`)
	assert.Contains(t, stmts[3], "CREATE OR REPLACE TABLE jaffle.raw_orders")
	assert.Contains(t, stmts[4], "CREATE OR REPLACE TABLE jaffle.raw_customers")
	assert.Contains(t, stmts[5], "information_schema.tables")

	assert.Equal(t, []string{"raw_customers", "raw_orders"}, fx.Tables)
	assert.Equal(t, cfg.LakeDataDir, fx.DataDir)
	assert.Contains(t, out.String(), "WARNING: seed not cached, skipping raw_items.csv")
	assert.GreaterOrEqual(t, fake.CloseCount, 1)
}

func TestProvisionResetsBeforeLoading(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.CatalogPath)
	writeFile(t, cfg.LakePath)

	fake := testutil.NewScriptedQuerier()
	p := &Provisioner{
		Config:   cfg,
		OpenFunc: func(string, engine.Config) (Conn, error) { return fake, nil },
	}

	_, err := p.Provision(context.Background())
	require.NoError(t, err)

	// The fake never recreates the files the reset removed.
	assert.NoFileExists(t, cfg.CatalogPath)
	assert.NoFileExists(t, cfg.LakePath)
}

func TestProvisionFailsWhenEngineUnavailable(t *testing.T) {
	cfg := testConfig(t)

	p := &Provisioner{
		Config: cfg,
		OpenFunc: func(string, engine.Config) (Conn, error) {
			return nil, errors.New("driver not built")
		},
	}

	_, err := p.Provision(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open catalog database")
}

func TestProvisionSeedLoadFailureIsFatal(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.SeedPath("raw_orders.csv"))

	fake := testutil.NewScriptedQuerier()
	fake.ErrFor("CREATE OR REPLACE TABLE", errors.New("malformed csv"))

	p := &Provisioner{
		Config:   cfg,
		OpenFunc: func(string, engine.Config) (Conn, error) { return fake, nil },
	}

	_, err := p.Provision(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load seed raw_orders.csv")
	assert.Contains(t, err.Error(), "malformed csv")
}

func TestProvisionTwiceYieldsSameTables(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.SeedPath("raw_orders.csv"))
	writeFile(t, cfg.SeedPath("raw_customers.csv"))
	writeFile(t, cfg.SeedPath("raw_items.csv"))

	openFake := func(string, engine.Config) (Conn, error) {
		fake := testutil.NewScriptedQuerier()
		fake.RowsFor("information_schema", [][]any{{"raw_customers"}, {"raw_items"}, {"raw_orders"}})
		return fake, nil
	}
	p := &Provisioner{Config: cfg, OpenFunc: openFake}

	first, err := p.Provision(context.Background())
	require.NoError(t, err)
	second, err := p.Provision(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Tables, second.Tables)
}
