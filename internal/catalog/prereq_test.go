package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredArtifactsCoversFixture(t *testing.T) {
	cfg := testConfig(t)

	paths := RequiredArtifacts(cfg)

	require.Len(t, paths, 6)
	assert.Equal(t, cfg.ExtensionPath, paths[0])
	assert.Equal(t, cfg.CatalogPath, paths[1])
	assert.Equal(t, cfg.LakePath, paths[2])
	assert.Equal(t, cfg.SeedPath("raw_orders.csv"), paths[3])
	assert.Equal(t, cfg.SeedPath("raw_customers.csv"), paths[4])
	assert.Equal(t, cfg.SeedPath("raw_items.csv"), paths[5])
}

func TestMissingReportsEverythingOnEmptyTree(t *testing.T) {
	cfg := testConfig(t)

	missing := Missing(RequiredArtifacts(cfg))

	assert.Len(t, missing, 6)
}

func TestMissingEmptyWhenAllPresent(t *testing.T) {
	cfg := testConfig(t)
	for _, path := range RequiredArtifacts(cfg) {
		writeFile(t, path)
	}

	assert.Empty(t, Missing(RequiredArtifacts(cfg)))
}

func TestMissingPreservesOrder(t *testing.T) {
	cfg := testConfig(t)
	writeFile(t, cfg.CatalogPath)
	writeFile(t, cfg.SeedPath("raw_customers.csv"))

	missing := Missing(RequiredArtifacts(cfg))

	require.Len(t, missing, 4)
	assert.Equal(t, cfg.ExtensionPath, missing[0])
	assert.Equal(t, cfg.LakePath, missing[1])
	assert.Equal(t, cfg.SeedPath("raw_orders.csv"), missing[2])
	assert.Equal(t, cfg.SeedPath("raw_items.csv"), missing[3])
}

func TestWriteMissingReport(t *testing.T) {
	var buf bytes.Buffer

	WriteMissingReport(&buf, []string{"/work/build/debug/semantic_views.duckdb_extension", "/work/test/data/test_catalog.duckdb"})

	want := "ERROR: Missing prerequisites:\n" +
		"  - /work/build/debug/semantic_views.duckdb_extension\n" +
		"  - /work/test/data/test_catalog.duckdb\n" +
		"\n" +
		"Run the following first:\n" +
		"  make debug          # build the semantic_views extension\n" +
		"  lakecheck setup     # download seed data and provision the DuckLake catalog\n"
	assert.Equal(t, want, buf.String())
}
