package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeArtifact creates a placeholder file, with parent directories, at
// path.
func writeArtifact(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0o644))
}

func TestStatusAllMissing(t *testing.T) {
	root := t.TempDir()

	out, err := runCLI(t, "--root", root, "status")
	require.NoError(t, err, "status always exits 0")

	assert.Contains(t, out, "✗ build/debug/semantic_views.duckdb_extension")
	assert.Contains(t, out, "✗ test/data/test_catalog.duckdb")
	assert.Contains(t, out, "✗ test/data/jaffle.ducklake")
	assert.Contains(t, out, "✗ test/data/seeds/raw_orders.csv")
	assert.Contains(t, out, "✗ test/data/seeds/raw_customers.csv")
	assert.Contains(t, out, "✗ test/data/seeds/raw_items.csv")
	assert.NotContains(t, out, "✓")
	assert.Contains(t, out, "Run the following first:")
	assert.Contains(t, out, "lakecheck setup")
}

func TestStatusMixed(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, filepath.Join(root, "build", "debug", "semantic_views.duckdb_extension"))
	writeArtifact(t, filepath.Join(root, "test", "data", "seeds", "raw_orders.csv"))

	out, err := runCLI(t, "--root", root, "status")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ build/debug/semantic_views.duckdb_extension")
	assert.Contains(t, out, "✓ test/data/seeds/raw_orders.csv")
	assert.Contains(t, out, "✗ test/data/test_catalog.duckdb")
	assert.Contains(t, out, "✗ test/data/seeds/raw_customers.csv")
	assert.Contains(t, out, "Run the following first:")
}

func TestStatusAllPresent(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, filepath.Join(root, "build", "debug", "semantic_views.duckdb_extension"))
	writeArtifact(t, filepath.Join(root, "test", "data", "test_catalog.duckdb"))
	writeArtifact(t, filepath.Join(root, "test", "data", "jaffle.ducklake"))
	writeArtifact(t, filepath.Join(root, "test", "data", "seeds", "raw_orders.csv"))
	writeArtifact(t, filepath.Join(root, "test", "data", "seeds", "raw_customers.csv"))
	writeArtifact(t, filepath.Join(root, "test", "data", "seeds", "raw_items.csv"))

	out, err := runCLI(t, "--root", root, "status")
	require.NoError(t, err)

	assert.NotContains(t, out, "✗")
	assert.NotContains(t, out, "Run the following first:")
}

func TestStatusHonorsOverrides(t *testing.T) {
	root := t.TempDir()
	override := "extension_path: out/custom.duckdb_extension\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "lakecheck.yaml"), []byte(override), 0o644))
	writeArtifact(t, filepath.Join(root, "out", "custom.duckdb_extension"))

	out, err := runCLI(t, "--root", root, "status")
	require.NoError(t, err)

	assert.Contains(t, out, "✓ out/custom.duckdb_extension")
	assert.NotContains(t, out, "build/debug/semantic_views.duckdb_extension")
}

func TestDisplayPath(t *testing.T) {
	assert.Equal(t, "test/data/seeds/raw_orders.csv",
		displayPath("/proj", "/proj/test/data/seeds/raw_orders.csv"))

	// Paths outside the root stay absolute
	assert.Equal(t, "/elsewhere/ext.duckdb_extension",
		displayPath("/proj", "/elsewhere/ext.duckdb_extension"))
}
