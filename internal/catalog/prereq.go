package catalog

import (
	"fmt"
	"io"
	"os"

	"github.com/semviews/lakecheck/internal/config"
)

// RequiredArtifacts lists every on-disk artifact the verification run
// needs: the compiled extension, the provisioned catalog database, the
// DuckLake pointer file, and each cached seed.
func RequiredArtifacts(cfg *config.Config) []string {
	paths := []string{cfg.ExtensionPath, cfg.CatalogPath, cfg.LakePath}
	for _, filename := range cfg.Seeds {
		paths = append(paths, cfg.SeedPath(filename))
	}
	return paths
}

// Missing returns the subset of paths that do not exist, in the order
// given.
func Missing(paths []string) []string {
	var missing []string
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	return missing
}

// WriteMissingReport prints the itemized prerequisite failures together
// with the commands that produce each artifact.
func WriteMissingReport(w io.Writer, missing []string) {
	fmt.Fprintln(w, "ERROR: Missing prerequisites:")
	for _, path := range missing {
		fmt.Fprintf(w, "  - %s\n", path)
	}
	fmt.Fprintln(w)
	WriteRemediation(w)
}

// WriteRemediation prints the commands that produce the fixture
// artifacts.
func WriteRemediation(w io.Writer) {
	fmt.Fprintln(w, "Run the following first:")
	fmt.Fprintln(w, "  make debug          # build the semantic_views extension")
	fmt.Fprintln(w, "  lakecheck setup     # download seed data and provision the DuckLake catalog")
}
