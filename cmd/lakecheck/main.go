// Command lakecheck provisions a DuckLake test catalog from jaffle-shop
// seed data and validates the semantic_views DuckDB extension against it.
package main

import (
	"fmt"
	"os"

	"github.com/semviews/lakecheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
