package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/semviews/lakecheck/internal/catalog"
	"github.com/semviews/lakecheck/internal/seed"
)

// SetupOptions holds flags for the setup command.
type SetupOptions struct {
	*RootOptions
}

// NewSetupCommand creates the setup command.
func NewSetupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetupOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Download seed data and rebuild the catalog fixture",
		Long: `Download the jaffle-shop seed files and rebuild the DuckLake catalog.

Seeds already in the local cache are reused without revalidation. The
catalog fixture is torn down and rebuilt from scratch on every run, so
setup is safe to repeat and recovers from a previously failed run.

Exit codes:
  0 - Fixture provisioned
  1 - Seed download or provisioning failed

Examples:
  lakecheck setup
  lakecheck setup --root ./extension
  lakecheck setup -v`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(opts, cmd)
		},
	}

	return cmd
}

func runSetup(opts *SetupOptions, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	seeds := make([]seed.Seed, len(cfg.Seeds))
	for i, filename := range cfg.Seeds {
		seeds[i] = seed.Seed{Filename: filename, URL: cfg.SeedURL(filename)}
	}
	fetcher := &seed.Fetcher{CacheDir: cfg.SeedDir, Out: w}
	stats, err := fetcher.Ensure(cmd.Context(), seeds)
	if err != nil {
		return WrapExitError(ExitFailure, "seed fetch failed", err)
	}
	if opts.Verbose {
		fmt.Fprintf(w, "Seeds: %d downloaded, %d cached\n", stats.Downloaded, stats.Cached)
	}

	prov := &catalog.Provisioner{Config: cfg, Out: w}
	fixture, err := prov.Provision(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "provisioning failed", err)
	}

	fmt.Fprintf(w, "Fixture ready: %d tables in catalog %s\n", len(fixture.Tables), cfg.CatalogName)
	return nil
}
