package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/semviews/lakecheck/internal/catalog"
	"github.com/semviews/lakecheck/internal/config"
	"github.com/semviews/lakecheck/internal/engine"
	"github.com/semviews/lakecheck/internal/harness"
	"github.com/semviews/lakecheck/internal/querysql"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the validation scenarios against the catalog",
		Long: `Run the fixed validation scenario sequence against the provisioned
catalog: define a semantic view, query it with and without dimensions,
explain it, then drop it.

Every prerequisite artifact is checked before the first scenario runs;
a missing one aborts with an itemized report. Scenarios run in order
and independently: a failure is recorded and the run continues. The
exit code reflects only the final tally.

Exit codes:
  0 - All scenarios passed
  1 - Missing prerequisites or one or more scenarios failed

Examples:
  lakecheck verify
  lakecheck verify --root ./extension`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	if missing := catalog.Missing(catalog.RequiredArtifacts(cfg)); len(missing) > 0 {
		catalog.WriteMissingReport(w, missing)
		return NewExitError(ExitFailure, "missing prerequisites")
	}

	if opts.Verbose {
		fmt.Fprintf(w, "catalog: %s\n", cfg.CatalogPath)
		fmt.Fprintf(w, "extension: %s\n", cfg.ExtensionPath)
	}

	db, err := engine.Open(cfg.CatalogPath, engine.Config{
		ExtensionDir:  cfg.ExtensionDir,
		AllowUnsigned: true,
	})
	if err != nil {
		return WrapExitError(ExitFailure, "failed to open catalog database", err)
	}
	defer db.Close()

	if err := bootstrap(cmd.Context(), db, cfg); err != nil {
		return WrapExitError(ExitFailure, "engine bootstrap failed", err)
	}

	tables, err := catalog.Tables(cmd.Context(), db, cfg.CatalogName)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to inspect catalog", err)
	}
	if !slices.Contains(tables, harness.BaseTable) {
		return NewExitError(ExitFailure,
			fmt.Sprintf("table %s.%s not found; run lakecheck setup", cfg.CatalogName, harness.BaseTable))
	}

	runner := &harness.Runner{Out: w}
	report := runner.Run(cmd.Context(), db, harness.CanonicalScenarios(cfg.CatalogName))
	harness.WriteSummary(w, report)

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenario(s) failed", report.Failed))
	}
	return nil
}

// bootstrap prepares the connection for semantic view calls: install and
// load the extension under test, load DuckLake, and attach the catalog.
// All of this is per-connection state in DuckDB.
func bootstrap(ctx context.Context, db *engine.DB, cfg *config.Config) error {
	if err := db.Install(ctx, cfg.ExtensionPath); err != nil {
		return err
	}
	if err := db.Load(ctx, "semantic_views"); err != nil {
		return err
	}
	if err := db.Install(ctx, "ducklake"); err != nil {
		return err
	}
	if err := db.Load(ctx, "ducklake"); err != nil {
		return err
	}
	attach, err := querysql.AttachDuckLake(cfg.LakePath, cfg.CatalogName, cfg.LakeDataDir)
	if err != nil {
		return err
	}
	return db.Execute(ctx, attach)
}
