package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/semviews/lakecheck/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Root    string
	Verbose bool
}

// NewRootCommand creates the root command for the lakecheck CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "lakecheck",
		Short: "Validation harness for the semantic_views DuckDB extension",
		Long:  "Provisions a DuckLake test catalog from jaffle-shop seed data and runs a fixed scenario sequence against the semantic_views extension.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate the project root before any command touches it
			if _, err := os.Stat(opts.Root); err != nil {
				return NewExitError(ExitFailure, fmt.Sprintf("project root not found: %s", opts.Root))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.Root, "root", ".", "project root directory")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewSetupCommand(opts))
	cmd.AddCommand(NewVerifyCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))

	return cmd
}

// loadConfig resolves the project configuration for the current root.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.Root)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid configuration", err)
	}
	return cfg, nil
}
