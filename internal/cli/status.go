package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/semviews/lakecheck/internal/catalog"
)

// Styles
var (
	presentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00CC66")).Bold(true)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true)
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which fixture artifacts exist",
		Long: `Show the presence of every artifact the verify command requires:
the compiled extension, the catalog database, the DuckLake pointer
file, and each cached seed.

Status only inspects the filesystem. It never opens the database and
always exits 0; use verify for the actual checks.

Examples:
  lakecheck status
  lakecheck status --root ./extension`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts, cmd)
		},
	}

	return cmd
}

func runStatus(opts *StatusOptions, cmd *cobra.Command) error {
	w := cmd.OutOrStdout()

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return err
	}

	missing := 0
	for _, path := range catalog.RequiredArtifacts(cfg) {
		mark := presentStyle.Render("✓")
		if _, err := os.Stat(path); err != nil {
			mark = missingStyle.Render("✗")
			missing++
		}
		fmt.Fprintf(w, "%s %s\n", mark, displayPath(cfg.Root, path))
	}
	if missing > 0 {
		fmt.Fprintln(w)
		catalog.WriteRemediation(w)
	}
	return nil
}

// displayPath renders an artifact path relative to the project root when
// it lives under it.
func displayPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
