package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logz/pkg/source"
)

// ValidateOptions holds command-line options for the validate command.
type ValidateOptions struct {
	Paths  []string
	Filter FilterOptions
}

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration, filters and paths",
		Long: `Validate the configuration file, filter flags and log paths without
reading any log content.

Checks:
  - Config file syntax (YAML or TOML)
  - Date format and filter bounds
  - Regex pattern validity
  - Log paths exist (directories are walked, symlink cycles reported)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Paths, "path", nil, "File, directory or glob to check (can be repeated)")
	addFilterFlags(cmd, &opts.Filter)

	return cmd
}

func runValidate(cmd *cobra.Command, opts *ValidateOptions) error {
	ExitCode = 0
	w := cmd.OutOrStdout()

	rt, err := newRuntime(cmd)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	defer func() { _ = rt.logger.Sync() }()

	if rt.configPath != "" {
		fmt.Fprintf(w, "Validating %s...\n", rt.configPath)
	}

	spec, fc, err := rt.buildFilter(cmd, &opts.Filter)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(w, "\nConfiguration valid!\n")
	fmt.Fprintf(w, "  Date format: %s\n", fc.DateFormat)
	fmt.Fprintf(w, "  Filter:      %s\n", spec)
	if spec.Unsatisfiable() {
		fmt.Fprintf(w, "\nWarning: --from-ts is later than --to-ts, no record can match\n")
	}

	paths := rt.paths(opts.Paths)
	if len(paths) == 0 {
		fmt.Fprintf(w, "\nNo log paths to check\n")
		return nil
	}

	files, err := source.ResolveAll(paths)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	if len(files) == 0 {
		fmt.Fprintf(w, "\nWarning: No log files found under %v\n", paths)
		return nil
	}

	fmt.Fprintf(w, "\nLog files found: %d\n", len(files))
	for _, f := range files {
		if f.Gzip {
			fmt.Fprintf(w, "  - %s (gzip)\n", f.Path)
		} else {
			fmt.Fprintf(w, "  - %s\n", f.Path)
		}
	}

	return nil
}
