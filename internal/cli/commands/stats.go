package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logz/pkg/ingest"
	"github.com/ccollicutt/logz/pkg/output"
)

// StatsOptions holds command-line options for the stats command.
type StatsOptions struct {
	Paths     []string
	Format    string
	FailEmpty bool
	Filter    FilterOptions
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the matching log lines",
		Long: `Read log files and report how many lines passed the filters, broken
down by level and source file, with the earliest and latest timestamps seen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Paths, "path", nil, "File, directory or glob to read (can be repeated)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format (json|markdown)")
	cmd.Flags().BoolVar(&opts.FailEmpty, "fail-empty", false, "Exit with code 1 when no record matched")
	addFilterFlags(cmd, &opts.Filter)

	return cmd
}

func runStats(cmd *cobra.Command, opts *StatsOptions) error {
	ExitCode = 0

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = rt.logger.Sync() }()

	spec, fc, err := rt.buildFilter(cmd, &opts.Filter)
	if err != nil {
		return err
	}

	format := rt.cfg.Output.StatsFormat
	if cmd.Flags().Changed("format") {
		format = opts.Format
	}
	formatter, err := output.NewStatsFormatter(format, output.FormatOptions{Verbose: rt.verbose})
	if err != nil {
		return err
	}

	paths := rt.paths(opts.Paths)
	if len(paths) == 0 {
		return errors.New("no path given: use --path or set log_sources in the config file")
	}

	result, err := ingest.Run(rt.ctx, paths, spec,
		ingest.WithDateFormat(fc.DateFormat),
		ingest.WithLogger(rt.logger))
	if err != nil {
		return err
	}

	report := output.NewStatsReport(result, spec)
	if err := formatter.FormatStats(rt.ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if opts.FailEmpty && report.Summary.Total == 0 {
		ExitCode = 1
	}

	return nil
}
