package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/logz/pkg/ingest"
	"github.com/ccollicutt/logz/pkg/output"
)

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Paths     []string
	Out       string
	Format    string
	Quiet     bool
	FailEmpty bool
	Limit     int
	Filter    FilterOptions
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Filter log files and print the matching lines",
		Long: `Read log files, plain or gzip-compressed, and print the lines that pass
the filters.

Each --path may be a file, a directory (read recursively in name order) or a
glob pattern. Without --path the configured log_sources are used; if there are
none, a single path is read from the first line of standard input.

Exit codes:
  0 - Success
  1 - Nothing matched (only with --fail-empty)
  2 - Configuration or runtime error`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Paths, "path", nil, "File, directory or glob to read (can be repeated)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Write the output to this file instead of stdout")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format (text|json|markdown)")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no records")
	cmd.Flags().BoolVar(&opts.FailEmpty, "fail-empty", false, "Exit with code 1 when no record matched")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Stop after this many matching records (0 means no limit)")
	addFilterFlags(cmd, &opts.Filter)

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions) error {
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

	format := rt.cfg.Output.Format
	if cmd.Flags().Changed("format") {
		format = opts.Format
	}
	formatter, err := output.NewFormatter(format, output.FormatOptions{
		Verbose: rt.verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	paths := rt.paths(opts.Paths)
	if len(paths) == 0 {
		path, err := readPathFromStdin(cmd)
		if err != nil {
			return err
		}
		paths = []string{path}
	}

	result, err := ingest.Run(rt.ctx, paths, spec,
		ingest.WithDateFormat(fc.DateFormat),
		ingest.WithLimit(opts.Limit),
		ingest.WithLogger(rt.logger))
	if err != nil {
		return err
	}

	report := output.NewReport(result, spec)

	if opts.Out == "" {
		if err := formatter.Format(rt.ctx, report, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("formatting output: %w", err)
		}
	} else {
		f, err := os.Create(opts.Out) // #nosec G304 -- user-provided output path is expected
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		if err := writeReport(rt.ctx, formatter, report, f); err != nil {
			return err
		}
		rt.logger.Info("wrote output", zap.String("path", opts.Out), zap.Int("records", len(report.Records)))
	}

	if opts.FailEmpty && !report.HasRecords() {
		ExitCode = 1
	}

	return nil
}

// writeReport formats report into w and closes it. A failed close is an
// error since buffered output may not have reached the file.
func writeReport(ctx context.Context, formatter output.Formatter, report *output.Report, w io.WriteCloser) error {
	if err := formatter.Format(ctx, report, w); err != nil {
		_ = w.Close()
		return fmt.Errorf("formatting output: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}

// readPathFromStdin reads a single path from the first line of stdin.
func readPathFromStdin(cmd *cobra.Command) (string, error) {
	fmt.Fprintln(cmd.ErrOrStderr(), "Reading path from stdin (Ctrl+D to end)...")

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading path from stdin: %w", err)
	}

	path := strings.TrimSpace(line)
	if path == "" {
		return "", errors.New("no path given: use --path or provide one on stdin")
	}
	return path, nil
}
