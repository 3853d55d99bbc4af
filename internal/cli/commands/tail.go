package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ccollicutt/logz/pkg/output"
	"github.com/ccollicutt/logz/pkg/tail"
)

// TailOptions holds command-line options for the tail command.
type TailOptions struct {
	Path      string
	Interval  float64
	FromStart bool
	Notify    bool
	Retry     bool
	JSON      bool
	Filter    FilterOptions
}

// NewTailCommand creates the tail command.
func NewTailCommand() *cobra.Command {
	opts := &TailOptions{}

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Follow a growing log file",
		Long: `Follow a single log file, printing the lines that pass the filters as
they are appended. Existing content is skipped unless --from-start is given.

The file is polled every --interval seconds. When it shrinks or is replaced
(log rotation), following restarts from the beginning of the new content.
Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTail(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Path, "path", "", "File to follow")
	cmd.Flags().Float64Var(&opts.Interval, "interval", tail.DefaultInterval, "Polling interval in seconds")
	cmd.Flags().BoolVar(&opts.FromStart, "from-start", false, "Print the existing content first")
	cmd.Flags().BoolVar(&opts.Notify, "notify", false, "Also wake up on filesystem change events")
	cmd.Flags().BoolVar(&opts.Retry, "retry", false, "Keep following when the file cannot be read")
	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print one JSON object per line")
	addFilterFlags(cmd, &opts.Filter)
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

// settings merges the flags that were set over the tail section of cfg.
func (o *TailOptions) settings(cmd *cobra.Command, rt *runtime) TailOptions {
	merged := *o
	flags := cmd.Flags()

	if !flags.Changed("interval") {
		merged.Interval = rt.cfg.Tail.Interval
	}
	if !flags.Changed("from-start") {
		merged.FromStart = rt.cfg.Tail.FromStart
	}
	if !flags.Changed("notify") {
		merged.Notify = rt.cfg.Tail.Notify
	}
	if !flags.Changed("retry") {
		merged.Retry = rt.cfg.Tail.Retry
	}

	return merged
}

func runTail(cmd *cobra.Command, opts *TailOptions) error {
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

	o := opts.settings(cmd, rt)

	followerOpts := []tail.Option{
		tail.WithInterval(o.Interval),
		tail.WithFromStart(o.FromStart),
		tail.WithNotify(o.Notify),
		tail.WithFilter(spec),
		tail.WithDateFormat(fc.DateFormat),
		tail.WithLogger(rt.logger),
	}
	if o.Retry {
		followerOpts = append(followerOpts, tail.WithErrorHandler(func(error) error { return nil }))
	}

	follower, err := tail.New(o.Path, followerOpts...)
	if err != nil {
		return err
	}
	defer follower.Close()

	var renderer output.Renderer = output.NewTextRenderer(cmd.OutOrStdout())
	if o.JSON {
		renderer = output.NewJSONRenderer(cmd.OutOrStdout())
	}

	ctx, stop := signal.NotifyContext(rt.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt.logger.Debug("tail starting",
		zap.String("path", o.Path),
		zap.Float64("interval", o.Interval),
		zap.Bool("from_start", o.FromStart))

	return follower.Follow(ctx, renderer.Render)
}
