package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ccollicutt/logz/pkg/config"
	"github.com/ccollicutt/logz/pkg/filter"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// Persistent flag names registered on the root command.
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
)

// FilterOptions holds the record filter flags shared by every command.
type FilterOptions struct {
	DateFormat string
	From       string
	To         string
	Levels     []string
	Match      string
	Regex      string
}

func addFilterFlags(cmd *cobra.Command, opts *FilterOptions) {
	cmd.Flags().StringVar(&opts.DateFormat, "date-format", "", "Go time layout of timestamps in log lines (default \"2006-01-02 15:04:05\")")
	cmd.Flags().StringVar(&opts.From, "from-ts", "", "Only keep records at or after this time (in --date-format)")
	cmd.Flags().StringVar(&opts.To, "to-ts", "", "Only keep records at or before this time (in --date-format)")
	cmd.Flags().StringSliceVar(&opts.Levels, "level", nil, "Only keep records with this level (can be repeated)")
	cmd.Flags().StringVar(&opts.Match, "match", "", "Only keep lines containing this text")
	cmd.Flags().StringVar(&opts.Regex, "regex", "", "Only keep lines matching this regular expression")
}

// settings merges the flags that were set on the command line over the
// filter defaults from cfg.
func (o *FilterOptions) settings(cmd *cobra.Command, cfg *config.Config) filter.Config {
	fc := cfg.FilterSettings()
	flags := cmd.Flags()

	if flags.Changed("date-format") {
		fc.DateFormat = o.DateFormat
	}
	if flags.Changed("from-ts") {
		fc.From = o.From
	}
	if flags.Changed("to-ts") {
		fc.To = o.To
	}
	if flags.Changed("level") {
		fc.Levels = o.Levels
	}
	if flags.Changed("match") {
		fc.Match = o.Match
	}
	if flags.Changed("regex") {
		fc.Regex = o.Regex
	}

	return fc
}

// runtime is the state every command starts from.
type runtime struct {
	ctx        context.Context
	cfg        *config.Config
	configPath string
	logger     *zap.Logger
	verbose    bool
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath := os.Getenv(config.EnvConfig)
	if f := cmd.Flags().Lookup(FlagConfig); f != nil && f.Changed {
		configPath = f.Value.String()
	}

	verbose := false
	if f := cmd.Flags().Lookup(FlagVerbose); f != nil {
		verbose = f.Value.String() == "true"
	}

	logger, err := NewLogger(verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if configPath != "" {
		logger.Debug("loaded config", zap.String("path", configPath))
	}

	return &runtime{
		ctx:        ctx,
		cfg:        cfg,
		configPath: configPath,
		logger:     logger,
		verbose:    verbose,
	}, nil
}

// buildFilter compiles the effective filter for cmd.
func (rt *runtime) buildFilter(cmd *cobra.Command, opts *FilterOptions) (*filter.Spec, filter.Config, error) {
	fc := opts.settings(cmd, rt.cfg)
	spec, err := filter.Build(fc)
	if err != nil {
		return nil, fc, err
	}

	if spec.Unsatisfiable() {
		rt.logger.Warn("--from-ts is later than --to-ts, no record can match",
			zap.String("from", fc.From), zap.String("to", fc.To))
	}
	rt.logger.Debug("filter built", zap.Stringer("filter", spec))

	return spec, fc, nil
}

// paths returns the command-line paths, or the configured log sources.
func (rt *runtime) paths(flagPaths []string) []string {
	if len(flagPaths) > 0 {
		return flagPaths
	}
	return rt.cfg.LogSources
}

// NewLogger builds the diagnostic logger. Diagnostics go to stderr so they
// never mix with record output.
func NewLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	return cfg.Build()
}
