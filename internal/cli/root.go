// Package cli provides the command-line interface for logz.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logz/internal/cli/commands"
	"github.com/ccollicutt/logz/pkg/config"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	return run(NewRootCommand(), os.Args[1:], os.Stderr)
}

func run(rootCmd *cobra.Command, args []string, stderr io.Writer) int {
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logz",
		Short: "Filter and follow log files",
		Long: `logz reads line-oriented log files, plain or gzip-compressed, and keeps the
lines that pass the given filters.

Every line is enriched with a timestamp (the shortest leading prefix that
parses with --date-format) and a severity level (DEBUG, INFO, WARN, ERROR or
CRITICAL). Filters combine with AND:
  --from-ts / --to-ts   inclusive time bounds
  --level               allowed levels (repeatable)
  --match               substring
  --regex               regular expression

CONFIGURATION:
  Defaults can be set in a YAML or TOML file given with --config or the
  ` + config.EnvConfig + ` environment variable. Flags always win.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String(commands.FlagConfig, "", "Config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().BoolP(commands.FlagVerbose, "v", false, "Verbose output and debug logging on stderr")

	// Add subcommands
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewTailCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
