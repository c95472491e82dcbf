package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/msbuildlog/msbuildlog-go/internal/config"
	"github.com/msbuildlog/msbuildlog-go/internal/logfinder"
	"github.com/msbuildlog/msbuildlog-go/pkg/msbuildlog"
)

var (
	// parse flags
	parseFilter filterFlags
	pattern     string
	concurrency int
	stopOnError bool
	showSummary bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <file|dir>...",
	Short: "Extract diagnostics from build logs",
	Long: `Parse MSBuild log files and output one record per diagnostic.

Directories are searched recursively for files matching --pattern.
Every log file is parsed independently.

Examples:
  # Parse a single log
  msbuildlog parse build.log

  # Parse every log below a CI artifacts directory, errors only
  msbuildlog parse artifacts/ --severity error

  # Human-readable output, hiding a noisy rule
  msbuildlog parse build.log --format pretty --exclude-rules C4996

  # Count diagnostics per rule with jq
  msbuildlog parse build.log | jq -s 'group_by(.rule_id) | map({(.[0].rule_id): length}) | add'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(cmd, fileConfig, &parseFilter)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("pattern") || cfg.Pattern == "" {
			cfg.Pattern = pattern
		}
		return runParse(cmd.Context(), cfg, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	parseFilter.register(parseCmd)
	parseCmd.Flags().StringVarP(&pattern, "pattern", "p", logfinder.DefaultPattern,
		"Glob for log files inside directories (** matches across directories)")
	parseCmd.Flags().IntVarP(&concurrency, "jobs", "j", msbuildlog.DefaultConcurrency,
		"Number of log files parsed in parallel")
	parseCmd.Flags().BoolVar(&stopOnError, "stop-on-error", false,
		"Stop at the first log file that cannot be read")
	parseCmd.Flags().BoolVar(&showSummary, "summary", false,
		"Print a diagnostic count to stderr when done")

	rootCmd.AddCommand(parseCmd)
}

func runParse(ctx context.Context, cfg *config.Config, args []string, out, errOut io.Writer) error {
	opts := append(cfg.ParseOptions(),
		msbuildlog.WithLogger(logger),
		msbuildlog.WithConcurrency(concurrency),
		msbuildlog.WithStopOnError(stopOnError),
	)

	var (
		sum  summary
		errs []error
	)
	emit := func(logPath string, diags []msbuildlog.Diagnostic) error {
		sum.files++
		for _, d := range diags {
			sum.add(d)
			if err := OutputRecord(cfg.Format, newRecord(logPath, d), out); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}
		return nil
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}

		if info.IsDir() {
			results, err := msbuildlog.ParseDir(ctx, arg, cfg.Pattern, opts...)
			for _, r := range results {
				if r.Err != nil {
					continue
				}
				if err := emit(r.Path, r.Diagnostics); err != nil {
					return err
				}
			}
			if err != nil {
				if stopOnError || len(results) == 0 {
					return fmt.Errorf("%s: %w", arg, err)
				}
				errs = append(errs, err)
			}
			continue
		}

		diags, err := msbuildlog.ParseFileAll(ctx, arg, opts...)
		if err != nil {
			if stopOnError {
				return err
			}
			errs = append(errs, err)
			continue
		}
		if err := emit(arg, diags); err != nil {
			return err
		}
	}

	for _, err := range errs {
		logger.Debug("log file skipped", "error", err)
	}
	if showSummary {
		fmt.Fprintln(errOut, sum.String())
	}
	return errors.Join(errs...)
}
