package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/msbuildlog/msbuildlog-go/internal/config"
	"github.com/msbuildlog/msbuildlog-go/internal/logfinder"
	"github.com/msbuildlog/msbuildlog-go/internal/tailer"
	"github.com/msbuildlog/msbuildlog-go/pkg/msbuildlog"
)

var (
	// tail flags
	tailFilter filterFlags
	logDir     string
	fromStart  bool
	poll       bool
)

var tailCmd = &cobra.Command{
	Use:   "tail [file]",
	Short: "Follow a build log and output diagnostics as they appear",
	Long: `Follow a growing MSBuild log and output diagnostics in real-time.

Without a file argument, the most recently modified log in --log-dir
(or $` + logfinder.EnvLogDir + `, or the current directory) is followed.

Examples:
  # Follow the newest log in the current directory
  msbuildlog tail

  # Follow a specific log from its beginning
  msbuildlog tail build.log --from-start

  # Follow the newest log on a network share
  msbuildlog tail --log-dir //buildsrv/logs --poll --format pretty`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := effectiveConfig(cmd, fileConfig, &tailFilter)
		if err != nil {
			return err
		}

		path, err := tailTarget(args, cfg.Pattern)
		if err != nil {
			return err
		}
		return runTail(cmd.Context(), cfg, path, tailer.Config{
			FromStart: fromStart,
			Poll:      poll,
			ReOpen:    true,
		}, cmd.OutOrStdout())
	},
}

func init() {
	tailFilter.register(tailCmd)
	tailCmd.Flags().StringVarP(&logDir, "log-dir", "d", "",
		"Directory holding build logs (used when no file is given)")
	tailCmd.Flags().BoolVar(&fromStart, "from-start", false,
		"Output diagnostics already in the file before following it")
	tailCmd.Flags().BoolVar(&poll, "poll", false,
		"Poll for changes instead of using filesystem notifications")

	rootCmd.AddCommand(tailCmd)
}

// tailTarget returns the file to follow: the argument, or the newest log file.
func tailTarget(args []string, pattern string) (string, error) {
	if len(args) == 1 {
		return filepath.Abs(args[0])
	}

	dir, err := logfinder.FindLogDir(logDir)
	if err != nil {
		return "", err
	}
	m, err := logfinder.Compile(pattern)
	if err != nil {
		return "", err
	}
	return logfinder.FindLatestLogFile(dir, m)
}

func runTail(ctx context.Context, cfg *config.Config, path string, tcfg tailer.Config, out io.Writer) error {
	t, err := tailer.New(ctx, path, tcfg)
	if err != nil {
		return fmt.Errorf("failed to follow log: %w", err)
	}
	defer t.Stop()

	logger.Debug("following log", "path", path, "from_start", tcfg.FromStart)

	// Lines are parsed one at a time: Step would hold the last record back until
	// the build writes another line.
	p, err := msbuildlog.NewParser(path, append(cfg.ParseOptions(), msbuildlog.WithLogger(logger))...)
	if err != nil {
		return err
	}

	lines, errs := t.Lines(), t.Errors()
	for {
		select {
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			res, err := p.ParseLine(ctx, line)
			if err != nil {
				return nil
			}
			for _, d := range res.Diagnostics {
				if err := OutputRecord(cfg.Format, newRecord(path, d), out); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
			}

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			logger.Warn("read error", "error", err)

		case <-ctx.Done():
			return nil
		}
	}
}
