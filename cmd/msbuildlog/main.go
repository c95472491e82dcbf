// Command msbuildlog extracts compiler and analyzer diagnostics from MSBuild logs.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/msbuildlog/msbuildlog-go/internal/config"
)

var (
	// global flags
	verbose    bool
	configPath string

	// set up by the root command before any subcommand runs
	logger     = slog.New(slog.NewTextHandler(io.Discard, nil))
	fileConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "msbuildlog",
	Short: "Extract diagnostics from MSBuild logs",
	Long: `msbuildlog reads MSBuild console output and emits one record per
compiler or analyzer diagnostic ("error" or "warning").

Records are written as JSON Lines by default, which makes them easy to
process with tools like jq.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Log debug information to stderr")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Config file (.yaml, .yml or .toml)")
}

// setup installs the logger and loads the config file, if any.
func setup(cmd *cobra.Command, args []string) error {
	logger = newLogger(cmd.ErrOrStderr(), verbose).With("run_id", uuid.NewString())

	fileConfig = nil
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		fileConfig = cfg
		logger.Debug("loaded config", "format", cfg.Format, "pattern", cfg.Pattern)
	}
	return nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
