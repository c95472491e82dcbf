package main

import (
	"github.com/spf13/cobra"

	"github.com/msbuildlog/msbuildlog-go/internal/config"
	"github.com/msbuildlog/msbuildlog-go/pkg/msbuildlog"
)

// filterFlags are the output and filter flags shared by parse and tail.
type filterFlags struct {
	format       string
	severities   []string
	includeRules []string
	excludeRules []string
	maxLineBytes int
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", config.FormatJSONL,
		"Output format: jsonl, pretty, msgpack")
	cmd.Flags().StringSliceVarP(&f.severities, "severity", "s", nil,
		"Severities to show (comma-separated: error,warning)")
	cmd.Flags().StringSliceVarP(&f.includeRules, "rules", "r", nil,
		"Only show these rule ids (comma-separated)")
	cmd.Flags().StringSliceVarP(&f.excludeRules, "exclude-rules", "x", nil,
		"Hide these rule ids (comma-separated)")
	cmd.Flags().IntVar(&f.maxLineBytes, "max-line-bytes", msbuildlog.DefaultMaxLineBytes,
		"Maximum length of a single log line")
}

// effectiveConfig merges the config file with the flags. Flags set on the
// command line win over file values; defaults never override them.
func effectiveConfig(cmd *cobra.Command, file *config.Config, f *filterFlags) (*config.Config, error) {
	cfg := config.Config{Version: config.SupportedVersion, Format: config.FormatJSONL}
	if file != nil {
		cfg = *file
		if cfg.Format == "" {
			cfg.Format = config.FormatJSONL
		}
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = f.format
	}
	if flags.Changed("severity") {
		cfg.Severities = f.severities
	}
	if flags.Changed("rules") {
		cfg.IncludeRules = f.includeRules
	}
	if flags.Changed("exclude-rules") {
		cfg.ExcludeRules = f.excludeRules
	}
	if flags.Changed("max-line-bytes") {
		cfg.MaxLineBytes = f.maxLineBytes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
