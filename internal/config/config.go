// Package config loads msbuildlog CLI configuration files.
//
// Files are YAML or TOML, chosen by extension:
//
//	version: 1
//	format: pretty
//	pattern: "**/*.log"
//	severities: [error]
//	exclude_rules: [C4996]
//	max_line_bytes: 4194304
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/msbuildlog/msbuildlog-go/internal/logfinder"
	"github.com/msbuildlog/msbuildlog-go/internal/safefile"
	"github.com/msbuildlog/msbuildlog-go/pkg/msbuildlog"
)

const (
	// MaxFileSize is the maximum allowed size for a config file (1MB).
	MaxFileSize = 1 * 1024 * 1024

	// SupportedVersion is the currently supported config file format version.
	SupportedVersion = 1
)

// Output formats understood by the CLI.
const (
	FormatJSONL   = "jsonl"
	FormatPretty  = "pretty"
	FormatMsgpack = "msgpack"
)

// Formats lists all valid output formats.
var Formats = []string{FormatJSONL, FormatPretty, FormatMsgpack}

// ValidFormat reports whether f is a known output format.
func ValidFormat(f string) bool {
	return slices.Contains(Formats, f)
}

// Syntax identifies the encoding of a config file.
type Syntax int

const (
	SyntaxYAML Syntax = iota
	SyntaxTOML
)

// ErrUnsupportedSyntax is returned for config files with an unknown extension.
var ErrUnsupportedSyntax = errors.New("unsupported config file extension (want .yaml, .yml or .toml)")

// Config is the on-disk CLI configuration. Zero values mean "use the default".
type Config struct {
	Version      int      `yaml:"version" toml:"version"`
	Format       string   `yaml:"format" toml:"format"`
	Pattern      string   `yaml:"pattern" toml:"pattern"`
	Severities   []string `yaml:"severities" toml:"severities"`
	IncludeRules []string `yaml:"include_rules" toml:"include_rules"`
	ExcludeRules []string `yaml:"exclude_rules" toml:"exclude_rules"`
	MaxLineBytes int      `yaml:"max_line_bytes" toml:"max_line_bytes"`
}

// ValidationError represents a schema-level validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// SyntaxFor returns the syntax implied by a file's extension.
func SyntaxFor(path string) (Syntax, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SyntaxYAML, nil
	case ".toml":
		return SyntaxTOML, nil
	default:
		return 0, ErrUnsupportedSyntax
	}
}

// Load reads, decodes and validates a config file.
//
// The file must be a regular file no larger than MaxFileSize. Errors never
// include the path.
func Load(path string) (*Config, error) {
	syntax, err := SyntaxFor(path)
	if err != nil {
		return nil, err
	}

	f, r, err := safefile.OpenLimited(path, MaxFileSize)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", safefile.SanitizePathError(err))
	}
	defer f.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", safefile.SanitizePathError(err))
	}

	return LoadBytes(data, syntax)
}

// LoadBytes decodes and validates config data. Unknown keys are rejected.
func LoadBytes(data []byte, syntax Syntax) (*Config, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("config file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var cfg Config
	switch syntax {
	case SyntaxYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case SyntaxTOML:
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse TOML: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, ErrUnsupportedSyntax
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values. Pattern is compiled to catch bad globs early.
func (c *Config) Validate() error {
	if c.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", c.Version, SupportedVersion),
		}
	}
	if c.Format != "" && !ValidFormat(c.Format) {
		return &ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("unknown format %q (valid: %s)", c.Format, strings.Join(Formats, ", ")),
		}
	}
	if c.Pattern != "" {
		if _, err := logfinder.Compile(c.Pattern); err != nil {
			return &ValidationError{Field: "pattern", Message: err.Error()}
		}
	}
	for _, s := range c.Severities {
		if !msbuildlog.Severity(s).Valid() {
			return &ValidationError{
				Field:   "severities",
				Message: fmt.Sprintf("unknown severity %q", s),
			}
		}
	}
	for _, field := range []struct {
		name  string
		rules []string
	}{
		{"include_rules", c.IncludeRules},
		{"exclude_rules", c.ExcludeRules},
	} {
		if slices.Contains(field.rules, "") {
			return &ValidationError{Field: field.name, Message: "rule ids must not be empty"}
		}
	}
	if c.MaxLineBytes < 0 {
		return &ValidationError{
			Field:   "max_line_bytes",
			Message: fmt.Sprintf("must not be negative, got %d", c.MaxLineBytes),
		}
	}
	return nil
}

// ParseOptions converts the filter and limit settings into parse options.
func (c *Config) ParseOptions() []msbuildlog.ParseOption {
	var opts []msbuildlog.ParseOption
	if len(c.Severities) > 0 {
		sev := make([]msbuildlog.Severity, len(c.Severities))
		for i, s := range c.Severities {
			sev[i] = msbuildlog.Severity(s)
		}
		opts = append(opts, msbuildlog.WithSeverities(sev...))
	}
	if len(c.IncludeRules) > 0 {
		opts = append(opts, msbuildlog.WithIncludeRules(c.IncludeRules...))
	}
	if len(c.ExcludeRules) > 0 {
		opts = append(opts, msbuildlog.WithExcludeRules(c.ExcludeRules...))
	}
	if c.MaxLineBytes > 0 {
		opts = append(opts, msbuildlog.WithMaxLineBytes(c.MaxLineBytes))
	}
	return opts
}
