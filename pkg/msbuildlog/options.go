package msbuildlog

import (
	"fmt"
	"io"
	"log/slog"
)

// ParseOption configures a Parser and the ParseFile/ParseDir helpers.
type ParseOption func(*parseConfig)

// parseConfig holds internal configuration for parsing.
type parseConfig struct {
	logger       *slog.Logger
	cache        *FileCache
	filter       *compiledFilter
	maxLineBytes int
	maxFileBytes int64
	concurrency  int
	stopOnError  bool
}

// Default limits for file-backed parsing.
const (
	DefaultMaxFileBytes = 512 * 1024 * 1024 // 512 MB
	DefaultConcurrency  = 4
)

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// defaultParseConfig returns a parseConfig with sensible defaults.
func defaultParseConfig() *parseConfig {
	return &parseConfig{
		logger:       discardLogger,
		maxLineBytes: DefaultMaxLineBytes,
		maxFileBytes: DefaultMaxFileBytes,
		concurrency:  DefaultConcurrency,
	}
}

// applyParseOptions applies functional options to a parseConfig.
func applyParseOptions(opts []ParseOption) *parseConfig {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

// validate checks for invalid option values.
func (c *parseConfig) validate() error {
	if c.maxLineBytes <= 0 {
		return fmt.Errorf("max line bytes must be positive, got %d", c.maxLineBytes)
	}
	if c.maxFileBytes <= 0 {
		return fmt.Errorf("max file bytes must be positive, got %d", c.maxFileBytes)
	}
	if c.concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", c.concurrency)
	}
	if c.filter != nil {
		for s := range c.filter.severities {
			if !s.Valid() {
				return fmt.Errorf("unknown severity %q", s)
			}
		}
	}
	return nil
}

// WithLogger sets a logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) ParseOption {
	return func(c *parseConfig) {
		if logger == nil {
			logger = discardLogger
		}
		c.logger = logger
	}
}

// WithFileCache makes the Parser register files in cache instead of a fresh one.
// The cache must not be shared with a Parser running concurrently.
// ParseDir ignores this option: every file there is its own session.
func WithFileCache(cache *FileCache) ParseOption {
	return func(c *parseConfig) {
		c.cache = cache
	}
}

// WithSeverities keeps only diagnostics with one of the given severities.
// If called multiple times, only the last call takes effect.
func WithSeverities(severities ...Severity) ParseOption {
	return func(c *parseConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.severities = toSet(severities)
	}
}

// WithIncludeRules keeps only diagnostics whose rule id is listed.
// If called multiple times, only the last call takes effect.
func WithIncludeRules(rules ...string) ParseOption {
	return func(c *parseConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.include = toSet(rules)
	}
}

// WithExcludeRules drops diagnostics whose rule id is listed.
// Exclude takes precedence over include.
func WithExcludeRules(rules ...string) ParseOption {
	return func(c *parseConfig) {
		if c.filter == nil {
			c.filter = &compiledFilter{}
		}
		c.filter.exclude = toSet(rules)
	}
}

// WithMaxLineBytes sets the maximum length of a single line when reading files.
// Default is 1MB. Longer lines make the read fail with bufio.ErrTooLong.
func WithMaxLineBytes(max int) ParseOption {
	return func(c *parseConfig) {
		c.maxLineBytes = max
	}
}

// WithMaxFileBytes sets the maximum size of a log file accepted by ParseFile and ParseDir.
// Default is 512MB.
func WithMaxFileBytes(max int64) ParseOption {
	return func(c *parseConfig) {
		c.maxFileBytes = max
	}
}

// WithConcurrency sets how many files ParseDir parses at once. Default is 4.
func WithConcurrency(n int) ParseOption {
	return func(c *parseConfig) {
		c.concurrency = n
	}
}

// WithStopOnError makes ParseDir stop at the first file that fails.
// Default: false (failed files are reported and the rest are still parsed).
func WithStopOnError(stop bool) ParseOption {
	return func(c *parseConfig) {
		c.stopOnError = stop
	}
}

// compiledFilter holds set-based diagnostic filters. Empty sets allow everything.
type compiledFilter struct {
	severities map[Severity]struct{}
	include    map[string]struct{}
	exclude    map[string]struct{}
}

func toSet[T comparable](items []T) map[T]struct{} {
	if len(items) == 0 {
		return nil
	}
	set := make(map[T]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

// Allows reports whether d passes the filter. A nil filter allows everything.
func (f *compiledFilter) Allows(d Diagnostic) bool {
	if f == nil {
		return true
	}
	if _, ok := f.exclude[d.RuleID]; ok {
		return false
	}
	if len(f.severities) > 0 {
		if _, ok := f.severities[d.Severity]; !ok {
			return false
		}
	}
	if len(f.include) > 0 {
		if _, ok := f.include[d.RuleID]; !ok {
			return false
		}
	}
	return true
}
