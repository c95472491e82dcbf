package msbuildlog

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
)

// ParseResult represents the result of parsing a single log line.
type ParseResult struct {
	// Diagnostics contains the diagnostics that passed the configured filters.
	Diagnostics []Diagnostic

	// Matched indicates whether the line was a diagnostic line.
	// This can be true even if Diagnostics is empty (the diagnostic was filtered out).
	Matched bool
}

// Parser parses the MSBuild output of one analyzer invocation.
//
// A Parser is created with the path of the log it reads (the analyzer result);
// relative source paths in the log are resolved against that file's directory.
// Each Parser owns one FileCache unless WithFileCache supplies one, so diagnostics
// from the same Parser that name the same file share one *File.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	driver *Driver
	filter *compiledFilter
	log    *slog.Logger
}

// NewParser creates a Parser for the build log at analyzerResult.
// Options that only apply to files (size limits, concurrency) have no effect,
// but every option is validated: an unknown severity is an error rather than a
// filter that drops everything.
func NewParser(analyzerResult string, opts ...ParseOption) (*Parser, error) {
	cfg := applyParseOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return newParser(analyzerResult, cfg), nil
}

func newParser(analyzerResult string, cfg *parseConfig) *Parser {
	return &Parser{
		driver: NewDriver(analyzerResult, cfg.cache),
		filter: cfg.filter,
		log:    cfg.logger,
	}
}

// AnalyzerResult returns the path of the log this Parser reads.
func (p *Parser) AnalyzerResult() string {
	return p.driver.InvocationContext()
}

// Files returns the FileCache holding every file seen so far.
func (p *Parser) Files() *FileCache {
	return p.driver.Files()
}

// Driver returns the underlying line-stream driver, for callers running their own loop.
func (p *Parser) Driver() *Driver {
	return p.driver
}

// ParseLine parses a single log line.
// Returns ParseResult with Matched=true if the line was a diagnostic line.
// The error is always nil unless ctx is already cancelled.
func (p *Parser) ParseLine(ctx context.Context, line string) (ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return ParseResult{}, err
	}
	d, ok := p.driver.Match(line)
	if !ok {
		return ParseResult{Matched: false}, nil
	}
	if !p.filter.Allows(d) {
		return ParseResult{Matched: true}, nil
	}
	return ParseResult{Diagnostics: []Diagnostic{d}, Matched: true}, nil
}

// All returns an iterator over the diagnostics in it, driving Step until the end of input.
//
// Context Cancellation:
// ctx is checked between lines. On cancellation the iterator yields the context
// error once and stops. Lines are pulled lazily, so breaking out of the loop
// leaves the rest of it unread.
func (p *Parser) All(ctx context.Context, it LineIterator) iter.Seq2[Diagnostic, error] {
	return func(yield func(Diagnostic, error) bool) {
		lines, matched, kept := 0, 0, 0
		defer func() {
			p.log.Debug("parsed build log",
				"analyzer_result", p.AnalyzerResult(),
				"lines", lines,
				"matched", matched,
				"kept", kept,
				"files", p.Files().Len())
		}()

		current := First(it)
		for !current.EOF {
			if err := ctx.Err(); err != nil {
				yield(Diagnostic{}, err)
				return
			}

			var diags []Diagnostic
			diags, current = p.driver.Step(it, current)
			lines++

			for _, d := range diags {
				matched++
				if !p.filter.Allows(d) {
					p.log.Debug("diagnostic filtered", "rule", d.RuleID, "severity", d.Severity)
					continue
				}
				kept++
				if !yield(d, nil) {
					return
				}
			}
		}
	}
}

// ParseLines collects every diagnostic in it.
//
// If ctx is cancelled, ParseLines returns the diagnostics collected so far and the
// context error.
func (p *Parser) ParseLines(ctx context.Context, it LineIterator) ([]Diagnostic, error) {
	var out []Diagnostic
	for d, err := range p.All(ctx, it) {
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, nil
}

// ParseLine parses a single MSBuild output line into a Diagnostic.
// Relative paths are resolved against the directory of analyzerResult.
//
// Return values:
//   - (*Diagnostic, true): the line is a diagnostic
//   - (nil, false): the line is not a diagnostic (not an error)
//
// Example:
//
//	line := `1>src\main.c(10,5): error C2065: 'x': undeclared identifier [C:\proj\app.vcxproj]`
//	d, ok := msbuildlog.ParseLine(line, `C:\proj\build.log`)
//	if ok {
//	    fmt.Printf("%s:%d:%d %s\n", d.Path(), d.Line, d.Column, d.RuleID)
//	}
func ParseLine(line, analyzerResult string) (*Diagnostic, bool) {
	d, ok := NewDriver(analyzerResult, nil).Match(line)
	if !ok {
		return nil, false
	}
	return &d, true
}
