package msbuildlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/msbuildlog/msbuildlog-go/internal/logfinder"
	"github.com/msbuildlog/msbuildlog-go/internal/safefile"
)

// ParseReader parses build output read from r.
// analyzerResult is the path the output came from; relative source paths are
// resolved against its directory.
func ParseReader(ctx context.Context, r io.Reader, analyzerResult string, opts ...ParseOption) ([]Diagnostic, error) {
	cfg := applyParseOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return parseReader(ctx, r, analyzerResult, cfg)
}

func parseReader(ctx context.Context, r io.Reader, analyzerResult string, cfg *parseConfig) ([]Diagnostic, error) {
	it := NewReaderIterator(r, cfg.maxLineBytes)
	diags, err := newParser(analyzerResult, cfg).ParseLines(ctx, it)
	if err != nil {
		return diags, err
	}
	if err := it.Err(); err != nil {
		return diags, err
	}
	return diags, nil
}

// ParseFile returns an iterator over the diagnostics in the build log at path.
// The file path is the invocation context for relative source paths.
//
// The file is opened lazily when iteration starts and closed when it ends.
// Errors (open failures, read failures, cancellation) are yielded once as a
// *ParseError, after which iteration stops.
//
// Example:
//
//	for d, err := range msbuildlog.ParseFile(ctx, "build.log") {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Printf("%s(%d,%d): %s %s\n", d.Path(), d.Line, d.Column, d.Severity, d.RuleID)
//	}
func ParseFile(ctx context.Context, path string, opts ...ParseOption) iter.Seq2[Diagnostic, error] {
	return func(yield func(Diagnostic, error) bool) {
		cfg := applyParseOptions(opts)
		if err := cfg.validate(); err != nil {
			yield(Diagnostic{}, fmt.Errorf("invalid options: %w", err))
			return
		}

		f, r, err := safefile.OpenLimited(path, cfg.maxFileBytes)
		if err != nil {
			yield(Diagnostic{}, &ParseError{Path: path, Err: safefile.SanitizePathError(err)})
			return
		}
		defer f.Close()

		it := NewReaderIterator(r, cfg.maxLineBytes)
		for d, err := range newParser(path, cfg).All(ctx, it) {
			if err != nil {
				yield(Diagnostic{}, &ParseError{Path: path, Err: err})
				return
			}
			if !yield(d, nil) {
				return
			}
		}
		if err := it.Err(); err != nil {
			yield(Diagnostic{}, &ParseError{Path: path, Err: safefile.SanitizePathError(err)})
		}
	}
}

// ParseFileAll parses the build log at path and returns all diagnostics.
// On error the diagnostics collected before the failure are returned with it.
func ParseFileAll(ctx context.Context, path string, opts ...ParseOption) ([]Diagnostic, error) {
	var out []Diagnostic
	for d, err := range ParseFile(ctx, path, opts...) {
		if err != nil {
			return out, err
		}
		out = append(out, d)
	}
	return out, nil
}

// FileResult holds the diagnostics of one log file parsed by ParseDir.
type FileResult struct {
	// Path is the log file path.
	Path string

	// Diagnostics holds the file's diagnostics. File handles are deduplicated
	// within this result only: every log file is its own session.
	Diagnostics []Diagnostic

	// Files is the session's FileCache.
	Files *FileCache

	// Err is the *ParseError for this file, if any.
	Err error
}

// ParseDir parses every log file below dir whose relative, slash-separated path
// matches the glob pattern ("" means "**/*.log").
// Files are parsed concurrently, each in its own session. Results are sorted by path.
//
// Failed files have FileResult.Err set and are also reported in the returned
// error (joined). With WithStopOnError(true), the first failure cancels the rest
// and ParseDir returns nil results with that error.
//
// Returns ErrNoLogFiles if no file matches and ErrInvalidPattern for a bad pattern.
func ParseDir(ctx context.Context, dir, pattern string, opts ...ParseOption) ([]FileResult, error) {
	cfg := applyParseOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	m, err := logfinder.Compile(pattern)
	if err != nil {
		return nil, err
	}
	paths, err := logfinder.FindLogFiles(dir, m)
	if err != nil {
		return nil, err
	}
	cfg.logger.Debug("parsing log directory", "dir", dir, "pattern", m.Pattern(), "files", len(paths))

	results := make([]FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)

	for i, path := range paths {
		g.Go(func() error {
			// Each file is a session of its own, never share a cache across goroutines
			fileCfg := *cfg
			fileCfg.cache = NewFileCache()

			diags, err := ParseFileAll(gctx, path, withConfig(&fileCfg))
			results[i] = FileResult{
				Path:        path,
				Diagnostics: diags,
				Files:       fileCfg.cache,
				Err:         err,
			}
			if err != nil {
				cfg.logger.Debug("failed to parse log file", "path", path, "error", err)
				if cfg.stopOnError {
					return err
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return results, errors.Join(errs...)
}

// withConfig replaces the whole configuration with cfg.
func withConfig(cfg *parseConfig) ParseOption {
	return func(c *parseConfig) {
		*c = *cfg
	}
}
