// Package logfinder provides build log discovery in directory trees.
package logfinder

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// EnvLogDir is the environment variable name for specifying the log directory.
const EnvLogDir = "MSBUILDLOG_DIR"

// DefaultPattern matches build logs anywhere below the search root.
const DefaultPattern = "**/*.log"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
	ErrInvalidPattern = errors.New("invalid log file pattern")
)

// Matcher matches slash-separated paths relative to a search root.
//
// A pattern starting with "**/" also matches files directly in the root,
// so "**/*.log" matches both "build.log" and "x64/Release/build.log".
type Matcher struct {
	pattern string
	glob    glob.Glob
	root    glob.Glob // pattern without its "**/" prefix, nil if none
}

// Compile compiles a glob pattern. '*' does not cross '/', '**' does.
func Compile(pattern string) (*Matcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, pattern, err)
	}
	m := &Matcher{pattern: pattern, glob: g}

	if simplified, ok := strings.CutPrefix(pattern, "**/"); ok {
		if rg, err := glob.Compile(simplified, '/'); err == nil {
			m.root = rg
		}
	}
	return m, nil
}

// Pattern returns the source pattern.
func (m *Matcher) Pattern() string {
	return m.pattern
}

// Match reports whether relPath matches. relPath uses '/' separators.
func (m *Matcher) Match(relPath string) bool {
	if m.glob.Match(relPath) {
		return true
	}
	return m.root != nil && !strings.Contains(relPath, "/") && m.root.Match(relPath)
}

// FindLogDir returns the directory to search for build logs.
//
// Priority:
//  1. explicit (if non-empty)
//  2. MSBUILDLOG_DIR environment variable
//  3. the current working directory
//
// The returned path has symlinks resolved for consistency.
func FindLogDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified directory is invalid", ErrLogDirNotFound)
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if resolved := resolveDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrLogDirNotFound, EnvLogDir)
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLogDirNotFound, err)
	}
	if resolved := resolveDir(wd); resolved != "" {
		return resolved, nil
	}
	return "", ErrLogDirNotFound
}

// FindLogFiles returns the regular files below dir whose relative path matches m,
// sorted by path. Symlinks are not followed.
//
// Returns ErrNoLogFiles if nothing matches.
func FindLogFiles(dir string, m *Matcher) ([]string, error) {
	var found []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped, an unreadable root is fatal
			if path == dir {
				return err
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if m.Match(filepath.ToSlash(rel)) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking log directory: %w", err)
	}

	if len(found) == 0 {
		return nil, ErrNoLogFiles
	}
	sort.Strings(found)
	return found, nil
}

// logCandidate holds a log file path and its cached modification time.
// This avoids race conditions where files are deleted between stat and sort.
type logCandidate struct {
	path    string
	modTime int64
}

// FindLatestLogFile returns the most recently modified log file below dir.
// Ties are broken by path so the result is stable.
//
// Returns ErrNoLogFiles if no log files are found.
func FindLatestLogFile(dir string, m *Matcher) (string, error) {
	matches, err := FindLogFiles(dir, m)
	if err != nil {
		return "", err
	}

	candidates := make([]logCandidate, 0, len(matches))
	for _, p := range matches {
		info, err := os.Lstat(p)
		if err != nil {
			// Skip files removed since the walk
			continue
		}
		candidates = append(candidates, logCandidate{
			path:    p,
			modTime: info.ModTime().UnixNano(),
		})
	}

	if len(candidates) == 0 {
		return "", ErrNoLogFiles
	}

	// Newest first
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].modTime > candidates[j].modTime
	})
	return candidates[0].path, nil
}

// resolveDir resolves symlinks and checks that dir is a directory.
// Returns the resolved path if valid, empty string otherwise.
func resolveDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	return resolved
}
