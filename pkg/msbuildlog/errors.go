package msbuildlog

import (
	"errors"
	"fmt"

	"github.com/msbuildlog/msbuildlog-go/internal/logfinder"
	"github.com/msbuildlog/msbuildlog-go/internal/safefile"
)

// Sentinel errors.
var (
	// ErrNotRegularFile is returned when a log path is a symlink, FIFO, device or directory.
	ErrNotRegularFile = safefile.ErrNotRegularFile

	// ErrFileTooLarge is returned when a log file exceeds the configured size limit.
	ErrFileTooLarge = safefile.ErrFileTooLarge

	// ErrNoLogFiles is returned by ParseDir when no file matches the pattern.
	ErrNoLogFiles = logfinder.ErrNoLogFiles

	// ErrInvalidPattern is returned by ParseDir for a malformed glob pattern.
	ErrInvalidPattern = logfinder.ErrInvalidPattern
)

// ParseError reports a failure to read or parse one log file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
// This enables errors.Is() and errors.As() to work with ParseError.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError reports whether err contains a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
