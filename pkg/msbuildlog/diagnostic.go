package msbuildlog

import "github.com/msbuildlog/msbuildlog-go/internal/parser"

// Severity is the severity word printed by MSBuild for a diagnostic.
type Severity string

// Severities recognized in build output.
const (
	SeverityError   Severity = parser.SeverityError
	SeverityWarning Severity = parser.SeverityWarning
)

// AllSeverities returns all recognized severities.
func AllSeverities() []Severity {
	return []Severity{SeverityError, SeverityWarning}
}

// Valid reports whether s is a recognized severity.
func (s Severity) Valid() bool {
	return s == SeverityError || s == SeverityWarning
}

func (s Severity) String() string {
	return string(s)
}

// Diagnostic is one finding extracted from a build log line.
// A Diagnostic is never modified after it is built.
type Diagnostic struct {
	// File is the deduplicated file handle from the session's FileCache.
	// Diagnostics for the same normalized path share the same *File.
	File *File

	Line   int
	Column int

	// Severity is the literal severity word of the line (error or warning).
	Severity Severity

	// RuleID is the analyzer or compiler code, e.g. "C4996".
	RuleID string

	// Message is the diagnostic text with surrounding whitespace trimmed.
	Message string

	// Project is the project file MSBuild printed in brackets at the end of the line.
	Project string
}

// Path returns the normalized absolute path of the diagnostic's file.
func (d Diagnostic) Path() string {
	if d.File == nil {
		return ""
	}
	return d.File.Path
}
