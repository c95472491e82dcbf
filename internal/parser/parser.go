// Package parser provides MSBuild diagnostic line matching.
package parser

import (
	"strconv"
	"strings"
)

// Match holds the fields captured from one diagnostic line.
// All fields are the raw text captured by the line grammar.
type Match struct {
	Prefix     string // project ordinal, e.g. "1" or "12:3"
	Path       string // source path as printed by the tool
	Line       string
	Column     string
	Severity   string // SeverityError or SeverityWarning
	AnalyzerID string
	Message    string // untrimmed
	Project    string
}

// LineNumber returns Line as an int.
func (m *Match) LineNumber() int {
	n, _ := strconv.Atoi(m.Line)
	return n
}

// ColumnNumber returns Column as an int.
func (m *Match) ColumnNumber() int {
	n, _ := strconv.Atoi(m.Column)
	return n
}

// MatchLine reports whether line is an MSBuild diagnostic line and extracts its fields.
//
// Returns:
//   - (*Match, true): line is a diagnostic
//   - (nil, false): line carries no diagnostic (not an error)
func MatchLine(line string) (*Match, bool) {
	// Trim trailing CR for Windows CRLF compatibility
	line = strings.TrimRight(line, "\r")
	line = strings.TrimLeftFunc(line, isSpace)

	// Quick exclusion: every diagnostic has a '>' prefix terminator and a "): " column terminator
	if !strings.Contains(line, "): ") || !strings.Contains(line, ">") {
		return nil, false
	}

	sub := diagnosticPattern.FindStringSubmatch(line)
	if sub == nil {
		return nil, false
	}

	m := &Match{
		Prefix:     sub[idxPrefix],
		Path:       sub[idxPath],
		Line:       sub[idxLine],
		Column:     sub[idxColumn],
		Severity:   sub[idxSeverity],
		AnalyzerID: sub[idxAnalyzerID],
		Message:    sub[idxMessage],
		Project:    sub[idxProject],
	}

	// Digit runs too long for an int are not a usable position.
	if !fitsInt(m.Line) || !fitsInt(m.Column) {
		return nil, false
	}

	return m, true
}

func fitsInt(digits string) bool {
	_, err := strconv.Atoi(digits)
	return err == nil
}
