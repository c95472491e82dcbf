package parser

import (
	"regexp"
	"unicode"
)

// Group names of diagnosticPattern.
const (
	groupPrefix     = "prefix"
	groupPath       = "path"
	groupLine       = "line"
	groupColumn     = "column"
	groupSeverity   = "severity"
	groupAnalyzerID = "analyzer_id"
	groupMessage    = "message"
	groupProject    = "project"
)

// Whitespace classes matching isSpace. RE2's \s and \S are ASCII only.
const (
	// otherSpace is every whitespace character except ' ' and '\t'.
	otherSpace = `\n\v\f\r\x1c-\x1f\x{85}\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}`

	space    = `[ \t` + otherSpace + `]`
	nonSpace = `[^ \t` + otherSpace + `]`

	// messageChar is a non-space, a space or a tab.
	messageChar = `[^` + otherSpace + `]`
)

// Compiled regex patterns for diagnostic detection.
var (
	// Matches: "1>C:\src\a.c(10,5): error CHK001: message text [C:\src\proj.vcxproj]"
	// Matches: "12:3>src\b.cpp(7,1): warning C4996: 'strcpy': deprecated [proj.vcxproj]"
	diagnosticPattern = regexp.MustCompile(
		// Project ordinal prefix followed by a '>'.
		`^(?P<prefix>[:\d]+)>` +
			// Path, up to the '('.
			`(?P<path>` + nonSpace + `+)` +
			// Line number followed by a ','.
			`\((?P<line>\d+),` +
			// Column number followed by "): ".
			`(?P<column>\d+)\): ` +
			`(?P<severity>error|warning) ` +
			// Analyzer (rule) id followed by ": ".
			`(?P<analyzer_id>\w+): ` +
			// Message, optional trailing whitespace, then one space.
			`(?P<message>` + messageChar + `+)` + space + `* ` +
			// Project file between '[' and ']'.
			`\[(?P<project>` + nonSpace + `+)\]`,
	)

	// Submatch indices into diagnosticPattern, resolved once.
	idxPrefix     = diagnosticPattern.SubexpIndex(groupPrefix)
	idxPath       = diagnosticPattern.SubexpIndex(groupPath)
	idxLine       = diagnosticPattern.SubexpIndex(groupLine)
	idxColumn     = diagnosticPattern.SubexpIndex(groupColumn)
	idxSeverity   = diagnosticPattern.SubexpIndex(groupSeverity)
	idxAnalyzerID = diagnosticPattern.SubexpIndex(groupAnalyzerID)
	idxMessage    = diagnosticPattern.SubexpIndex(groupMessage)
	idxProject    = diagnosticPattern.SubexpIndex(groupProject)
)

// isSpace reports whether r is stripped from the start of a line and excluded
// from paths and project names.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Severity literals recognized by diagnosticPattern.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)
